// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package internal

import "math"

const keystoneDenomFloor = 1e-4
const caLateralScale = 2e-5

// LensGeometry performs the pull-based inverse warp chain: optional
// geometric transform, radial distortion via the inverse LUT, and
// per-channel lateral CA, per §4.15. Out-of-bounds source samples return 0.
func LensGeometry(in *PlanarImage, p *Params, dist *DistortionLUT) *PlanarImage {
	w, h := in.Width, in.Height
	out := NewPlanarImage(w, h)
	cx, cy := float32(w)/2, float32(h)/2
	rMax := float32(math.Sqrt(float64(cx*cx + cy*cy)))

	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				for c := 0; c < 3; c++ {
					sx, sy := float32(x), float32(y)

					if p.GeometryEnabled {
						sx, sy = inverseGeometric(sx, sy, p, cx, cy)
					}

					dx, dy := sx-cx, sy-cy
					r2 := dx*dx + dy*dy
					if !dist.Identity && rMax > 0 {
						rd2Norm := r2 / (rMax * rMax)
						scale := dist.Sample(rd2Norm)
						dx *= scale
						dy *= scale
					}

					switch c {
					case 0:
						caScale := 1 + p.CARedCyan*caLateralScale*r2
						dx *= caScale
						dy *= caScale
					case 2:
						caScale := 1 + p.CABlueYellow*caLateralScale*r2
						dx *= caScale
						dy *= caScale
					}

					fx, fy := cx+dx, cy+dy
					out.Channel(c)[y*w+x] = sampleOrZero(in, fx, fy, c)
				}
			}
		}
	})
	return out
}

// inverseGeometric applies the inverse of the geometric transform chain:
// translate to center, inverse rotate, inverse keystone, inverse
// scale/aspect, translate back with inverse offset, per §4.15 step 1.
func inverseGeometric(x, y float32, p *Params, cx, cy float32) (float32, float32) {
	x -= cx + p.OffsetX
	y -= cy + p.OffsetY

	angle := -float64(p.Rotate) * math.Pi / 180
	cosA, sinA := float32(math.Cos(angle)), float32(math.Sin(angle))
	rx := x*cosA - y*sinA
	ry := x*sinA + y*cosA
	x, y = rx, ry

	kvDenom := 1 - p.KeystoneV*y/cy
	if kvDenom < keystoneDenomFloor {
		kvDenom = keystoneDenomFloor
	}
	khDenom := 1 - p.KeystoneH*x/cx
	if khDenom < keystoneDenomFloor {
		khDenom = keystoneDenomFloor
	}
	x /= khDenom
	y /= kvDenom

	scale := p.Scale / 100
	if scale <= 0 {
		scale = 1
	}
	x /= scale * p.Aspect
	y /= scale

	return x + cx, y + cy
}

func sampleOrZero(in *PlanarImage, x, y float32, c int) float32 {
	if x < 0 || y < 0 || x > float32(in.Width-1) || y > float32(in.Height-1) {
		return 0
	}
	return SampleBilinear(in, x, y, c)
}
