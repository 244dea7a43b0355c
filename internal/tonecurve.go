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

const toneCurveSize = 65536

// BuildToneCurveLUT builds a 65536x3 u16 table per §4.2. Channel source
// selection follows the fallback chain: per-channel override, then master
// luma curve, then a generated default S-curve from contrast. When
// applyBaseTonemap is true the linear input is gamma-companded with
// y = x^(1/2.2) before the spline; this is the production pipeline LUT. When
// false (UI preview), the gamma step is skipped.
func BuildToneCurveLUT(p *Params) *ToneCurveLUT {
	lut := &ToneCurveLUT{}

	curves := [3]Curve{p.CurveR, p.CurveG, p.CurveB}
	for c := 0; c < 3; c++ {
		var spline *MonotoneSpline
		switch {
		case len(curves[c]) > 0:
			spline = NewMonotoneSpline(curves[c].Normalize(0, 1))
		case len(p.CurveLuma) > 0:
			spline = NewMonotoneSpline(p.CurveLuma.Normalize(0, 1))
		default:
			spline = NewMonotoneSpline(defaultSCurve(p.Contrast))
		}

		for v := 0; v < toneCurveSize; v++ {
			x := float32(v) / float32(toneCurveSize-1)
			if p.ApplyBaseTonemap {
				x = float32(math.Pow(float64(x), 1.0/2.2))
			}
			y := spline.Eval(x)
			y = clampF32(y, 0, 1)
			lut[v][c] = uint16(y*float32(toneCurveSize-1) + 0.5)
		}
	}
	return lut
}

// defaultSCurve generates an S-shaped default curve from the contrast slider,
// per §4.2: b = 2 - 2^(contrast/100), a = 2 - 2b.
func defaultSCurve(contrast float32) Curve {
	b := 2 - float32(math.Pow(2, float64(contrast)/100))
	a := 2 - 2*b
	// Sample the cubic a*t^3 + b*t at a handful of control points so the
	// monotone spline reproduces the classic S-curve shape.
	pts := Curve{}
	const samples = 8
	for i := 0; i <= samples; i++ {
		t := float32(i) / float32(samples)
		y := a*t*t*t + b*t
		pts = append(pts, CurvePoint{t, clampF32(y, 0, 1)})
	}
	pts[0] = CurvePoint{0, 0}
	pts[len(pts)-1] = CurvePoint{1, 1}
	return pts
}

// AverageToLuma computes the master luma curve from the union of x-coords
// across the three per-channel curves, per §4.2: for each unique x, the new
// luma y is the mean of the three evaluated y's at that x.
func AverageToLuma(curveR, curveG, curveB Curve) Curve {
	xset := map[float32]bool{}
	var xs []float32
	add := func(c Curve) {
		for _, p := range c {
			if !xset[p.X] {
				xset[p.X] = true
				xs = append(xs, p.X)
			}
		}
	}
	add(curveR)
	add(curveG)
	add(curveB)
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}

	sR := NewMonotoneSpline(curveR.Normalize(0, 1))
	sG := NewMonotoneSpline(curveG.Normalize(0, 1))
	sB := NewMonotoneSpline(curveB.Normalize(0, 1))

	out := make(Curve, len(xs))
	for i, x := range xs {
		y := (sR.Eval(x) + sG.Eval(x) + sB.Eval(x)) / 3
		out[i] = CurvePoint{x, y}
	}
	return out
}

// ToneCurveLUT is the two-column table indexed by 16-bit input, three
// channels, storing 16-bit output values whose upper byte is the final
// 8-bit result (§3, §4.16).
type ToneCurveLUT [toneCurveSize][3]uint16

// Apply8 looks up the upper byte of the LUT entry for channel c at 16-bit
// index v, per §4.16.
func (l *ToneCurveLUT) Apply8(v uint16, c int) uint8 {
	return uint8(l[v][c] >> 8)
}
