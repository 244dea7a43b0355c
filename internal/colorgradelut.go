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

// DefaultLUTResolution is N for the 3D color-grading LUT, per §3.
const DefaultLUTResolution = 33

// wheelScale is the fixed factor color wheel offsets are scaled by, per §4.3.
const wheelScale = 50

// ColorGradeLUT is the N x N x N x 3 floating table mapping normalized
// (L*,C*,h) grid coordinates to graded (L'*,C'*,h'). Storage matches the
// producer's loop order (§9): L is innermost (fastest-varying) alongside the
// channel index, then C, then h.
type ColorGradeLUT struct {
	N    int
	Data []float32
}

// NewColorGradeLUT allocates an uninitialized LUT of resolution n.
func NewColorGradeLUT(n int) *ColorGradeLUT {
	return &ColorGradeLUT{N: n, Data: make([]float32, n*n*n*3)}
}

func (lut *ColorGradeLUT) index(l, c, h, k int) int {
	return ((h*lut.N+c)*lut.N+l)*3 + k
}

func (lut *ColorGradeLUT) at(l, c, h, k int) float32 {
	return lut.Data[lut.index(l, c, h, k)]
}

func (lut *ColorGradeLUT) set(l, c, h, k int, v float32) {
	lut.Data[lut.index(l, c, h, k)] = v
}

// BuildColorGradeLUT builds the 3D color-grading LUT per §4.3: five curve
// sequences applied additively/multiplicatively, three color wheels with
// luma-dependent smoothstep masks, round-tripped through Lab.
func BuildColorGradeLUT(p *Params) *ColorGradeLUT {
	n := DefaultLUTResolution
	lut := NewColorGradeLUT(n)

	hh := NewMonotoneSpline(p.CurveHvsH.Normalize(0, 0))
	hs := NewMonotoneSpline(p.CurveHvsS.Normalize(1, 1))
	hl := NewMonotoneSpline(p.CurveHvsL.Normalize(0, 0))
	ls := NewMonotoneSpline(p.CurveLvsS.Normalize(1, 1))
	ss := NewMonotoneSpline(identityEndpoints(p.CurveSvsS))

	// Producer loop order matches storage layout: h outermost, then c, then l
	// innermost, so sequential writes stay contiguous (§9).
	for hi := 0; hi < n; hi++ {
		hNorm := float32(hi) / float32(n-1)
		hPhys := (hNorm*2 - 1) * math.Pi // [-pi,pi]

		for ci := 0; ci < n; ci++ {
			cNorm := float32(ci) / float32(n-1)
			cPhys := cNorm * 150

			for li := 0; li < n; li++ {
				lNorm := float32(li) / float32(n-1)
				lPhys := lNorm * 100

				L, C, h := applyGradingCurves(lPhys, cPhys, hPhys, hh, hs, hl, ls, ss)

				l2, a2, b2 := LChToLab(L, C, h)
				l2, a2, b2 = applyColorWheels(l2, a2, b2, p)

				L2, C2, h2 := LabToLCh(l2, a2, b2)

				lut.set(li, ci, hi, 0, L2)
				lut.set(li, ci, hi, 1, C2)
				lut.set(li, ci, hi, 2, h2)
			}
		}
	}
	return lut
}

// identityEndpoints normalizes the S-vs-S curve with y=x at the endpoints,
// the "identity" default per §4.1.
func identityEndpoints(c Curve) Curve {
	out := make(Curve, 0, len(c)+2)
	if len(c) == 0 || c[0].X > 0 {
		out = append(out, CurvePoint{0, 0})
	}
	out = append(out, c...)
	if len(out) == 0 || out[len(out)-1].X < 1 {
		out = append(out, CurvePoint{1, 1})
	}
	return out
}

// hueNorm maps a physical hue in [-pi,pi] to [0,1] for curve lookups keyed by hue.
func hueNorm(h float32) float32 {
	return (h/math.Pi + 1) / 2
}

func applyGradingCurves(L, C, h float32, hh, hs, hl, ls, ss *MonotoneSpline) (float32, float32, float32) {
	hn := hueNorm(h)

	// H-vs-H: additive hue shift as a function of hue.
	h = h + (hh.Eval(hn)-0)*math.Pi
	hn = hueNorm(wrapHue(h))

	// H-vs-S: multiplicative chroma scale as a function of hue.
	C = C * hs.Eval(hn)

	// H-vs-L: additive luma shift as a function of hue.
	L = L + hl.Eval(hn)*100

	// L-vs-S: multiplicative chroma scale as a function of luma.
	lNorm := L / 100
	C = C * ls.Eval(clampF32(lNorm, 0, 1))

	// S-vs-S: remap chroma through an identity-anchored curve, normalized to [0,150].
	cNorm := clampF32(C/150, 0, 1)
	C = ss.Eval(cNorm) * 150

	return L, clampF32(C, 0, 500), wrapHue(h)
}

func wrapHue(h float32) float32 {
	for h > math.Pi {
		h -= 2 * math.Pi
	}
	for h < -math.Pi {
		h += 2 * math.Pi
	}
	return h
}

// applyColorWheels blends three color wheel offsets (shadow/mid/highlight) in
// a*,b* of Lab, weighted by smoothstep luma masks, per §4.3 step 3.
func applyColorWheels(l, a, b float32, p *Params) (float32, float32, float32) {
	lNorm := l / 100
	shadowW := 1 - Smoothstep(0, 0.5, lNorm)
	hiW := Smoothstep(0.5, 1, lNorm)
	midW := 1 - shadowW - hiW

	a += wheelScale * (shadowW*p.WheelShadow.X + midW*p.WheelMid.X + hiW*p.WheelHighlight.X)
	b += wheelScale * (shadowW*p.WheelShadow.Y + midW*p.WheelMid.Y + hiW*p.WheelHighlight.Y)

	lumaFactor := 1 + (shadowW*p.WheelShadow.Luma+midW*p.WheelMid.Luma+hiW*p.WheelHighlight.Luma)/100
	l *= lumaFactor

	return l, a, b
}
