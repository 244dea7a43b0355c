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

// DistortionLUTSize is the number of entries in the inverse-distortion LUT, per §3.
const DistortionLUTSize = 2048

// DistortionLUT maps (r_d^2 / r_max^2) to the scale factor r_u/r_d, per §4.4.
type DistortionLUT struct {
	Scale    [DistortionLUTSize]float32
	Identity bool // true when the model is the identity model: every entry is 1.0
}

// BuildDistortionLUT builds the inverse lens-distortion LUT for the given
// model and coefficients.
func BuildDistortionLUT(model DistortionModel, k1, k2, k3 float32) *DistortionLUT {
	lut := &DistortionLUT{}
	if model == DistIdentity {
		lut.Identity = true
		for i := range lut.Scale {
			lut.Scale[i] = 1.0
		}
		return lut
	}

	for i := 0; i < DistortionLUTSize; i++ {
		rd2 := float32(i) / float32(DistortionLUTSize-1)
		rd := float32(math.Sqrt(float64(rd2)))

		var ru float32
		switch model {
		case DistPoly3:
			ru = solvePoly3(rd, k1)
		case DistPoly5, DistPTLens:
			ru = newtonRaphsonDistortion(rd, k1, k2, k3, model)
		default:
			ru = rd
		}

		if rd < 1e-9 {
			lut.Scale[i] = 1.0
		} else {
			lut.Scale[i] = ru / rd
		}
	}
	return lut
}

// solvePoly3 solves the depressed cubic r_u^3 + p*r_u + q = 0 for the POLY3
// model via Cardano's formula, per §4.4. A real root always exists for
// physically valid k1.
func solvePoly3(rd, k1 float32) float32 {
	if k1 == 0 {
		return rd
	}
	p := (1 - k1) / k1
	q := -rd / k1

	pf, qf := float64(p), float64(q)
	disc := (qf*qf)/4 + (pf*pf*pf)/27

	var ru float64
	if disc >= 0 {
		sqrtDisc := math.Sqrt(disc)
		u := cbrt(-qf/2 + sqrtDisc)
		v := cbrt(-qf/2 - sqrtDisc)
		ru = u + v
	} else {
		// Three real roots; pick the one continuous with rd via trigonometric form.
		r := math.Sqrt(-pf * pf * pf / 27)
		phi := math.Acos(clampFloat64(-qf/(2*r), -1, 1))
		t := 2 * math.Sqrt(-pf/3)
		best, bestDist := 0.0, math.MaxFloat64
		for k := 0; k < 3; k++ {
			root := t * math.Cos((phi+2*math.Pi*float64(k))/3)
			if d := math.Abs(root - float64(rd)); d < bestDist {
				best, bestDist = root, d
			}
		}
		ru = best
	}
	return float32(ru)
}

func cbrt(v float64) float64 {
	if v < 0 {
		return -math.Cbrt(-v)
	}
	return math.Cbrt(v)
}

func clampFloat64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// newtonRaphsonDistortion solves for r_u via 4 Newton-Raphson iterations with
// initial guess r_u = r_d, per §4.4, for the POLY5 and PTLENS models.
func newtonRaphsonDistortion(rd, k1, k2, k3 float32, model DistortionModel) float32 {
	ru := float64(rd)
	rdf := float64(rd)
	for i := 0; i < 4; i++ {
		f, fp := distortionResidual(ru, rdf, float64(k1), float64(k2), float64(k3), model)
		if fp == 0 {
			break
		}
		ru -= f / fp
	}
	return float32(ru)
}

// distortionResidual evaluates f(r_u) = r_d(r_u) - r_d and its derivative for
// the forward distortion models, so Newton-Raphson can invert them.
func distortionResidual(ru, rd, k1, k2, k3 float64, model DistortionModel) (f, fp float64) {
	switch model {
	case DistPoly5:
		// r_d = r_u * (1 + k1*r_u^2 + k2*r_u^4)
		ru2 := ru * ru
		forward := ru * (1 + k1*ru2 + k2*ru2*ru2)
		dforward := 1 + 3*k1*ru2 + 5*k2*ru2*ru2
		return forward - rd, dforward
	default: // DistPTLens
		// r_d = r_u * (k1*r_u^3 + k2*r_u^2 + k3*r_u + (1-k1-k2-k3))
		k0 := 1 - k1 - k2 - k3
		ru2 := ru * ru
		forward := ru * (k1*ru2*ru + k2*ru2 + k3*ru + k0)
		dforward := 4*k1*ru2*ru + 3*k2*ru2 + 2*k3*ru + k0
		return forward - rd, dforward
	}
}

// Sample looks up the scale factor for a normalized squared radius with
// linear interpolation and clamped indexing, per §4.4.
func (lut *DistortionLUT) Sample(rd2Norm float32) float32 {
	if lut.Identity {
		return 1.0
	}
	f := clampF32(rd2Norm, 0, 1) * float32(DistortionLUTSize-1)
	i0 := int(f)
	if i0 >= DistortionLUTSize-1 {
		return lut.Scale[DistortionLUTSize-1]
	}
	t := f - float32(i0)
	return lerp32(lut.Scale[i0], lut.Scale[i0+1], t)
}
