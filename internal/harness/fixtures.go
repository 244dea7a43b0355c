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

// Package harness builds synthetic Bayer fixtures and checks the testable
// properties from spec §8 against the pipeline driver.
package harness

import (
	"github.com/valyala/fastrand"
	"gonum.org/v1/gonum/mat"

	rp "github.com/thingsapart/rawproc/internal"
)

// FlatField returns a uniform GRBG Bayer plane of the given value.
func FlatField(w, h int, value, black, white uint16) *rp.BayerPlane {
	p := rp.NewBayerPlane(w, h, rp.CFAGRBG, black, white)
	for i := range p.Data {
		p.Data[i] = value
	}
	return p
}

// HotPixel returns an otherwise-zero Bayer plane with a single isolated
// saturated pixel at (x,y).
func HotPixel(w, h, x, y int, black, white uint16) *rp.BayerPlane {
	p := rp.NewBayerPlane(w, h, rp.CFAGRBG, black, white)
	p.Data[y*w+x] = 65535
	return p
}

// Gradient returns a Bayer plane with value (y*w+x)*step at (x,y), per the
// S2/S3 scenario shape.
func Gradient(w, h int, step uint16, black, white uint16) *rp.BayerPlane {
	p := rp.NewBayerPlane(w, h, rp.CFAGRBG, black, white)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.Data[y*w+x] = uint16((y*w + x) * int(step))
		}
	}
	return p
}

// StripedEdge returns a Bayer plane alternating between lo and hi every
// stripeWidth columns, for the CA-correction bounded-overshoot property.
func StripedEdge(w, h int, lo, hi uint16, stripeWidth int, black, white uint16) *rp.BayerPlane {
	p := rp.NewBayerPlane(w, h, rp.CFAGRBG, black, white)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := lo
			if (x/stripeWidth)%2 == 1 {
				v = hi
			}
			p.Data[y*w+x] = v
		}
	}
	return p
}

// DarkBlueSwatch returns a Bayer plane whose demosaiced result is a dark
// blue, for the hue-family-preserved-under-grading property: Gr=Gb=50,
// R=50, B=100 at their native GRBG sites.
func DarkBlueSwatch(w, h int, black, white uint16) *rp.BayerPlane {
	p := rp.NewBayerPlane(w, h, rp.CFAGRBG, black, white)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case x%2 == 0 && y%2 == 0: // Gr
				p.Data[y*w+x] = 50
			case x%2 == 1 && y%2 == 0: // R
				p.Data[y*w+x] = 50
			case x%2 == 0 && y%2 == 1: // B
				p.Data[y*w+x] = 100
			default: // Gb
				p.Data[y*w+x] = 50
			}
		}
	}
	return p
}

// NoisyFlatField returns a uniform field perturbed by bounded pseudo-random
// noise, for exercising denoise against sensor-like input. The zero-value
// fastrand RNG seeds itself from the clock on first use, so repeated calls
// produce different noise.
func NoisyFlatField(w, h int, value, noiseRange uint16, black, white uint16) *rp.BayerPlane {
	p := rp.NewBayerPlane(w, h, rp.CFAGRBG, black, white)
	var rng fastrand.RNG
	for i := range p.Data {
		delta := int(rng.Uint32n(uint32(2*noiseRange+1))) - int(noiseRange)
		v := int(value) + delta
		if v < 0 {
			v = 0
		}
		if v > 65535 {
			v = 65535
		}
		p.Data[i] = uint16(v)
	}
	return p
}

// IdentityColorMatrix returns a 3x4 matrix that passes scene-linear RGB
// through unchanged, matching rawproc.main's production usage for inputs
// with no sensor-specific calibration. Spec §8 scenario S1 references
// "matrix_3200 from §4.9 defaults" without naming numeric values, so the
// fixtures use the identity matrix for both illuminants.
func IdentityColorMatrix() *mat.Dense {
	return mat.NewDense(3, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
	})
}
