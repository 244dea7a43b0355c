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

import "testing"

// Property 4: demosaicing a uniform field never produces a negative channel,
// for any of the four selectable algorithms.
func TestDemosaicUniformNonNegative(t *testing.T) {
	const w, h = 16, 16
	plane := NewBayerPlane(w, h, CFAGRBG, 0, 65535)
	for i := range plane.Data {
		plane.Data[i] = 20000
	}
	mosaic := CFANormalize(plane, 1.0)

	for _, algo := range []DemosaicAlgorithm{DemosaicFast, DemosaicAHD, DemosaicLMMSE, DemosaicRI} {
		out := Demosaic(mosaic, algo)
		for i := range out.R {
			if out.R[i] < 0 || out.G[i] < 0 || out.B[i] < 0 {
				t.Fatalf("algo %v: negative channel at pixel %d (%v,%v,%v)", algo, i, out.R[i], out.G[i], out.B[i])
			}
		}
	}
}

// A uniform mosaic should demosaic to a uniform (or near-uniform) field close
// to the normalized input value, across every algorithm.
func TestDemosaicUniformFieldCloseToInput(t *testing.T) {
	const w, h = 16, 16
	const value = 30000
	plane := NewBayerPlane(w, h, CFAGRBG, 0, 65535)
	for i := range plane.Data {
		plane.Data[i] = value
	}
	mosaic := CFANormalize(plane, 1.0)
	want := float32(value) / 65535

	for _, algo := range []DemosaicAlgorithm{DemosaicFast, DemosaicAHD, DemosaicLMMSE, DemosaicRI} {
		out := Demosaic(mosaic, algo)
		for i := range out.R {
			for _, v := range []float32{out.R[i], out.G[i], out.B[i]} {
				if diff := v - want; diff < -0.01 || diff > 0.01 {
					t.Fatalf("algo %v: channel at %d = %v, want ~%v", algo, i, v, want)
				}
			}
		}
	}
}
