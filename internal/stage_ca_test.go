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

// Property 7: CA correction on a striped edge stays within a bounded range of
// the observed input levels; the tile shift estimate must not blow up.
func TestCACorrectionBounded(t *testing.T) {
	const w, h = 64, 64
	const lo, hi uint16 = 2000, 10000
	plane := NewBayerPlane(w, h, CFAGRBG, 0, 65535)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := lo
			if (x/4)%2 == 1 {
				v = hi
			}
			plane.Data[y*w+x] = v
		}
	}

	out := CACorrect(plane, 1.0)
	for _, v := range out.Data {
		if v < 1500 || v > 11000 {
			t.Fatalf("CA-corrected value %d outside bounded range [1500,11000]", v)
		}
	}
}

// CACorrect must bypass (return the input unchanged) below the 0.001 strength
// threshold, per §4.6.
func TestCACorrectBypassBelowThreshold(t *testing.T) {
	plane := NewBayerPlane(8, 8, CFAGRBG, 0, 65535)
	for i := range plane.Data {
		plane.Data[i] = uint16(i * 100)
	}
	out := CACorrect(plane, 0.0005)
	if out != plane {
		t.Fatalf("expected bypass to return the same plane pointer")
	}
}
