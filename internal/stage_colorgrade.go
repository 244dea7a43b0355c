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

// ColorGrade converts RGB to LCh, trilinearly samples the 3D color-grading
// LUT, and converts back to RGB, per §4.14.
func ColorGrade(in *PlanarImage, lut *ColorGradeLUT) *PlanarImage {
	w, h := in.Width, in.Height
	out := NewPlanarImage(w, h)
	n := lut.N

	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			base := y * w
			for x := 0; x < w; x++ {
				i := base + x
				L, C, hue := RGBToLCh(in.R[i], in.G[i], in.B[i])

				lGrid := clampF32(L/100, 0, 1) * float32(n-1)
				cGrid := clampF32(C/150, 0, 1) * float32(n-1)
				hGrid := clampF32((hue/float32(math.Pi)+1)/2, 0, 1) * float32(n-1)

				L2, C2, h2 := SampleTrilinear(lut, lGrid, cGrid, hGrid)

				r, g, b := LChToRGB(L2, C2, h2)
				out.R[i] = r
				out.G[i] = g
				out.B[i] = b
			}
		}
	})
	return out
}
