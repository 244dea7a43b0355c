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

import "gonum.org/v1/gonum/mat"

// ColorCorrect applies the interpolated 3x4 color matrix and tint to a
// demosaiced planar image, per §4.9. matrix is the already temperature-
// interpolated 3x4 matrix from InterpolateColorMatrix; sensorRange is
// (white-black) used to normalize the matrix's offset column.
func ColorCorrect(in *PlanarImage, matrix [3][4]float32, tint, sensorRange float32) *PlanarImage {
	w, h := in.Width, in.Height
	out := NewPlanarImage(w, h)

	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			base := y * w
			for x := 0; x < w; x++ {
				i := base + x
				r, g, b := in.R[i], in.G[i], in.B[i]

				outR := matrix[0][0]*r + matrix[0][1]*g + matrix[0][2]*b + matrix[0][3]/sensorRange
				outG := matrix[1][0]*r + matrix[1][1]*g + matrix[1][2]*b + matrix[1][3]/sensorRange
				outB := matrix[2][0]*r + matrix[2][1]*g + matrix[2][2]*b + matrix[2][3]/sensorRange

				// Negative matrix offsets can push a dark input below zero;
				// clamp the floor here rather than let it propagate as a
				// negative scene-linear value through later stages.
				out.R[i] = maxF32(outR, 0)
				out.G[i] = maxF32(outG*(1-tint), 0)
				out.B[i] = maxF32(outB, 0)
			}
		}
	})
	return out
}

// MatrixToArray extracts a gonum 3x4 Dense into a fixed [3][4]float32 array
// for use by ColorCorrect.
func MatrixToArray(m *mat.Dense) [3][4]float32 {
	var out [3][4]float32
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = float32(m.At(r, c))
		}
	}
	return out
}
