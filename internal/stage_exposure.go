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

// Exposure multiplies all RGB channels by 2^stops, per §4.10. The pipeline
// stays floating-point end to end, so no clamp is applied here; saturation
// happens at the final 8-bit tone-curve lookup.
func Exposure(in *PlanarImage, stops float32) *PlanarImage {
	if stops == 0 {
		return in
	}
	factor := float32(math.Pow(2, float64(stops)))
	w, h := in.Width, in.Height
	out := NewPlanarImage(w, h)
	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			base := y * w
			for x := 0; x < w; x++ {
				i := base + x
				out.R[i] = in.R[i] * factor
				out.G[i] = in.G[i] * factor
				out.B[i] = in.B[i] * factor
			}
		}
	})
	return out
}
