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

const dehazeEps = 1e-4

// Dehaze removes atmospheric haze via the Color Attenuation Prior, per
// §4.13. Bypasses when strength is below 0.001.
func Dehaze(in *PlanarImage, strength float32) *PlanarImage {
	if strength < 0.001 {
		return in
	}

	w, h := in.Width, in.Height
	out := NewPlanarImage(w, h)
	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			base := y * w
			for x := 0; x < w; x++ {
				i := base + x
				r, g, b := in.R[i], in.G[i], in.B[i]

				v := maxF32(r, maxF32(g, b))
				minV := minF32(r, minF32(g, b))
				s := (v - minV) / (v + dehazeEps)
				d := v - s

				t := clampF32(1-(strength/100)*d, 0.1, 1)

				const a = 1.0 // pure white atmospheric light
				out.R[i] = maxF32((r-a)/t+a, 0)
				out.G[i] = maxF32((g-a)/t+a, 0)
				out.B[i] = maxF32((b-a)/t+a, 0)
			}
		}
	})
	return out
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
