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

// Vignette darkens (or brightens) toward the image edges along anisotropic
// axes, per §4.12. amount, midpoint, roundness and highlightProtection are
// all normalized to [0,1] (the Params fields carry [0,100]-scale UI values;
// callers divide by 100 before passing in).
func Vignette(in *PlanarImage, amount, midpoint, roundness, highlightProtection float32) *PlanarImage {
	if amount == 0 {
		return in
	}

	w, h := in.Width, in.Height
	cx, cy := float32(w)/2, float32(h)/2
	minC := cx
	if cy < minC {
		minC = cy
	}
	sx := lerp32(minC, cx, roundness)
	sy := lerp32(minC, cy, roundness)
	exponent := float32(0.25 * math.Pow(32, float64(midpoint)))

	out := NewPlanarImage(w, h)
	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			dy := float32(y) - cy
			for x := 0; x < w; x++ {
				dx := float32(x) - cx
				r := float32(math.Sqrt(float64((dx/sx)*(dx/sx) + (dy/sy)*(dy/sy))))
				factor := 1 - amount*float32(math.Pow(float64(r), float64(exponent)))

				i := y*w + x
				if amount > 0 {
					luma := 0.2126*in.R[i] + 0.7152*in.G[i] + 0.0722*in.B[i]
					protect := Smoothstep(0.75, 1, luma) * highlightProtection
					factor = lerp32(factor, 1, protect)
				}

				out.R[i] = in.R[i] * factor
				out.G[i] = in.G[i] * factor
				out.B[i] = in.B[i] * factor
			}
		}
	})
	return out
}
