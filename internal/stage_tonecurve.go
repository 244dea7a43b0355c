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

// RGB8Image is the final 8-bit-per-channel interleaved output, per §3/§4.16.
type RGB8Image struct {
	Width, Height int
	Pix           []uint8 // row-major, 3 bytes per pixel (R,G,B)
}

// NewRGB8Image allocates a zeroed 8-bit RGB image.
func NewRGB8Image(width, height int) *RGB8Image {
	return &RGB8Image{Width: width, Height: height, Pix: make([]uint8, width*height*3)}
}

// ApplyToneCurve indexes the 16-bit tone-curve LUT for each channel and
// takes the upper byte as the final output, per §4.16. Input floats are
// clamped to [0,1] and quantized to 16-bit before lookup.
func ApplyToneCurve(in *PlanarImage, lut *ToneCurveLUT) *RGB8Image {
	w, h := in.Width, in.Height
	out := NewRGB8Image(w, h)

	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			base := y * w
			for x := 0; x < w; x++ {
				i := base + x
				r := quantize16(in.R[i])
				g := quantize16(in.G[i])
				b := quantize16(in.B[i])

				out.Pix[i*3+0] = lut.Apply8(r, 0)
				out.Pix[i*3+1] = lut.Apply8(g, 1)
				out.Pix[i*3+2] = lut.Apply8(b, 2)
			}
		}
	})
	return out
}

func quantize16(v float32) uint16 {
	v = clampF32(v, 0, 1)
	return uint16(v*65535 + 0.5)
}
