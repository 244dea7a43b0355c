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

// guidedFilterDownsample is the fixed downsample factor s for the guided
// filter's box-mean passes. Raw denoise uses s=1 (no subsampling) for max
// quality, per §4.7 and original_source/src/stage_denoise.h.
const guidedFilterDownsample = 1

// denoiseRadius is the guided filter's fixed box radius for the raw-denoise
// caller, per §4.7 and original_source/src/stage_denoise.h's fixed_radius=2.
const denoiseRadius = 2

// Denoise applies variance-stabilized guided-filter denoising to a
// GRBG-normalized Bayer plane, per §4.7: Anscombe-like VST, guided filtering
// on the mosaic's own values as both guide and input, inverse VST, then a
// strength-weighted blend with the original. Bypasses when strength is below
// 0.001.
func Denoise(in *BayerPlane, strength, eps float32) *BayerPlane {
	if strength < 0.001 {
		return in
	}
	if eps <= 0 {
		eps = 1e-2
	}

	w, h := in.Width, in.Height
	black, white := float32(in.Black), float32(in.White)
	rng := white - black

	vst := NewGrayImage(w, h)
	for i, v := range in.Data {
		norm := (float32(v) - black) / rng
		vst.Data[i] = anscombeForward(norm)
	}

	filtered := guidedFilterSelf(vst, denoiseRadius, eps, guidedFilterDownsample)

	out := NewBayerPlane(w, h, CFAGRBG, in.Black, in.White)
	for i, v := range in.Data {
		denoised := anscombeInverse(filtered.Data[i])
		original := (float32(v) - black) / rng
		blended := lerp32(original, denoised, strength)
		out.Data[i] = uint16(clampF32(blended*rng+black, 0, 65535))
	}
	return out
}

// anscombeForward applies the Anscombe variance-stabilizing transform,
// mapping Poisson-like sensor noise toward a constant-variance domain.
func anscombeForward(x float32) float32 {
	if x < 0 {
		x = 0
	}
	return 2 * float32(math.Sqrt(float64(x)+3.0/8.0))
}

// anscombeInverse is the algebraic inverse of anscombeForward: x = (z/2)^2 - 3/8.
func anscombeInverse(z float32) float32 {
	if z < 0 {
		z = 0
	}
	v := z*z/4 - 3.0/8.0
	if v < 0 {
		v = 0
	}
	return v
}

// guidedFilterSelf runs He et al.'s guided filter using the input image as
// its own guide, with box means computed at 1/s resolution and upsampled,
// per §4.7.
func guidedFilterSelf(src *GrayImage, radius int, eps float32, s int) *GrayImage {
	w, h := src.Width, src.Height
	sw, sh := maxInt(w/s, 1), maxInt(h/s, 1)

	small := downsampleGray(src, sw, sh)
	sRadius := maxInt(radius/s, 1)

	meanI := boxBlurGray(small, sRadius)
	sq := squareGray(small)
	meanII := boxBlurGray(sq, sRadius)
	releasePooledGray(sq)

	varI := newPooledGray(sw, sh)
	for i := range varI.Data {
		mi := meanI.Data[i]
		varI.Data[i] = meanII.Data[i] - mi*mi
	}

	a := newPooledGray(sw, sh)
	b := newPooledGray(sw, sh)
	for i := range a.Data {
		ai := varI.Data[i] / (varI.Data[i] + eps)
		a.Data[i] = ai
		b.Data[i] = meanI.Data[i] * (1 - ai)
	}
	releasePooledGray(varI)

	meanA := boxBlurGray(a, sRadius)
	meanB := boxBlurGray(b, sRadius)
	releasePooledGray(a)
	releasePooledGray(b)
	releasePooledGray(meanI)
	releasePooledGray(meanII)
	releasePooledGray(small)

	out := NewGrayImage(w, h)
	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			fy := float32(y) * float32(sh) / float32(h)
			for x := 0; x < w; x++ {
				fx := float32(x) * float32(sw) / float32(w)
				av := SampleBilinearGray(meanA, fx, fy)
				bv := SampleBilinearGray(meanB, fx, fy)
				out.Data[y*w+x] = av*src.At(x, y) + bv
			}
		}
	})
	releasePooledGray(meanA)
	releasePooledGray(meanB)
	return out
}

func squareGray(g *GrayImage) *GrayImage {
	out := newPooledGray(g.Width, g.Height)
	for i, v := range g.Data {
		out.Data[i] = v * v
	}
	return out
}

func downsampleGray(src *GrayImage, w, h int) *GrayImage {
	out := newPooledGray(w, h)
	for y := 0; y < h; y++ {
		fy := float32(y) * float32(src.Height) / float32(h)
		for x := 0; x < w; x++ {
			fx := float32(x) * float32(src.Width) / float32(w)
			out.Data[y*w+x] = SampleBilinearGray(src, fx, fy)
		}
	}
	return out
}

// boxBlurGray applies a separable (2*radius+1)-wide box mean with edge-repeat.
func boxBlurGray(src *GrayImage, radius int) *GrayImage {
	w, h := src.Width, src.Height
	tmp := newPooledGray(w, h)
	k := float32(2*radius + 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float32
			for dx := -radius; dx <= radius; dx++ {
				sum += src.At(x+dx, y)
			}
			tmp.Data[y*w+x] = sum / k
		}
	}
	out := newPooledGray(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float32
			for dy := -radius; dy <= radius; dy++ {
				sum += tmp.At(x, y+dy)
			}
			out.Data[y*w+x] = sum / k
		}
	}
	releasePooledGray(tmp)
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
