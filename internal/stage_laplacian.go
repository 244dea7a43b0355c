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

// laplacianLevels is J, the number of pyramid levels, per §4.11.
const laplacianLevels = 8

// LocalContrastLaplacian applies local-contrast enhancement via a genuine
// multi-resolution Laplacian pyramid operating in normalized L*/100 space,
// per §4.11. Bypasses (returns input unchanged) when all six sliders are
// zero.
func LocalContrastLaplacian(in *PlanarImage, clarity, shadows, highlights, blacks, whites, sharpen float32) *PlanarImage {
	if clarity == 0 && shadows == 0 && highlights == 0 && blacks == 0 && whites == 0 && sharpen == 0 {
		return in
	}

	w, h := in.Width, in.Height
	lImg := NewGrayImage(w, h)
	aImg := NewGrayImage(w, h)
	bImg := NewGrayImage(w, h)
	for i := 0; i < w*h; i++ {
		l, a, bb := RGBToLab(in.R[i], in.G[i], in.B[i])
		lImg.Data[i] = l / 100
		aImg.Data[i] = a
		bImg.Data[i] = bb
	}

	const J = laplacianLevels
	gPyramid, inGPyramid, widths, heights := buildGaussianPyramids(lImg, J, clarity, shadows, highlights, sharpen)
	lPyramid := buildLaplacianPyramid(gPyramid, widths, heights, J)
	outGPyramid := collapseLaplacianPyramid(lPyramid, inGPyramid, widths, heights, J)

	out := NewPlanarImage(w, h)
	lOut := outGPyramid[0]
	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			rowBase := y * w
			for x := 0; x < w; x++ {
				i := rowBase + x
				val := lOut.Data[i]
				val = (val - blacks/250) / (1 + whites/250 - blacks/250)
				val = clampF32(val, 0, 1) * 100

				r, g, bOut := LabToRGB(val, aImg.Data[i], bImg.Data[i])
				out.R[i] = r
				out.G[i] = g
				out.B[i] = bOut
			}
		}
	})
	return out
}

// buildGaussianPyramids constructs the J-level remapped Gaussian pyramid
// gPyramid[j][k] (spatial level j, reference level k) and the companion
// single-plane intensity pyramid inGPyramid[j] used to pick each spatial
// level's own reference index during reconstruction, per §4.11's
// gPyramid(x,y,k) formula. Level 0 is computed directly from the full-
// resolution base image; levels 1..J-1 are produced by repeated 4-tap
// [1,3,3,1]/8 downsampling of level 0's chain, per §4.11. The original
// implementation forks this chain at a cutover level into a second path computed
// from lower-fidelity input for performance; since this implementation has
// no separate low-fidelity source to fork from, a single consistent
// downsample chain is used throughout, producing the same pyramid values.
func buildGaussianPyramids(base *GrayImage, J int, clarity, shadows, highlights, sharpen float32) (gPyramid [][]*GrayImage, inGPyramid []*GrayImage, widths, heights []int) {
	widths = make([]int, J)
	heights = make([]int, J)
	widths[0], heights[0] = base.Width, base.Height
	for j := 1; j < J; j++ {
		widths[j] = ceilDiv2(widths[j-1])
		heights[j] = ceilDiv2(heights[j-1])
	}

	gPyramid = make([][]*GrayImage, J)
	inGPyramid = make([]*GrayImage, J)
	inGPyramid[0] = base

	gPyramid[0] = make([]*GrayImage, J)
	w, h := widths[0], heights[0]
	for k := 0; k < J; k++ {
		kNorm := float32(k) / float32(J-1)
		g := NewGrayImage(w, h)
		parallelRows(h, func(y0, y1 int) {
			for y := y0; y < y1; y++ {
				rowBase := y * w
				for x := 0; x < w; x++ {
					i := rowBase + x
					t := base.Data[i]
					g.Data[i] = (1+clarity/100)*(t-kNorm) + kNorm +
						shadows/100*(1-Smoothstep(0, 0.5, kNorm)) +
						highlights/100*Smoothstep(0.5, 1, kNorm) +
						detailLUT(t, sharpen)
				}
			}
		})
		gPyramid[0][k] = g
	}

	for j := 1; j < J; j++ {
		gPyramid[j] = make([]*GrayImage, J)
		for k := 0; k < J; k++ {
			gPyramid[j][k] = downsampleGray4tap(gPyramid[j-1][k], widths[j], heights[j])
		}
		inGPyramid[j] = downsampleGray4tap(inGPyramid[j-1], widths[j], heights[j])
	}
	return gPyramid, inGPyramid, widths, heights
}

// buildLaplacianPyramid computes lPyramid[j][k] = gPyramid[j][k] -
// upsample(gPyramid[j+1][k]) for j=0..J-2, with the coarsest level passed
// through unchanged, per §4.11's `L[j] = g[j] − upsample(g[j+1])`.
func buildLaplacianPyramid(gPyramid [][]*GrayImage, widths, heights []int, J int) [][]*GrayImage {
	lPyramid := make([][]*GrayImage, J)
	lPyramid[J-1] = gPyramid[J-1]
	for j := J - 2; j >= 0; j-- {
		lPyramid[j] = make([]*GrayImage, J)
		for k := 0; k < J; k++ {
			up := upsampleGray4tap(gPyramid[j+1][k], widths[j], heights[j])
			l := NewGrayImage(widths[j], heights[j])
			for i := range l.Data {
				l.Data[i] = gPyramid[j][k].Data[i] - up.Data[i]
			}
			lPyramid[j][k] = l
		}
	}
	return lPyramid
}

// collapseLaplacianPyramid picks, at each spatial level j and pixel, the
// reference-level pair bracketing that level's own (downsampled) intensity
// and lerps between them, then collapses bottom-up by upsample+add across
// every level, per §4.11: "At each output pixel pick the level index from
// L(x,y)·(J-1) and lerp between adjacent L[j] planes, then collapse by
// upsample+add." outGPyramid[0] is the final full-resolution result.
func collapseLaplacianPyramid(lPyramid [][]*GrayImage, inGPyramid []*GrayImage, widths, heights []int, J int) []*GrayImage {
	outLPyramid := make([]*GrayImage, J)
	for j := 0; j < J; j++ {
		w, h := widths[j], heights[j]
		out := NewGrayImage(w, h)
		in := inGPyramid[j]
		for i := range out.Data {
			levelVal := in.Data[i] * float32(J-1)
			li := clampInt(int(levelVal), 0, J-2)
			frac := levelVal - float32(li)
			out.Data[i] = lerp32(lPyramid[j][li].Data[i], lPyramid[j][li+1].Data[i], frac)
		}
		outLPyramid[j] = out
	}

	outGPyramid := make([]*GrayImage, J)
	outGPyramid[J-1] = outLPyramid[J-1]
	for j := J - 2; j >= 0; j-- {
		up := upsampleGray4tap(outGPyramid[j+1], widths[j], heights[j])
		out := NewGrayImage(widths[j], heights[j])
		for i := range out.Data {
			out.Data[i] = up.Data[i] + outLPyramid[j].Data[i]
		}
		outGPyramid[j] = out
	}
	return outGPyramid
}

// detailLUT implements detail_LUT(t) = (sharpen/100) * t * e^(-t^2/2), §4.11.
func detailLUT(t, sharpen float32) float32 {
	return (sharpen / 100) * t * float32(math.Exp(-float64(t*t)/2))
}

// ceilDiv2 halves a pyramid-level dimension, rounding up, matching a
// Gaussian pyramid's level-to-level size relationship.
func ceilDiv2(v int) int {
	r := (v + 1) / 2
	if r < 1 {
		r = 1
	}
	return r
}

// downsampleGray4tap halves an image using the separable 4-tap [1,3,3,1]/8
// filter, per §4.11, producing an image of the given target size.
func downsampleGray4tap(src *GrayImage, outW, outH int) *GrayImage {
	tmp := NewGrayImage(outW, src.Height)
	for y := 0; y < src.Height; y++ {
		row := y * outW
		for x := 0; x < outW; x++ {
			v := src.At(2*x-1, y) + 3*src.At(2*x, y) + 3*src.At(2*x+1, y) + src.At(2*x+2, y)
			tmp.Data[row+x] = v / 8
		}
	}
	out := NewGrayImage(outW, outH)
	for y := 0; y < outH; y++ {
		row := y * outW
		for x := 0; x < outW; x++ {
			v := tmp.At(x, 2*y-1) + 3*tmp.At(x, 2*y) + 3*tmp.At(x, 2*y+1) + tmp.At(x, 2*y+2)
			out.Data[row+x] = v / 8
		}
	}
	return out
}

// upsampleGray4tap doubles an image using the symmetric [0.25,0.75] filter,
// per §4.11, producing an image of the given target size.
func upsampleGray4tap(src *GrayImage, outW, outH int) *GrayImage {
	tmp := NewGrayImage(outW, src.Height)
	for y := 0; y < src.Height; y++ {
		row := y * outW
		for x := 0; x < outW; x++ {
			srcX := x / 2
			if x%2 == 0 {
				srcX--
			} else {
				srcX++
			}
			tmp.Data[row+x] = 0.25*src.At(srcX, y) + 0.75*src.At(x/2, y)
		}
	}
	out := NewGrayImage(outW, outH)
	for y := 0; y < outH; y++ {
		srcY := y / 2
		if y%2 == 0 {
			srcY--
		} else {
			srcY++
		}
		row := y * outW
		baseRow := y / 2
		for x := 0; x < outW; x++ {
			out.Data[row+x] = 0.25*tmp.At(x, srcY) + 0.75*tmp.At(x, baseRow)
		}
	}
	return out
}
