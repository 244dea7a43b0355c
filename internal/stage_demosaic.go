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

// Demosaic converts a GRBG-normalized Bayer plane into a full-resolution
// planar RGB image using the selected algorithm, per §4.8. All four
// algorithms work from the same floating-point normalized plane and share
// the gradient-directional green channel, differing in how R and B are
// reconstructed at the remaining sites. Boundary handling is edge-repeat
// throughout, inherited from GrayImage.At.
func Demosaic(in *BayerPlane, algo DemosaicAlgorithm) *PlanarImage {
	w, h := in.Width, in.Height
	black, white := float32(in.Black), float32(in.White)
	rng := white - black

	norm := NewGrayImage(w, h)
	for i, v := range in.Data {
		norm.Data[i] = (float32(v) - black) / rng
	}

	var green *GrayImage
	switch algo {
	case DemosaicRI:
		green = residualInterpGreen(norm, w, h)
	default:
		green = interpolateFullGreen(norm, w, h)
	}

	out := NewPlanarImage(w, h)
	parallelRows(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				out.G[i] = green.At(x, y)
				switch {
				case isRedSite(x, y):
					out.R[i] = norm.At(x, y)
				case isBlueSite(x, y):
					out.B[i] = norm.At(x, y)
				}
			}
		}
	})

	switch algo {
	case DemosaicRI:
		reconstructRIColor(norm, green, out)
	case DemosaicLMMSE:
		reconstructAtGreenSitesLMMSE(norm, green, out)
		reconstructAtOppositeSites(norm, green, out, false)
	case DemosaicAHD:
		reconstructAtGreenSitesCD(norm, green, out)
		reconstructAtOppositeSites(norm, green, out, false)
	default: // DemosaicFast
		reconstructAtGreenSitesCD(norm, green, out)
		reconstructAtOppositeSites(norm, green, out, true)
	}
	return out
}

// reconstructAtGreenSitesCD fills R and B at native green sites using
// color-difference preservation: the mean of (native - green) over the
// orthogonal neighbors that are native in that color, added to the local
// green value. Used by Fast and AHD.
func reconstructAtGreenSitesCD(norm, green *GrayImage, out *PlanarImage) {
	w, h := norm.Width, norm.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isRedSite(x, y) || isBlueSite(x, y) {
				continue
			}
			out.R[y*w+x] = green.At(x, y) + meanOrthogonalCD(norm, green, x, y, isRedSite)
			out.B[y*w+x] = green.At(x, y) + meanOrthogonalCD(norm, green, x, y, isBlueSite)
		}
	}
}

// reconstructAtGreenSitesLMMSE fills R and B at native green sites per
// §4.8's LMMSE rule: r_at_g = G_r + (R_avg - G_r_avg), where R_avg and
// G_r_avg are each averaged independently over the orthogonal native-R
// neighbors, rather than averaging per-neighbor color differences.
func reconstructAtGreenSitesLMMSE(norm, green *GrayImage, out *PlanarImage) {
	w, h := norm.Width, norm.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isRedSite(x, y) || isBlueSite(x, y) {
				continue
			}
			out.R[y*w+x] = green.At(x, y) + meanIndependentCD(norm, green, x, y, isRedSite)
			out.B[y*w+x] = green.At(x, y) + meanIndependentCD(norm, green, x, y, isBlueSite)
		}
	}
}

func meanOrthogonalCD(norm, green *GrayImage, x, y int, isSite func(int, int) bool) float32 {
	var sum float32
	var count int
	offsets := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for _, off := range offsets {
		nx, ny := x+off[0], y+off[1]
		if isSite(nx, ny) {
			sum += norm.At(nx, ny) - green.At(nx, ny)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float32(count)
}

func meanIndependentCD(norm, green *GrayImage, x, y int, isSite func(int, int) bool) float32 {
	var sumNative, sumGreen float32
	var count int
	offsets := [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	for _, off := range offsets {
		nx, ny := x+off[0], y+off[1]
		if isSite(nx, ny) {
			sumNative += norm.At(nx, ny)
			sumGreen += green.At(nx, ny)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sumNative/float32(count) - sumGreen/float32(count)
}

// reconstructAtOppositeSites fills R at native B sites and B at native R
// sites, per §4.8. When directional is true (Fast), the diagonal pair (NE/SW
// vs NW/SE) with the smaller green gradient is preferred; otherwise
// (AHD/LMMSE) all four diagonal neighbors are averaged.
func reconstructAtOppositeSites(norm, green *GrayImage, out *PlanarImage, directional bool) {
	w, h := norm.Width, norm.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case isBlueSite(x, y):
				out.R[y*w+x] = green.At(x, y) + oppositeCD(norm, green, x, y, directional)
			case isRedSite(x, y):
				out.B[y*w+x] = green.At(x, y) + oppositeCD(norm, green, x, y, directional)
			}
		}
	}
}

func oppositeCD(norm, green *GrayImage, x, y int, directional bool) float32 {
	nw := norm.At(x-1, y-1) - green.At(x-1, y-1)
	ne := norm.At(x+1, y-1) - green.At(x+1, y-1)
	sw := norm.At(x-1, y+1) - green.At(x-1, y+1)
	se := norm.At(x+1, y+1) - green.At(x+1, y+1)

	if !directional {
		return (nw + ne + sw + se) / 4
	}

	gNW := green.At(x-1, y-1)
	gSE := green.At(x+1, y+1)
	gNE := green.At(x+1, y-1)
	gSW := green.At(x-1, y+1)

	dMain := absF32(gNW - gSE) // NW-SE diagonal
	dAnti := absF32(gNE - gSW) // NE-SW diagonal

	if dMain < dAnti {
		return (nw + se) / 2
	}
	return (ne + sw) / 2
}

// residualInterpGreen implements residual interpolation's green channel,
// per §4.8: a tentative bilinear green, corrected by a bilinearly
// interpolated residual sampled at the native green sites.
func residualInterpGreen(norm *GrayImage, w, h int) *GrayImage {
	tentative := NewGrayImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !isRedSite(x, y) && !isBlueSite(x, y) {
				tentative.Data[y*w+x] = norm.At(x, y)
				continue
			}
			sum := norm.At(x-1, y) + norm.At(x+1, y) + norm.At(x, y-1) + norm.At(x, y+1)
			tentative.Data[y*w+x] = sum / 4
		}
	}

	residual := NewGrayImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isRedSite(x, y) || isBlueSite(x, y) {
				continue
			}
			residual.Data[y*w+x] = norm.At(x, y) - tentative.At(x, y)
		}
	}
	interpResidual := bilinearFillSparse(residual, w, h, func(x, y int) bool {
		return !isRedSite(x, y) && !isBlueSite(x, y)
	})

	out := NewGrayImage(w, h)
	for i := range out.Data {
		out.Data[i] = tentative.Data[i] + interpResidual.Data[i]
	}
	return out
}

// reconstructRIColor reconstructs R and B for residual interpolation from
// the refined green plane plus a bilinearly interpolated color difference
// sampled at each channel's native sites, per §4.8.
func reconstructRIColor(norm, green *GrayImage, out *PlanarImage) {
	w, h := norm.Width, norm.Height

	cdR := NewGrayImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isRedSite(x, y) {
				cdR.Data[y*w+x] = norm.At(x, y) - green.At(x, y)
			}
		}
	}
	cdRFilled := bilinearFillSparse(cdR, w, h, isRedSite)

	cdB := NewGrayImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if isBlueSite(x, y) {
				cdB.Data[y*w+x] = norm.At(x, y) - green.At(x, y)
			}
		}
	}
	cdBFilled := bilinearFillSparse(cdB, w, h, isBlueSite)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.R[y*w+x] = green.At(x, y) + cdRFilled.At(x, y)
			out.B[y*w+x] = green.At(x, y) + cdBFilled.At(x, y)
		}
	}
}

// bilinearFillSparse fills every pixel where present(x,y) is false by
// bilinear interpolation of the nearest set lattice's four neighbors,
// assuming a regular quincunx/Bayer-style sparsity pattern with period 2.
func bilinearFillSparse(src *GrayImage, w, h int, present func(int, int) bool) *GrayImage {
	out := NewGrayImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if present(x, y) {
				out.Data[y*w+x] = src.At(x, y)
				continue
			}
			var sum float32
			var count int
			offsets := [8][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
			for _, off := range offsets {
				nx, ny := x+off[0], y+off[1]
				if present(nx, ny) {
					sum += src.At(nx, ny)
					count++
				}
			}
			if count > 0 {
				out.Data[y*w+x] = sum / float32(count)
			}
		}
	}
	return out
}
