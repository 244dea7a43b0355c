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

import "gonum.org/v1/gonum/floats"

const caTileSize = 32
const caMaxShift = 3.99
const caDenomEps = 0.001

// isRedSite and isBlueSite identify native R/B positions in a GRBG-normalized
// plane, per the quad layout in stage_cfa.go: R at local (1,0), B at local (0,1).
func isRedSite(x, y int) bool  { return x%2 == 1 && y%2 == 0 }
func isBlueSite(x, y int) bool { return x%2 == 0 && y%2 == 1 }

// CACorrect applies chromatic-aberration correction to a GRBG-normalized
// Bayer plane, per §4.6. Bypasses (returns input unchanged) when strength is
// below 0.001.
func CACorrect(in *BayerPlane, strength float32) *BayerPlane {
	if strength < 0.001 {
		return in
	}

	w, h := in.Width, in.Height
	black, white := float32(in.Black), float32(in.White)
	rng := white - black

	norm := NewGrayImage(w, h)
	for i, v := range in.Data {
		norm.Data[i] = (float32(v) - black) / rng
	}

	green := interpolateFullGreen(norm, w, h)

	tilesX := (w + caTileSize - 1) / caTileSize
	tilesY := (h + caTileSize - 1) / caTileSize
	// shift[color][axis][ty][tx]; color 0=R,1=B; axis 0=horizontal,1=vertical
	var shift [2][2][][]float32
	for c := 0; c < 2; c++ {
		for a := 0; a < 2; a++ {
			shift[c][a] = make([][]float32, tilesY)
			for ty := range shift[c][a] {
				shift[c][a][ty] = make([]float32, tilesX)
			}
		}
	}

	for ty := 0; ty < tilesY; ty++ {
		y0 := ty * caTileSize
		y1 := minInt(y0+caTileSize, h)
		for tx := 0; tx < tilesX; tx++ {
			x0 := tx * caTileSize
			x1 := minInt(x0+caTileSize, w)

			for c := 0; c < 2; c++ {
				isSite := isRedSite
				if c == 1 {
					isSite = isBlueSite
				}
				for axis := 0; axis < 2; axis++ {
					num, den := tileLeastSquares(norm, green, x0, y0, x1, y1, isSite, axis)
					if den < caDenomEps {
						shift[c][axis][ty][tx] = 0
					} else {
						s := num / den
						shift[c][axis][ty][tx] = clampF32(s, -caMaxShift, caMaxShift)
					}
				}
			}
		}
	}

	for c := 0; c < 2; c++ {
		for a := 0; a < 2; a++ {
			shift[c][a] = boxBlurGrid(shift[c][a], 9)
		}
	}

	out := NewBayerPlane(w, h, CFAGRBG, in.Black, in.White)
	copy(out.Data, in.Data)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var c int
			switch {
			case isRedSite(x, y):
				c = 0
			case isBlueSite(x, y):
				c = 1
			default:
				continue
			}

			sh := bilinearGrid(shift[c][0], tilesX, tilesY, x, y, caTileSize) * strength
			sv := bilinearGrid(shift[c][1], tilesX, tilesY, x, y, caTileSize) * strength

			gNative := SampleBilinearGray(green, float32(x), float32(y))
			gShifted := SampleBilinearGray(green, float32(x)+sh, float32(y)+sv)

			nativeNorm := norm.At(x, y)
			corrected := nativeNorm + gNative - gShifted
			denorm := corrected*rng + black
			out.Data[y*w+x] = uint16(clampF32(denorm, 0, 65535))
		}
	}
	return out
}

// interpolateFullGreen produces a full-resolution green plane from a
// normalized GRBG Bayer plane: native green values pass through; R/B sites
// get a gradient-directional interpolation that picks the axis with the
// smaller local green gradient, per §4.6 step 2.
func interpolateFullGreen(norm *GrayImage, w, h int) *GrayImage {
	out := NewGrayImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !isRedSite(x, y) && !isBlueSite(x, y) {
				out.Data[y*w+x] = norm.At(x, y)
				continue
			}
			gh := norm.At(x-1, y) + norm.At(x+1, y)
			gv := norm.At(x, y-1) + norm.At(x, y+1)
			dh := absF32(norm.At(x-1, y) - norm.At(x+1, y))
			dv := absF32(norm.At(x, y-1) - norm.At(x, y+1))
			if dh < dv {
				out.Data[y*w+x] = gh / 2
			} else {
				out.Data[y*w+x] = gv / 2
			}
		}
	}
	return out
}

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// tileLeastSquares computes shift = sum(dGRB*dG)/sum(dG^2) over the native
// R or B sample sites within [x0,x1)x[y0,y1), per §4.6 step 3.
func tileLeastSquares(norm, green *GrayImage, x0, y0, x1, y1 int, isSite func(int, int) bool, axis int) (num, den float32) {
	var nums, dens []float32
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if !isSite(x, y) {
				continue
			}
			dGRB := green.At(x, y) - norm.At(x, y)
			var dG float32
			if axis == 0 {
				dG = green.At(x+1, y) - green.At(x-1, y)
			} else {
				dG = green.At(x, y+1) - green.At(x, y-1)
			}
			nums = append(nums, dGRB*dG)
			dens = append(dens, dG*dG)
		}
	}
	if len(nums) == 0 {
		return 0, 0
	}
	return floats.Sum(nums), floats.Sum(dens)
}

// boxBlurGrid applies a kxk box blur (edge-repeat) over a small 2D grid,
// used to smooth the per-tile shift field, per §4.6 step 4.
func boxBlurGrid(grid [][]float32, k int) [][]float32 {
	ty := len(grid)
	if ty == 0 {
		return grid
	}
	tx := len(grid[0])
	out := make([][]float32, ty)
	half := k / 2
	for y := 0; y < ty; y++ {
		out[y] = make([]float32, tx)
		for x := 0; x < tx; x++ {
			var sum float32
			var count int
			for dy := -half; dy <= half; dy++ {
				for dx := -half; dx <= half; dx++ {
					sum += grid[clampInt(y+dy, 0, ty-1)][clampInt(x+dx, 0, tx-1)]
					count++
				}
			}
			out[y][x] = sum / float32(count)
		}
	}
	return out
}

// bilinearGrid samples a tile-resolution grid at full-image pixel coords,
// treating each tile's value as centered on its tile, with edge-repeat.
func bilinearGrid(grid [][]float32, tx, ty, x, y, tileSize int) float32 {
	fx := float32(x)/float32(tileSize) - 0.5
	fy := float32(y)/float32(tileSize) - 0.5
	x0 := int(floorF(fx))
	y0 := int(floorF(fy))
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	g := func(gx, gy int) float32 {
		gx = clampInt(gx, 0, tx-1)
		gy = clampInt(gy, 0, ty-1)
		return grid[gy][gx]
	}
	v00 := g(x0, y0)
	v10 := g(x0+1, y0)
	v01 := g(x0, y0+1)
	v11 := g(x0+1, y0+1)
	v0 := lerp32(v00, v10, dx)
	v1 := lerp32(v01, v11, dx)
	return lerp32(v0, v1, dy)
}
