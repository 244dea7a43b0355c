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

// CFAPattern identifies a 2x2 Bayer color filter array layout.
type CFAPattern int

const (
	CFAGRBG CFAPattern = 0
	CFARGGB CFAPattern = 1
	CFAGBRG CFAPattern = 2
	CFABGGR CFAPattern = 3
)

// BayerPlane is a single-channel 16-bit sensor mosaic plus its calibration metadata.
type BayerPlane struct {
	Width, Height int
	Black, White  uint16
	CFA           CFAPattern
	Data          []uint16 // row-major, length Width*Height
}

// NewBayerPlane allocates a zeroed Bayer plane of the given size.
func NewBayerPlane(width, height int, cfa CFAPattern, black, white uint16) *BayerPlane {
	return &BayerPlane{
		Width: width, Height: height,
		Black: black, White: white,
		CFA:  cfa,
		Data: make([]uint16, width*height),
	}
}

// At returns the sample at (x,y) with edge-repeat boundary handling.
func (b *BayerPlane) At(x, y int) uint16 {
	x = clampInt(x, 0, b.Width-1)
	y = clampInt(y, 0, b.Height-1)
	return b.Data[y*b.Width+x]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PlanarImage is a 3-channel floating point image in scene-linear sRGB, planar layout.
type PlanarImage struct {
	Width, Height int
	R, G, B       []float32
}

// NewPlanarImage allocates a zeroed planar RGB image.
func NewPlanarImage(width, height int) *PlanarImage {
	n := width * height
	return &PlanarImage{
		Width: width, Height: height,
		R: make([]float32, n), G: make([]float32, n), B: make([]float32, n),
	}
}

// Channel returns the plane for channel index 0=R, 1=G, 2=B.
func (p *PlanarImage) Channel(c int) []float32 {
	switch c {
	case 0:
		return p.R
	case 1:
		return p.G
	default:
		return p.B
	}
}

// At samples channel c at (x,y) with edge-repeat boundary handling.
func (p *PlanarImage) At(x, y, c int) float32 {
	x = clampInt(x, 0, p.Width-1)
	y = clampInt(y, 0, p.Height-1)
	return p.Channel(c)[y*p.Width+x]
}

// GrayImage is a single-channel floating point image (guide or luma buffer).
type GrayImage struct {
	Width, Height int
	Data          []float32
}

// NewGrayImage allocates a zeroed single-channel image.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{Width: width, Height: height, Data: make([]float32, width*height)}
}

// At samples the image at (x,y) with edge-repeat boundary handling.
func (g *GrayImage) At(x, y int) float32 {
	x = clampInt(x, 0, g.Width-1)
	y = clampInt(y, 0, g.Height-1)
	return g.Data[y*g.Width+x]
}

// LChImage is a 3-channel image in CIE L*C*h, used as the domain for color grading.
type LChImage struct {
	Width, Height int
	L, C, H       []float32
}

// NewLChImage allocates a zeroed L*C*h image.
func NewLChImage(width, height int) *LChImage {
	n := width * height
	return &LChImage{Width: width, Height: height, L: make([]float32, n), C: make([]float32, n), H: make([]float32, n)}
}

// SampleBilinear samples a planar image channel at fractional coordinates with edge-repeat.
func SampleBilinear(p *PlanarImage, x, y float32, c int) float32 {
	plane := p.Channel(c)
	return sampleBilinearPlane(plane, p.Width, p.Height, x, y)
}

// SampleBilinearGray samples a gray image at fractional coordinates with edge-repeat.
func SampleBilinearGray(g *GrayImage, x, y float32) float32 {
	return sampleBilinearPlane(g.Data, g.Width, g.Height, x, y)
}

func sampleBilinearPlane(plane []float32, width, height int, x, y float32) float32 {
	x0 := floorF(x)
	y0 := floorF(y)
	fx := x - x0
	fy := y - y0
	ix0, iy0 := int(x0), int(y0)
	ix1, iy1 := ix0+1, iy0+1

	v00 := at(plane, width, height, ix0, iy0)
	v10 := at(plane, width, height, ix1, iy0)
	v01 := at(plane, width, height, ix0, iy1)
	v11 := at(plane, width, height, ix1, iy1)

	v0 := lerp32(v00, v10, fx)
	v1 := lerp32(v01, v11, fx)
	return lerp32(v0, v1, fy)
}

func at(plane []float32, width, height, x, y int) float32 {
	x = clampInt(x, 0, width-1)
	y = clampInt(y, 0, height-1)
	return plane[y*width+x]
}

func floorF(v float32) float32 {
	i := int(v)
	if v < float32(i) {
		i--
	}
	return float32(i)
}

func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}

// SampleBicubicGray samples a single-channel image with Catmull-Rom bicubic interpolation
// and edge-repeat boundary handling. No pipeline stage calls it; the CA correction
// stage samples its green plane with SampleBilinearGray.
func SampleBicubicGray(g *GrayImage, x, y float32) float32 {
	x0 := floorF(x)
	y0 := floorF(y)
	fx := x - x0
	fy := y - y0
	ix, iy := int(x0), int(y0)

	var cols [4]float32
	for j := -1; j <= 2; j++ {
		var row [4]float32
		for i := -1; i <= 2; i++ {
			row[i+1] = at(g.Data, g.Width, g.Height, ix+i, iy+j)
		}
		cols[j+1] = cubicHermite(row[0], row[1], row[2], row[3], fx)
	}
	return cubicHermite(cols[0], cols[1], cols[2], cols[3], fy)
}

func cubicHermite(p0, p1, p2, p3, t float32) float32 {
	a := -0.5*p0 + 1.5*p1 - 1.5*p2 + 0.5*p3
	b := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	c := -0.5*p0 + 0.5*p2
	d := p1
	return ((a*t+b)*t+c)*t + d
}

// SampleTrilinear samples a 3D LUT stored as N*N*N*3 floats, loop order matching
// producer layout: innermost L (dim 0), then C, then h, per spec §9.
func SampleTrilinear(lut *ColorGradeLUT, l, c, h float32) (l2, c2, h2 float32) {
	n := lut.N
	lf := clampF32(l, 0, float32(n-1))
	cf := clampF32(c, 0, float32(n-1))
	hf := clampF32(h, 0, float32(n-1))

	l0 := int(floorF(lf))
	c0 := int(floorF(cf))
	h0 := int(floorF(hf))
	l1, c1, h1 := minInt(l0+1, n-1), minInt(c0+1, n-1), minInt(h0+1, n-1)
	tl, tc, th := lf-float32(l0), cf-float32(c0), hf-float32(h0)

	var out [3]float32
	for k := 0; k < 3; k++ {
		c000 := lut.at(l0, c0, h0, k)
		c100 := lut.at(l1, c0, h0, k)
		c010 := lut.at(l0, c1, h0, k)
		c110 := lut.at(l1, c1, h0, k)
		c001 := lut.at(l0, c0, h1, k)
		c101 := lut.at(l1, c0, h1, k)
		c011 := lut.at(l0, c1, h1, k)
		c111 := lut.at(l1, c1, h1, k)

		c00 := lerp32(c000, c100, tl)
		c10 := lerp32(c010, c110, tl)
		c01 := lerp32(c001, c101, tl)
		c11 := lerp32(c011, c111, tl)
		c0v := lerp32(c00, c10, tc)
		c1v := lerp32(c01, c11, tc)
		out[k] = lerp32(c0v, c1v, th)
	}
	return out[0], out[1], out[2]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// CurvePoint is a single (x,y) knot of a parametric curve.
type CurvePoint struct {
	X, Y float32
}

// Curve is an ordered sequence of knots with x strictly non-decreasing.
type Curve []CurvePoint

// Normalize inserts missing endpoints at x=0 and x=1 using defaultY0/defaultY1
// respectively, and returns a new copy. Does not mutate the receiver. Per
// §4.1: tone curve endpoints default to (0,0)/(1,1); additive grading curves
// (H-vs-H, H-vs-L) default to 0 at both ends; multiplicative grading curves
// (H-vs-S, L-vs-S) default to 1 at both ends; S-vs-S defaults to identity
// (y=x) at both ends. Use NormalizeSym for the common equal-endpoint case.
func (c Curve) Normalize(defaultY0, defaultY1 float32) Curve {
	out := make(Curve, 0, len(c)+2)
	if len(c) == 0 || c[0].X > 0 {
		out = append(out, CurvePoint{0, defaultY0})
	}
	out = append(out, c...)
	if len(out) == 0 || out[len(out)-1].X < 1 {
		out = append(out, CurvePoint{1, defaultY1})
	}
	return out
}

// NormalizeSym is Normalize with identical default y at both endpoints.
func (c Curve) NormalizeSym(defaultY float32) Curve {
	return c.Normalize(defaultY, defaultY)
}
