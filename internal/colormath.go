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

// Package internal implements the color math (C7) underlying color-correct,
// color-grading, and the local Laplacian stages: scene-linear sRGB <-> CIE XYZ
// <-> CIE L*a*b* <-> cylindrical L*C*h. The XYZ/Lab legs are delegated to
// go-colorful, which already carries the D65 white point and companding
// constants the teacher depends on; the cylindrical hue stabilization
// (h := 0 when C < 1e-5) is spec-mandated and implemented directly.
package internal

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// hueEpsilon is the chroma threshold below which hue is considered undefined
// and stabilized to zero, per spec.
const hueEpsilon = 1e-5

// RGBToXYZ converts scene-linear sRGB to CIE XYZ (D65).
func RGBToXYZ(r, g, b float32) (x, y, z float32) {
	xf, yf, zf := colorful.LinearRgbToXyz(float64(r), float64(g), float64(b))
	return float32(xf), float32(yf), float32(zf)
}

// XYZToRGB converts CIE XYZ (D65) to scene-linear sRGB.
func XYZToRGB(x, y, z float32) (r, g, b float32) {
	rf, gf, bf := colorful.XyzToLinearRgb(float64(x), float64(y), float64(z))
	return float32(rf), float32(gf), float32(bf)
}

// XYZToLab converts CIE XYZ to CIE L*a*b* under the D65 reference white.
func XYZToLab(x, y, z float32) (l, a, b float32) {
	lf, af, bf := colorful.XyzToLab(float64(x), float64(y), float64(z), colorful.D65)
	return float32(lf), float32(af), float32(bf)
}

// LabToXYZ converts CIE L*a*b* (D65 reference white) to CIE XYZ.
func LabToXYZ(l, a, b float32) (x, y, z float32) {
	xf, yf, zf := colorful.LabToXyz(float64(l), float64(a), float64(b), colorful.D65)
	return float32(xf), float32(yf), float32(zf)
}

// RGBToLab is the scene-linear sRGB -> CIE L*a*b* round trip used by the
// local Laplacian stage, which preserves a,b and only touches L.
func RGBToLab(r, g, b float32) (l, aOut, bOut float32) {
	x, y, z := RGBToXYZ(r, g, b)
	return XYZToLab(x, y, z)
}

// LabToRGB is the inverse of RGBToLab.
func LabToRGB(l, a, b float32) (r, g, bOut float32) {
	x, y, z := LabToXYZ(l, a, b)
	return XYZToRGB(x, y, z)
}

// LabToLCh converts Cartesian L*a*b* to cylindrical L*C*h. Hue is stabilized
// to 0 when chroma is below hueEpsilon, per spec §4.3/§4.14.
func LabToLCh(l, a, b float32) (L, C, h float32) {
	c := float32(math.Hypot(float64(a), float64(b)))
	if c < hueEpsilon {
		return l, c, 0
	}
	return l, c, float32(math.Atan2(float64(b), float64(a)))
}

// LChToLab converts cylindrical L*C*h back to Cartesian L*a*b*.
func LChToLab(L, C, h float32) (l, a, b float32) {
	a = C * float32(math.Cos(float64(h)))
	b = C * float32(math.Sin(float64(h)))
	return L, a, b
}

// RGBToLCh converts scene-linear sRGB directly to cylindrical L*C*h.
func RGBToLCh(r, g, b float32) (L, C, h float32) {
	l, a, bb := RGBToLab(r, g, b)
	return LabToLCh(l, a, bb)
}

// LChToRGB converts cylindrical L*C*h back to scene-linear sRGB.
func LChToRGB(L, C, h float32) (r, g, b float32) {
	l, a, bb := LChToLab(L, C, h)
	return LabToRGB(l, a, bb)
}

// Smoothstep is the canonical Hermite smoothstep used throughout the pipeline
// (vignette, color grading masks, local Laplacian reference-level blending).
func Smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := clampF32((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}
