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

package harness

import (
	"testing"

	rp "github.com/thingsapart/rawproc/internal"
)

func newFrame(t *testing.T, mosaic *rp.BayerPlane) *rp.RawFrame {
	t.Helper()
	frame, err := rp.NewRawFrame(mosaic, IdentityColorMatrix(), IdentityColorMatrix())
	if err != nil {
		t.Fatalf("NewRawFrame: %v", err)
	}
	return frame
}

func identityParams() *rp.Params {
	p := rp.DefaultParams()
	p.CurveLuma = rp.Curve{{0, 0}, {1, 1}}
	p.ApplyBaseTonemap = false // identity param set tests the LUT's own linearity, not the display gamma
	return p
}

// Property 1: identity parameters are pass-through to 8-bit quantization.
func TestIdentityParamsPassThrough(t *testing.T) {
	mosaic := FlatField(8, 8, 30000, 512, 65535)
	frame := newFrame(t, mosaic)
	p := identityParams()

	img, warnings, err := rp.Run(frame, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	want := int(float64(30000-512)/float64(65535-512)*65535) >> 8
	for i, v := range img.Pix {
		if diff := int(v) - want; diff < -1 || diff > 1 {
			t.Fatalf("pixel %d = %d under identity params, want %d +-1", i, v, want)
		}
	}
}

// Property 2: an inverting tone curve complements the identity-pipeline output.
func TestInvertingCurve(t *testing.T) {
	mosaic := FlatField(8, 8, 30000, 512, 65535)
	frame := newFrame(t, mosaic)

	base := identityParams()
	baseImg, _, err := rp.Run(frame, base)
	if err != nil {
		t.Fatalf("Run base: %v", err)
	}

	inv := identityParams()
	inv.CurveLuma = rp.Curve{{0, 1}, {1, 0}}
	invImg, _, err := rp.Run(frame, inv)
	if err != nil {
		t.Fatalf("Run inverted: %v", err)
	}

	for i := range baseImg.Pix {
		got := int(invImg.Pix[i])
		want := 255 - int(baseImg.Pix[i])
		if diff := got - want; diff < -1 || diff > 1 {
			t.Fatalf("pixel %d: got %d, want %d +-1", i, got, want)
		}
	}
}

// Property 3: a crushing curve pushes shadows near 0 and highlights near 255.
func TestCrushingCurve(t *testing.T) {
	const w, h = 64, 64
	mosaic := Gradient(w, h, 16, 512, 65535)
	frame := newFrame(t, mosaic)

	p := identityParams()
	p.CurveLuma = rp.Curve{{0, 0}, {0.25, 0}, {0.75, 1}, {1, 1}}

	img, _, err := rp.Run(frame, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	darkRows := h / 5
	for y := 0; y < darkRows; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			for c := 0; c < 3; c++ {
				if v := img.Pix[i+c]; v >= 2 {
					t.Fatalf("dark row %d pixel %d channel %d = %d, want <2", y, x, c, v)
				}
			}
		}
	}
	brightRows := h - h/5
	for y := brightRows; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			for c := 0; c < 3; c++ {
				if v := img.Pix[i+c]; v <= 253 {
					t.Fatalf("bright row %d pixel %d channel %d = %d, want >253", y, x, c, v)
				}
			}
		}
	}
}

// Property 4 & S4: demosaic of a uniform input stays non-negative and close
// to the input value, with no stage beyond demosaic applied.
func TestDemosaicUniformNonNegative(t *testing.T) {
	mosaic := rp.CFANormalize(FlatField(16, 16, 50, 0, 65535), 1.0)
	for _, algo := range []rp.DemosaicAlgorithm{rp.DemosaicFast, rp.DemosaicAHD, rp.DemosaicLMMSE, rp.DemosaicRI} {
		out := rp.Demosaic(mosaic, algo)
		for i := range out.R {
			if out.R[i] < 0 || out.G[i] < 0 || out.B[i] < 0 {
				t.Fatalf("algo %v: negative channel at %d", algo, i)
			}
			for _, v := range []float32{out.R[i], out.G[i], out.B[i]} {
				if s := v * 65535; s < 48 || s > 52 {
					t.Fatalf("algo %v: channel at %d = %v, want in [48,52]", algo, i, s)
				}
			}
		}
	}
}

// Property 5: color-correct clamps a negative matrix offset to zero for
// all-zero input, and near-black input has R saturate to 0 while G,B stay positive.
func TestColorCorrectOffsetClamp(t *testing.T) {
	black, white := uint16(0), uint16(65535)
	matrix := [3][4]float32{
		{1, 0, 0, -100}, // integer-domain offset, larger than the near-black level of 20
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}
	sensorRange := float32(white) - float32(black)

	zero := rp.NewPlanarImage(4, 4)
	out := rp.ColorCorrect(zero, matrix, 0, sensorRange)
	for i := range out.R {
		if out.R[i] != 0 {
			t.Fatalf("all-zero input: R[%d]=%v, want 0", i, out.R[i])
		}
	}

	near := rp.NewPlanarImage(4, 4)
	for i := range near.R {
		near.R[i], near.G[i], near.B[i] = 20.0/65535, 20.0/65535, 20.0/65535
	}
	out2 := rp.ColorCorrect(near, matrix, 0, sensorRange)
	for i := range out2.R {
		if out2.R[i] != 0 {
			t.Fatalf("near-black input: R[%d]=%v, want 0 (clamped)", i, out2.R[i])
		}
		if out2.G[i] <= 0 {
			t.Fatalf("near-black input: G[%d]=%v, want >0", i, out2.G[i])
		}
		if out2.B[i] <= 0 {
			t.Fatalf("near-black input: B[%d]=%v, want >0", i, out2.B[i])
		}
	}
}

// Property 6: a single hot pixel propagates to at least 4 non-zero pixels
// after demosaic, matching the local interpolation footprint.
func TestHotPixelPropagation(t *testing.T) {
	mosaic := HotPixel(16, 16, 8, 8, 0, 65535)
	normalized := rp.CFANormalize(mosaic, 1.0)
	out := rp.Demosaic(normalized, rp.DemosaicAHD)

	nonZero := 0
	for i := range out.R {
		if out.R[i] > 0 || out.G[i] > 0 || out.B[i] > 0 {
			nonZero++
		}
	}
	if nonZero < 4 {
		t.Fatalf("hot pixel produced only %d non-zero output pixels, want >=4", nonZero)
	}
}

// Property 7 & S7 (unnumbered in spec text, described alongside the others):
// CA correction on a striped edge stays within +-5% of the observed input range.
func TestCACorrectionBounded(t *testing.T) {
	mosaic := StripedEdge(64, 64, 2000, 10000, 4, 0, 65535)
	out := rp.CACorrect(mosaic, 1.0)

	for _, v := range out.Data {
		if v < 1500 || v > 11000 {
			t.Fatalf("CA-corrected value %d outside bounded range [1500,11000]", v)
		}
	}
}

// Property 8: a dark blue swatch stays blue-dominant after positive-saturation grading.
func TestHuePreservedUnderSaturationBoost(t *testing.T) {
	mosaic := DarkBlueSwatch(8, 8, 0, 65535)
	normalized := rp.CFANormalize(mosaic, 1.0)
	rgb := rp.Demosaic(normalized, rp.DemosaicAHD)

	lut := rp.BuildColorGradeLUT(&rp.Params{
		CurveHvsH: rp.Curve{}, CurveHvsL: rp.Curve{},
		CurveHvsS: rp.Curve{{0, 1.5}, {1, 1.5}},
		CurveLvsS: rp.Curve{}, CurveSvsS: rp.Curve{},
	})
	graded := rp.ColorGrade(rgb, lut)

	for i := range graded.B {
		if graded.R[i]*65535 >= 200 {
			t.Fatalf("R[%d]=%v too high for blue-dominant swatch", i, graded.R[i]*65535)
		}
		if graded.G[i]*65535 >= 200 {
			t.Fatalf("G[%d]=%v too high for blue-dominant swatch", i, graded.G[i]*65535)
		}
		if graded.B[i]*65535 >= 400 {
			t.Fatalf("B[%d]=%v too high, want <400", i, graded.B[i]*65535)
		}
	}
}

// S1: high exposure compensation must not saturate the underlying linear
// float buffer before tone-curve quantization, even after a large positive
// stop adjustment on a mid-gray input.
func TestScenarioS1ExposureNoSaturation(t *testing.T) {
	mosaic := FlatField(2, 2, 2695, 0, 65535)

	normalized := rp.CFANormalize(mosaic, 1.0)
	demosaiced := rp.Demosaic(normalized, rp.DemosaicAHD)
	matrix := rp.MatrixToArray(IdentityColorMatrix())
	corrected := rp.ColorCorrect(demosaiced, matrix, 0, 65535)
	exposed := rp.Exposure(corrected, 2.32)

	for i, b := range exposed.B {
		if b >= 1.0 {
			t.Fatalf("B[%d]=%v, want <1.0 (unsaturated)", i, b)
		}
	}
}

// S5: the default S-curve maps white near 65533/65535, black near 0/2, and
// the midpoint into the broad middle band.
func TestScenarioS5DefaultSCurve(t *testing.T) {
	p := rp.DefaultParams()
	p.CurveLuma = nil // no luma curve, so the contrast-generated S-curve is used
	p.Contrast = 30
	p.ApplyBaseTonemap = false
	lut := rp.BuildToneCurveLUT(p)

	const white, black = 4095, 25
	mid := (black + white) / 2
	// The LUT is indexed by the 16-bit encoding of the black/white-normalized
	// value, so sensor level v lands at (v-black)/(white-black)*65535.
	idx := func(v int) int { return (v - black) * 65535 / (white - black) }

	if v := lut[idx(white)][1]; v < 65533 {
		t.Fatalf("LUT[white]=%d, want >=65533", v)
	}
	if v := lut[idx(black)][1]; v > 2 {
		t.Fatalf("LUT[black]=%d, want <=2", v)
	}
	if v := lut[idx(mid)][1]; v < 10000 || v > 55000 {
		t.Fatalf("LUT[mid]=%d, want in (10000,55000)", v)
	}
}

// S6: a pure-blue input with a saturation boost stays blue after grading.
func TestScenarioS6PureBlueSaturationBoost(t *testing.T) {
	rgb := rp.NewPlanarImage(2, 2)
	for i := range rgb.B {
		rgb.B[i] = 1.0
	}
	lut := rp.BuildColorGradeLUT(&rp.Params{
		CurveHvsS: rp.Curve{{0, 1.5}, {1, 1.5}},
	})
	out := rp.ColorGrade(rgb, lut)

	for i := range out.B {
		if out.R[i]*65535 >= 2 {
			t.Fatalf("R[%d]=%v, want <2", i, out.R[i]*65535)
		}
		if out.G[i]*65535 >= 2 {
			t.Fatalf("G[%d]=%v, want <2", i, out.G[i]*65535)
		}
		if out.B[i]*65535 <= 65000 {
			t.Fatalf("B[%d]=%v, want >65000", i, out.B[i]*65535)
		}
	}
}
