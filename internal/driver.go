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

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"github.com/pbnjay/memory"
)

// stripHeight is the default horizontal strip height, per §5.
const stripHeight = 32

// workerPoolSize sizes the bounded strip worker pool from the logical core
// count (cpuid) clamped by total system memory (pbnjay/memory), so a
// memory-constrained host doesn't oversubscribe on a high-core machine, per
// §5's "bounded worker pool" requirement.
func workerPoolSize() int {
	n := cpuid.CPU.LogicalCores
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if memBudget := memory.TotalMemory(); memBudget > 0 {
		// Roughly 256 MiB of working strips per worker; never drop below 1.
		const perWorker = 256 << 20
		if byMem := int(memBudget / perWorker); byMem > 0 && byMem < n {
			n = byMem
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}

// parallelRows partitions [0,height) into stripHeight-row strips and runs fn
// over each strip concurrently on a bounded worker pool, per §5's
// strip-parallel execution model. fn must only write to output rows in
// [y0,y1) to stay race-free; shared read-only inputs are safe to close over.
func parallelRows(height int, fn func(y0, y1 int)) {
	sem := make(chan bool, workerPoolSize())
	for y0 := 0; y0 < height; y0 += stripHeight {
		y1 := y0 + stripHeight
		if y1 > height {
			y1 = height
		}
		sem <- true
		go func(y0, y1 int) {
			defer func() { <-sem }()
			fn(y0, y1)
		}(y0, y1)
	}
	for i := 0; i < cap(sem); i++ {
		sem <- true
	}
}

// Ancillaries are the per-request shared lookup tables computed once and
// handed off read-only to every strip worker, per §4.17.
type Ancillaries struct {
	ColorMatrix [3][4]float32
	ToneCurve   *ToneCurveLUT
	ColorGrade  *ColorGradeLUT
	Distortion  *DistortionLUT
}

// BuildAncillaries precomputes the interpolated color matrix, tone-curve
// LUT, 3D color-grading LUT, and inverse-distortion LUT for one request.
func BuildAncillaries(frame *RawFrame, p *Params) *Ancillaries {
	matrix := InterpolateColorMatrix(frame.Matrix3200K, frame.Matrix7000K, p.ColorTemp)
	return &Ancillaries{
		ColorMatrix: MatrixToArray(matrix),
		ToneCurve:   BuildToneCurveLUT(p),
		ColorGrade:  BuildColorGradeLUT(p),
		Distortion:  BuildDistortionLUT(p.DistModel, p.DistK1, p.DistK2, p.DistK3),
	}
}

// Run executes the fixed kernel pipeline over a single raw frame, per
// §4.17:
//
//	CFA_normalize -> denoise(raw) -> CA_correct(raw)
//	 -> demosaic -> color_correct(T, tint) -> exposure(stops)
//	 -> local_Laplacian -> vignette -> RGB->LCh -> color_grade -> LCh->RGB
//	 -> dehaze -> lens_resample -> tone_curve -> u8 output
//
// Parameters are validated once at the top, per §7; any resulting warnings
// are returned alongside the output image.
func Run(frame *RawFrame, p *Params) (*RGB8Image, []string, error) {
	validation, err := p.Validate()
	if err != nil {
		return nil, nil, err
	}

	defer StartTimer("pipeline.run")()

	anc := BuildAncillaries(frame, p)

	normalized := CFANormalize(frame.Mosaic, p.GreenBalance)
	denoised := Denoise(normalized, p.DenoiseStrength/100, p.DenoiseEps)
	caCorrected := CACorrect(denoised, p.CAStrength)
	rgb := Demosaic(caCorrected, p.DemosaicAlgorithm)

	sensorRange := float32(frame.Mosaic.White) - float32(frame.Mosaic.Black)
	rgb = ColorCorrect(rgb, anc.ColorMatrix, p.Tint, sensorRange)
	rgb = Exposure(rgb, p.Exposure)

	rgb = LocalContrastLaplacian(rgb, p.LLClarity, p.LLShadows, p.LLHighlights, p.LLBlacks, p.LLWhites, p.LLDetail)
	rgb = Vignette(rgb, p.VignetteAmount/100, p.VignetteMidpoint/100, p.VignetteRoundness/100, p.VignetteHighlightProtection/100)

	rgb = ColorGrade(rgb, anc.ColorGrade)

	rgb = Dehaze(rgb, p.DehazeStrength)
	rgb = LensGeometry(rgb, p, anc.Distortion)

	out := ApplyToneCurve(rgb, anc.ToneCurve)

	if p.DebugChecks {
		if err := checkFinite(out); err != nil {
			return nil, validation.Warnings, err
		}
	}

	return out, validation.Warnings, nil
}

// checkFinite is the check gated behind Params.DebugChecks. It checks only
// that the final 8-bit buffer holds Width*Height*3 samples and returns an
// INTERNAL error otherwise; it does not scan any float buffer for NaN/Inf.
func checkFinite(img *RGB8Image) error {
	if len(img.Pix) != img.Width*img.Height*3 {
		return NewPipelineError(ErrInternal, "output buffer size mismatch", nil)
	}
	return nil
}
