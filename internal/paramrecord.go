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

// DemosaicAlgorithm selects one of the four demosaic kernels.
type DemosaicAlgorithm int

const (
	DemosaicAHD DemosaicAlgorithm = 0
	DemosaicLMMSE DemosaicAlgorithm = 1
	DemosaicRI    DemosaicAlgorithm = 2
	DemosaicFast  DemosaicAlgorithm = 3 // default when unknown, per §4.8
)

// DistortionModel selects the radial distortion model used by the lens geometry stage.
type DistortionModel int

const (
	DistIdentity DistortionModel = iota
	DistPoly3
	DistPoly5
	DistPTLens
)

// WheelOffset is a 2D color wheel offset in a*,b* of Lab, plus a luma offset.
type WheelOffset struct {
	X, Y float32 // a*,b* offset components in [-1,1]
	Luma float32 // luma offset in [-100,100]
}

// Params is the single aggregate parameter record consumed per render request (§6.1).
// It is constructed once, validated once at the top of Run, and read-only thereafter.
type Params struct {
	// Demosaic
	DemosaicAlgorithm DemosaicAlgorithm

	// Exposure & WB
	Exposure     float32 // stops, [-4,+4]
	ColorTemp    float32 // Kelvin, [1500,15000]
	Tint         float32 // [-1,+1]
	GreenBalance float32 // [0.5,2.0]

	// CA
	CAStrength   float32 // [0,2], auto
	CARedCyan    float32 // manual, [-100,100]
	CABlueYellow float32 // manual, [-100,100]

	// Denoise
	DenoiseStrength float32 // [0,100]
	DenoiseEps      float32 // >0

	// Dehaze
	DehazeStrength float32 // [0,100]

	// Local Laplacian
	LLDetail     float32
	LLClarity    float32
	LLShadows    float32
	LLHighlights float32
	LLBlacks     float32
	LLWhites     float32

	// Tone curve
	Gamma             float32 // [1,3]; range-checked by Validate, not read by BuildToneCurveLUT (base tonemap exponent is fixed at 1/2.2)
	Contrast          float32 // [0,100]
	CurveMode         CurveMode
	CurveLuma         Curve
	CurveR, CurveG, CurveB Curve
	ApplyBaseTonemap  bool

	// Color grading
	WheelShadow, WheelMid, WheelHighlight WheelOffset
	CurveHvsH, CurveHvsS, CurveHvsL       Curve
	CurveLvsS, CurveSvsS                  Curve

	// Vignette
	VignetteAmount             float32 // [-100,100]
	VignetteMidpoint           float32 // [0,100]
	VignetteRoundness          float32 // [0,100]
	VignetteHighlightProtection float32 // [0,100]

	// Distortion
	DistModel DistortionModel
	DistK1, DistK2, DistK3 float32

	// Geometry
	Rotate    float32 // degrees
	Scale     float32 // percent, 100=identity
	Aspect    float32 // ratio, 1=identity
	KeystoneV float32 // [-100,100]
	KeystoneH float32 // [-100,100]
	OffsetX   float32
	OffsetY   float32
	GeometryEnabled bool

	// Debugging
	DebugChecks bool
}

// CurveMode selects whether the tone curve operates on luma or per-channel RGB.
type CurveMode int

const (
	CurveModeLuma CurveMode = iota
	CurveModeRGB
)

// DefaultParams returns the identity configuration: every stage reduces to a
// pass-through operation, except that ApplyBaseTonemap is true, so the tone
// curve LUT applies the x^(1/2.2) base tonemap before the linear luma curve.
func DefaultParams() *Params {
	return &Params{
		DemosaicAlgorithm: DemosaicAHD,

		Exposure:     0,
		ColorTemp:    5000,
		Tint:         0,
		GreenBalance: 1.0,

		CAStrength:   0,
		CARedCyan:    0,
		CABlueYellow: 0,

		DenoiseStrength: 0,
		DenoiseEps:      1e-2,

		DehazeStrength: 0,

		LLDetail: 0, LLClarity: 0, LLShadows: 0, LLHighlights: 0, LLBlacks: 0, LLWhites: 0,

		Gamma:            1,
		Contrast:         0,
		CurveMode:        CurveModeLuma,
		CurveLuma:        Curve{{0, 0}, {1, 1}},
		ApplyBaseTonemap: true,

		VignetteAmount: 0, VignetteMidpoint: 50, VignetteRoundness: 50, VignetteHighlightProtection: 0,

		DistModel: DistIdentity,

		Rotate: 0, Scale: 100, Aspect: 1, KeystoneV: 0, KeystoneH: 0, OffsetX: 0, OffsetY: 0,
		GeometryEnabled: false,
	}
}

// ValidationResult carries non-fatal warnings attached to a clamped run, per §7.
type ValidationResult struct {
	Warnings []string
}

// Validate clamps out-of-range scalar fields to their documented range and
// returns accumulated warnings. Curves with non-monotone x are reported as an
// INVALID_PARAM error rather than clamped, since x is an ordering constraint,
// not a scalar range.
func (p *Params) Validate() (*ValidationResult, error) {
	vr := &ValidationResult{}
	clamp := func(name string, v *float32, lo, hi float32) {
		if *v < lo || *v > hi {
			vr.Warnings = append(vr.Warnings, name+" clamped to range")
			*v = clampF32(*v, lo, hi)
		}
	}

	clamp("Exposure", &p.Exposure, -4, 4)
	clamp("ColorTemp", &p.ColorTemp, 1500, 15000)
	clamp("Tint", &p.Tint, -1, 1)
	clamp("GreenBalance", &p.GreenBalance, 0.5, 2.0)
	clamp("CAStrength", &p.CAStrength, 0, 2)
	clamp("CARedCyan", &p.CARedCyan, -100, 100)
	clamp("CABlueYellow", &p.CABlueYellow, -100, 100)
	clamp("DenoiseStrength", &p.DenoiseStrength, 0, 100)
	clamp("DehazeStrength", &p.DehazeStrength, 0, 100)
	clamp("LLDetail", &p.LLDetail, -100, 100)
	clamp("LLClarity", &p.LLClarity, -100, 100)
	clamp("LLShadows", &p.LLShadows, -100, 100)
	clamp("LLHighlights", &p.LLHighlights, -100, 100)
	clamp("LLBlacks", &p.LLBlacks, -100, 100)
	clamp("LLWhites", &p.LLWhites, -100, 100)
	clamp("Gamma", &p.Gamma, 1, 3)
	clamp("Contrast", &p.Contrast, 0, 100)
	clamp("VignetteAmount", &p.VignetteAmount, -100, 100)
	clamp("VignetteMidpoint", &p.VignetteMidpoint, 0, 100)
	clamp("VignetteRoundness", &p.VignetteRoundness, 0, 100)
	clamp("VignetteHighlightProtection", &p.VignetteHighlightProtection, 0, 100)
	clamp("KeystoneV", &p.KeystoneV, -100, 100)
	clamp("KeystoneH", &p.KeystoneH, -100, 100)

	if p.DenoiseEps <= 0 {
		vr.Warnings = append(vr.Warnings, "DenoiseEps must be positive, reset to default")
		p.DenoiseEps = 1e-2
	}

	for name, c := range map[string]Curve{
		"CurveLuma": p.CurveLuma, "CurveR": p.CurveR, "CurveG": p.CurveG, "CurveB": p.CurveB,
		"CurveHvsH": p.CurveHvsH, "CurveHvsS": p.CurveHvsS, "CurveHvsL": p.CurveHvsL,
		"CurveLvsS": p.CurveLvsS, "CurveSvsS": p.CurveSvsS,
	} {
		if err := checkMonotone(c); err != nil {
			return vr, NewPipelineError(ErrInvalidParam, name+": "+err.Error(), err)
		}
	}

	return vr, nil
}

func checkMonotone(c Curve) error {
	for i := 1; i < len(c); i++ {
		if c[i].X < c[i-1].X {
			return errNonMonotoneCurve
		}
	}
	return nil
}
