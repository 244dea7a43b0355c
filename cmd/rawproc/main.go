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

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	rp "github.com/thingsapart/rawproc/internal"
	"gonum.org/v1/gonum/mat"
)

const version = "0.1.0"

var out = flag.String("out", "out.jpg", "save rendered output to `file`")
var quality = flag.Int64("quality", 92, "JPEG quality, 1-100, ignored for .png output")
var servePort = flag.Int64("serve", 0, "serve the tone-curve preview endpoint on this port, 0=don't")
var log = flag.String("log", "%auto", "save log output to `file`. `%auto` replaces suffix of output file with .log")

var demosaic = flag.String("demosaic", "ahd", "demosaic algorithm, one of fast, ahd, lmmse, ri")
var cfa = flag.String("cfa", "GRBG", "color filter array layout, one of GRBG, RGGB, GBRG, BGGR")

var exposure = flag.Float64("exposure", 0, "exposure compensation in stops, [-4,4]")
var colorTemp = flag.Float64("colorTemp", 5000, "white balance color temperature in Kelvin, [1500,15000]")
var tint = flag.Float64("tint", 0, "white balance tint, [-1,1]")
var greenBalance = flag.Float64("greenBalance", 1.0, "Gb/Gr balance multiplier, [0.5,2.0]")

var caStrength = flag.Float64("caStrength", 0, "chromatic aberration correction strength, [0,2]")

var denoiseStrength = flag.Float64("denoiseStrength", 0, "denoise strength, [0,100]")
var denoiseEps = flag.Float64("denoiseEps", 1e-2, "guided filter regularization epsilon, >0")

var dehazeStrength = flag.Float64("dehazeStrength", 0, "dehaze strength, [0,100]")

var llDetail = flag.Float64("llDetail", 0, "local Laplacian fine detail, [-100,100]")
var llClarity = flag.Float64("llClarity", 0, "local Laplacian clarity (mid-frequency contrast), [-100,100]")
var llShadows = flag.Float64("llShadows", 0, "local Laplacian shadow tone mapping, [-100,100]")
var llHighlights = flag.Float64("llHighlights", 0, "local Laplacian highlight tone mapping, [-100,100]")
var llBlacks = flag.Float64("llBlacks", 0, "local Laplacian black point, [-100,100]")
var llWhites = flag.Float64("llWhites", 0, "local Laplacian white point, [-100,100]")

var gamma = flag.Float64("gamma", 1, "tone curve gamma, [1,3]; range-checked only, the base tonemap exponent is fixed at 1/2.2")
var contrast = flag.Float64("contrast", 0, "default S-curve contrast amount, [0,100], ignored if a curve is set")

var vignetteAmount = flag.Float64("vignetteAmount", 0, "vignette amount, [-100,100]")
var vignetteMidpoint = flag.Float64("vignetteMidpoint", 50, "vignette midpoint radius, [0,100]")
var vignetteRoundness = flag.Float64("vignetteRoundness", 50, "vignette roundness, 0=circular, 100=matches aspect ratio")
var vignetteHighlightProtection = flag.Float64("vignetteHighlightProtection", 0, "vignette highlight protection, [0,100]")

var distModel = flag.String("distModel", "identity", "lens distortion model, one of identity, poly3, poly5, ptlens")
var distK1 = flag.Float64("distK1", 0, "lens distortion coefficient k1")
var distK2 = flag.Float64("distK2", 0, "lens distortion coefficient k2")
var distK3 = flag.Float64("distK3", 0, "lens distortion coefficient k3")

var rotate = flag.Float64("rotate", 0, "geometry rotation in degrees")
var scale = flag.Float64("scale", 100, "geometry scale in percent, 100=identity")
var aspect = flag.Float64("aspect", 1, "geometry aspect ratio multiplier, 1=identity")
var keystoneV = flag.Float64("keystoneV", 0, "vertical keystone correction, [-100,100]")
var keystoneH = flag.Float64("keystoneH", 0, "horizontal keystone correction, [-100,100]")
var offsetX = flag.Float64("offsetX", 0, "geometry horizontal offset in pixels")
var offsetY = flag.Float64("offsetY", 0, "geometry vertical offset in pixels")
var geometryEnabled = flag.Bool("geometry", false, "enable the lens geometry stage")

var debugChecks = flag.Bool("debugChecks", false, "run an internal size sanity check on the output buffer")

func main() {
	start := time.Now()
	flag.Usage = func() {
		rp.LogPrintf(`rawproc Copyright (c) 2020 Markus L. Noga
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] input.png

Renders a single raw-png shortcut frame through the full pipeline and writes
the result to -out.

Flags:
`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *log == "%auto" {
		if *out != "" {
			*log = strings.TrimSuffix(*out, filepathExt(*out)) + ".log"
		} else {
			*log = ""
		}
	}
	if *log != "" {
		if err := rp.LogAlsoToFile(*log); err != nil {
			rp.LogFatalf("Unable to open logfile '%s'\n", *log)
		}
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}
	if args[0] == "version" {
		rp.LogPrintf("Version %s\n", version)
		return
	}

	cfaPattern, err := parseCFA(*cfa)
	if err != nil {
		rp.LogFatal(err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		rp.LogFatalf("Could not open input '%s': %v\n", args[0], err)
	}
	mosaic, err := rp.DecodeRawPNGShortcut(f, cfaPattern)
	f.Close()
	if err != nil {
		rp.LogPrintln(err)
		rp.LogSync()
		os.Exit(2)
	}

	m3200 := identityColorMatrix()
	m7000 := identityColorMatrix()
	frame, err := rp.NewRawFrame(mosaic, m3200, m7000)
	if err != nil {
		rp.LogFatal(err)
	}

	p, err := paramsFromFlags()
	if err != nil {
		rp.LogFatal(err)
	}

	img, warnings, err := rp.Run(frame, p)
	if err != nil {
		rp.LogPrintf("Error: %v\n", err)
		os.Exit(rp.ExitCode(err))
	}
	for _, w := range warnings {
		rp.LogPrintf("Warning: %s\n", w)
	}

	if err := writeOutput(img, *out, int(*quality)); err != nil {
		rp.LogFatalf("Could not write output '%s': %v\n", *out, err)
	}

	if *servePort > 0 {
		rp.ServePreview(int(*servePort), p)
	}

	rp.LogPrintf("\nDone after %v\n", time.Since(start))
	rp.LogSync()
}

func writeOutput(img *rp.RGB8Image, fileName string, quality int) error {
	if strings.HasSuffix(strings.ToLower(fileName), ".png") {
		return img.WritePNGToFile(fileName)
	}
	return img.WriteJPGToFile(fileName, quality)
}

func filepathExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i:]
	}
	return ""
}

func parseCFA(s string) (rp.CFAPattern, error) {
	switch strings.ToUpper(s) {
	case "GRBG":
		return rp.CFAGRBG, nil
	case "RGGB":
		return rp.CFARGGB, nil
	case "GBRG":
		return rp.CFAGBRG, nil
	case "BGGR":
		return rp.CFABGGR, nil
	default:
		return 0, fmt.Errorf("unknown CFA pattern '%s'", s)
	}
}

func parseDemosaic(s string) rp.DemosaicAlgorithm {
	switch strings.ToLower(s) {
	case "fast":
		return rp.DemosaicFast
	case "lmmse":
		return rp.DemosaicLMMSE
	case "ri":
		return rp.DemosaicRI
	default:
		return rp.DemosaicAHD
	}
}

func parseDistModel(s string) rp.DistortionModel {
	switch strings.ToLower(s) {
	case "poly3":
		return rp.DistPoly3
	case "poly5":
		return rp.DistPoly5
	case "ptlens":
		return rp.DistPTLens
	default:
		return rp.DistIdentity
	}
}

// identityColorMatrix returns a 3x4 matrix that passes scene-linear RGB
// through unchanged, for inputs decoded via the raw-png shortcut that carry
// no sensor-specific calibration data.
func identityColorMatrix() *mat.Dense {
	return mat.NewDense(3, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
	})
}

func paramsFromFlags() (*rp.Params, error) {
	p := rp.DefaultParams()

	p.DemosaicAlgorithm = parseDemosaic(*demosaic)

	p.Exposure = float32(*exposure)
	p.ColorTemp = float32(*colorTemp)
	p.Tint = float32(*tint)
	p.GreenBalance = float32(*greenBalance)

	p.CAStrength = float32(*caStrength)

	p.DenoiseStrength = float32(*denoiseStrength)
	p.DenoiseEps = float32(*denoiseEps)

	p.DehazeStrength = float32(*dehazeStrength)

	p.LLDetail = float32(*llDetail)
	p.LLClarity = float32(*llClarity)
	p.LLShadows = float32(*llShadows)
	p.LLHighlights = float32(*llHighlights)
	p.LLBlacks = float32(*llBlacks)
	p.LLWhites = float32(*llWhites)

	p.Gamma = float32(*gamma)
	p.Contrast = float32(*contrast)

	p.VignetteAmount = float32(*vignetteAmount)
	p.VignetteMidpoint = float32(*vignetteMidpoint)
	p.VignetteRoundness = float32(*vignetteRoundness)
	p.VignetteHighlightProtection = float32(*vignetteHighlightProtection)

	p.DistModel = parseDistModel(*distModel)
	p.DistK1 = float32(*distK1)
	p.DistK2 = float32(*distK2)
	p.DistK3 = float32(*distK3)

	p.Rotate = float32(*rotate)
	p.Scale = float32(*scale)
	p.Aspect = float32(*aspect)
	p.KeystoneV = float32(*keystoneV)
	p.KeystoneH = float32(*keystoneH)
	p.OffsetX = float32(*offsetX)
	p.OffsetY = float32(*offsetY)
	p.GeometryEnabled = *geometryEnabled

	p.DebugChecks = *debugChecks

	return p, nil
}
