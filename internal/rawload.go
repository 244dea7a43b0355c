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
	"image"
	"image/png"
	"io"

	"gonum.org/v1/gonum/mat"
)

// RawFrame is the normalized sensor tuple the engine consumes: a Bayer mosaic
// plus the reference color matrices for the two calibration illuminants. The
// engine does not specify the container; a collaborator is expected to
// produce this tuple (§6.2).
type RawFrame struct {
	Mosaic      *BayerPlane
	Matrix3200K *mat.Dense // 3x4
	Matrix7000K *mat.Dense // 3x4
}

// NewRawFrame validates and wraps a decoded mosaic and its metadata.
func NewRawFrame(mosaic *BayerPlane, m3200, m7000 *mat.Dense) (*RawFrame, error) {
	if mosaic == nil || mosaic.Width <= 0 || mosaic.Height <= 0 {
		return nil, NewPipelineError(ErrInvalidInput, "image dimensions must be positive", nil)
	}
	if mosaic.Black >= mosaic.White {
		return nil, NewPipelineError(ErrInvalidInput, "black level must be less than white level", nil)
	}
	if m3200 == nil || m7000 == nil {
		return nil, NewPipelineError(ErrInvalidInput, "color matrices are required", nil)
	}
	if r, c := m3200.Dims(); r != 3 || c != 4 {
		return nil, NewPipelineError(ErrInvalidInput, "3200K color matrix must be 3x4", nil)
	}
	if r, c := m7000.Dims(); r != 3 || c != 4 {
		return nil, NewPipelineError(ErrInvalidInput, "7000K color matrix must be 3x4", nil)
	}
	return &RawFrame{Mosaic: mosaic, Matrix3200K: m3200, Matrix7000K: m7000}, nil
}

// DecodeRawPNGShortcut loads a 16-bit grayscale PNG as an alternate "raw-png"
// path, with hard-coded black=25/white=1023. Preserved from the original
// implementation's behavior (spec §9); since decoding vendor raw containers
// is out of scope for the core engine (§1), this shortcut is also what
// cmd/rawproc uses to turn a file argument into a RawFrame.
func DecodeRawPNGShortcut(r io.Reader, cfa CFAPattern) (*BayerPlane, error) {
	const testBlack, testWhite uint16 = 25, 1023

	img, err := png.Decode(r)
	if err != nil {
		return nil, NewPipelineError(ErrInvalidInput, "raw-png shortcut decode failed", err)
	}
	gray16, ok := img.(*image.Gray16)
	if !ok {
		return nil, NewPipelineError(ErrInvalidInput, "raw-png shortcut requires a 16-bit grayscale PNG", nil)
	}

	bounds := gray16.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	plane := NewBayerPlane(w, h, cfa, testBlack, testWhite)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			plane.Data[y*w+x] = gray16.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y
		}
	}
	return plane, nil
}
