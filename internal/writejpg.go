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
	"bufio"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
)

// WriteJPGToFile encodes the final 8-bit RGB result as a JPEG file, per §6.2's
// "8-bit RGB... as requested by the caller's buffer layout" output contract.
func (img *RGB8Image) WriteJPGToFile(fileName string, quality int) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	return img.WriteJPG(writer, quality)
}

// WriteJPG encodes the final 8-bit RGB result as JPEG to an arbitrary writer.
func (img *RGB8Image) WriteJPG(writer io.Writer, quality int) error {
	rgba := img.toRGBA()
	return jpeg.Encode(writer, rgba, &jpeg.Options{Quality: quality})
}

// WritePNGToFile encodes the final 8-bit RGB result as a lossless PNG file.
func (img *RGB8Image) WritePNGToFile(fileName string) error {
	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	if err := png.Encode(writer, img.toRGBA()); err != nil {
		return err
	}
	return writer.Flush()
}

func (img *RGB8Image) toRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rectangle{image.Point{0, 0}, image.Point{img.Width, img.Height}})
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			i := (y*img.Width + x) * 3
			c := color.RGBA{img.Pix[i], img.Pix[i+1], img.Pix[i+2], 255}
			out.SetRGBA(x, y, c)
		}
	}
	return out
}
