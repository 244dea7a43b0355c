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
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/gin-gonic/contrib/static"
	"github.com/gin-gonic/gin"
)

// ServePreview exposes the optional tone-curve visualization surface over
// HTTP, per §6.3: it is not part of the core image pipeline and may be
// omitted entirely by a caller that never invokes it.
func ServePreview(port int, p *Params) {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.Use(static.Serve("/", static.LocalFile("./web/build", true)))

	r.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.GET("/api/v1/tonecurve.png", func(c *gin.Context) {
		lut := BuildToneCurveLUT(p)
		img := plotToneCurveLUT(lut)
		c.Writer.Header().Set("Content-Type", "image/png")
		png.Encode(c.Writer, img)
	})

	r.Run(fmt.Sprintf(":%d", port))
}

const toneCurvePlotSize = 512

// plotToneCurveLUT rasterizes the green channel of a tone-curve LUT as a
// single dark line on a white background, for the §6.3 debug rendering surface.
func plotToneCurveLUT(lut *ToneCurveLUT) image.Image {
	size := toneCurvePlotSize
	img := image.NewRGBA(image.Rectangle{image.Point{0, 0}, image.Point{size, size}})

	bg := color.RGBA{255, 255, 255, 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, bg)
		}
	}

	line := color.RGBA{40, 40, 40, 255}
	for x := 0; x < size; x++ {
		v := uint16(x * (toneCurveSize - 1) / (size - 1))
		y8 := lut.Apply8(v, 1) // luma/green channel for the preview
		y := size - 1 - int(y8)*(size-1)/255
		if y >= 0 && y < size {
			img.SetRGBA(x, y, line)
		}
	}
	return img
}
