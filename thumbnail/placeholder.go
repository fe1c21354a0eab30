// seehuhn.de/go/assemble - split and merge PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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

package thumbnail

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Size of placeholder images, in pixels.
const (
	PlaceholderWidth  = 200
	PlaceholderHeight = 280
)

var (
	placeholderBorder = color.RGBA{0xe2, 0xe8, 0xf0, 0xff}
	placeholderLines  = color.RGBA{0xf1, 0xf5, 0xf9, 0xff}
	placeholderText   = color.RGBA{0x6b, 0x72, 0x80, 0xff}
)

// placeholderImage draws a generic page with faint text lines and the label
// "Page pageNo of total".
func placeholderImage(pageNo, total int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, PlaceholderWidth, PlaceholderHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	for line := range 15 {
		y := 30 + line*15
		r := image.Rect(20, y, PlaceholderWidth-20, y+1)
		draw.Draw(img, r, image.NewUniform(placeholderLines), image.Point{}, draw.Src)
	}

	border := image.NewUniform(placeholderBorder)
	w, h := PlaceholderWidth, PlaceholderHeight
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, w, 1),
		image.Rect(0, h-1, w, h),
		image.Rect(0, 0, 1, h),
		image.Rect(w-1, 0, w, h),
	} {
		draw.Draw(img, r, border, image.Point{}, draw.Src)
	}

	label := fmt.Sprintf("Page %d of %d", pageNo, total)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(placeholderText),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(label)
	d.Dot = fixed.Point26_6{
		X: (fixed.I(w) - width) / 2,
		Y: fixed.I(h / 2),
	}
	d.DrawString(label)

	return img
}
