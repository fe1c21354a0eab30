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

// Package thumbnail renders small preview images of PDF pages.
//
// Rendering never fails as a whole.  A page which cannot be rendered is
// replaced by a placeholder image, and if the document cannot be opened by
// the renderer at all, a list of placeholders is returned whose length is
// estimated from the file size.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	"seehuhn.de/go/assemble"
)

// Default settings.
const (
	// DefaultScale is the scale used when Thumbnailer.Scale is zero.
	DefaultScale = 0.5

	// DefaultMaxPages is the page limit for interactive use.
	DefaultMaxPages = 20
)

// Estimate for the number of pages of a document which cannot be opened.
const (
	fallbackBytesPerPage = 50000
	fallbackMaxPages     = 50
)

// A Thumbnail is the preview image of one page.
type Thumbnail struct {
	// PageNumber is the 1-based number of the page.
	PageNumber int

	// Width and Height give the image size in pixels.
	Width, Height int

	// PNG is the PNG-encoded image.
	PNG []byte

	// Placeholder is set if the page could not be rendered and PNG holds
	// a generic page image instead.
	Placeholder bool
}

// Renderer opens PDF files for rendering.
type Renderer interface {
	Open(data []byte) (Document, error)
}

// Document is a PDF file opened by a [Renderer].
type Document interface {
	// NumPages returns the number of pages in the document.
	NumPages() int

	// RenderPage renders the page with 0-based index pageNo.  At scale 1,
	// one PDF unit corresponds to one pixel.
	RenderPage(pageNo int, scale float64) (image.Image, error)

	Close() error
}

// Thumbnailer generates page thumbnails.
// The zero value only produces placeholders; set Renderer to render pages.
type Thumbnailer struct {
	Renderer Renderer

	// Scale is the size of the thumbnails relative to the page size.
	// If this is zero, DefaultScale is used.
	Scale float64

	// MaxWidth, if positive, is the maximal width of a thumbnail in pixels.
	// Wider images are scaled down, keeping the aspect ratio.
	MaxWidth int

	// Cache, if non-nil, is consulted before rendering a page.
	Cache *Cache

	// Logger receives a message for every page which falls back to a
	// placeholder.  If this is nil, messages are discarded.
	Logger logrus.FieldLogger
}

// GetThumbnails renders up to maxPages pages of a PDF file using MuPDF.
// If maxPages is zero or negative, all pages are rendered.
func GetThumbnails(data []byte, maxPages int) []*Thumbnail {
	t := &Thumbnailer{Renderer: FitzRenderer{}}
	return t.Thumbnails(data, maxPages)
}

// Thumbnails returns one thumbnail for each of the first maxPages pages of
// the document, in page order.  If maxPages is zero or negative, all pages
// are included.
func (t *Thumbnailer) Thumbnails(data []byte, maxPages int) []*Thumbnail {
	log := t.logger()

	if t.Renderer == nil {
		log.Warn("no renderer available, using placeholders")
		return t.fallback(data, maxPages)
	}
	doc, err := t.Renderer.Open(data)
	if err != nil {
		log.WithError(err).Warn("cannot open document, using placeholders")
		return t.fallback(data, maxPages)
	}
	defer doc.Close()

	total := doc.NumPages()
	n := total
	if maxPages > 0 {
		n = min(n, maxPages)
	}

	var key Key
	if t.Cache != nil {
		key = Key{
			Doc:      assemble.DocumentID(data),
			Scale:    t.scale(),
			MaxWidth: max(t.MaxWidth, 0),
		}
	}

	res := make([]*Thumbnail, 0, n)
	for i := range n {
		pageNo := i + 1

		key.Page = pageNo
		if t.Cache != nil {
			if th, ok := t.Cache.Get(key); ok {
				res = append(res, th)
				continue
			}
		}

		th, err := t.renderPage(doc, pageNo)
		if err != nil {
			log.WithError(err).WithField("page", pageNo).
				Warn("cannot render page, using placeholder")
			th = t.placeholder(pageNo, total)
		} else if t.Cache != nil {
			t.Cache.Put(key, th)
		}
		res = append(res, th)
	}
	return res
}

var errEmptyImage = errors.New("renderer returned an empty image")

// renderPage renders the page with the 1-based number pageNo.
// Panics in the renderer are turned into errors.
func (t *Thumbnailer) renderPage(doc Document, pageNo int) (th *Thumbnail, err error) {
	defer func() {
		if r := recover(); r != nil {
			th = nil
			err = fmt.Errorf("renderer panic: %v", r)
		}
	}()

	img, err := doc.RenderPage(pageNo-1, t.scale())
	if err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, errEmptyImage
	}

	if t.MaxWidth > 0 && img.Bounds().Dx() > t.MaxWidth {
		img = downscale(img, t.MaxWidth)
	}

	return encode(pageNo, img, false)
}

// fallback returns placeholders for a document which could not be opened.
func (t *Thumbnailer) fallback(data []byte, maxPages int) []*Thumbnail {
	total := EstimatePages(len(data))
	n := total
	if maxPages > 0 {
		n = min(n, maxPages)
	}
	res := make([]*Thumbnail, n)
	for i := range res {
		res[i] = t.placeholder(i+1, total)
	}
	return res
}

func (t *Thumbnailer) placeholder(pageNo, total int) *Thumbnail {
	th, err := encode(pageNo, placeholderImage(pageNo, total), true)
	if err != nil {
		// The image is still reported as a placeholder, without data.
		t.logger().WithError(err).WithField("page", pageNo).
			Error("cannot encode placeholder")
		return &Thumbnail{
			PageNumber:  pageNo,
			Width:       PlaceholderWidth,
			Height:      PlaceholderHeight,
			Placeholder: true,
		}
	}
	return th
}

func (t *Thumbnailer) scale() float64 {
	if t.Scale > 0 {
		return t.Scale
	}
	return DefaultScale
}

func (t *Thumbnailer) logger() logrus.FieldLogger {
	if t.Logger != nil {
		return t.Logger
	}
	discard := logrus.New()
	discard.Out = io.Discard
	return discard
}

// EstimatePages guesses the number of pages of a PDF file from its size in
// bytes.  The result is between 1 and 50.
func EstimatePages(size int) int {
	return max(1, min(fallbackMaxPages, size/fallbackBytesPerPage))
}

func encode(pageNo int, img image.Image, placeholder bool) (*Thumbnail, error) {
	buf := &bytes.Buffer{}
	err := png.Encode(buf, img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	th := &Thumbnail{
		PageNumber:  pageNo,
		Width:       b.Dx(),
		Height:      b.Dy(),
		PNG:         buf.Bytes(),
		Placeholder: placeholder,
	}
	return th, nil
}

// downscale resizes img to the given width, keeping the aspect ratio.
func downscale(img image.Image, width int) image.Image {
	b := img.Bounds()
	height := int(math.Round(float64(b.Dy()) * float64(width) / float64(b.Dx())))
	height = max(height, 1)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
