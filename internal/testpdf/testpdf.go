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

// Package testpdf generates small PDF files for use in tests.
//
// Every page of a generated file has a distinct width, see [PageWidth], so
// that the origin of a page can be identified after pages have been copied
// between files.
package testpdf

import (
	"bytes"
	"fmt"
	"testing"

	"seehuhn.de/go/pdf"
)

// PageHeight is the height of all generated pages.
const PageHeight = 200

// PageWidth returns the width of the page with 1-based number pageNo in a
// file generated with the given tag.
func PageWidth(tag, pageNo int) float64 {
	return float64(100*tag + pageNo)
}

// Options describe a generated file.
type Options struct {
	// NumPages is the number of pages.
	NumPages int

	// Tag distinguishes the pages of different files.  The page widths of a
	// file with tag n are 100n+1, 100n+2, ...
	Tag int

	// Version is the PDF version.  If this is zero, PDF 1.7 is used.
	Version pdf.Version

	// Info, if non-nil, is written as the document information dictionary.
	Info *pdf.Info

	// BrokenPage, if positive, is the 1-based number of a page whose page
	// tree entry is an integer instead of a page dictionary.  The page count
	// of such a file can be read, but neither this page nor any later page
	// can be located in the page tree.
	BrokenPage int
}

// Make generates a PDF file.
func Make(opt *Options) ([]byte, error) {
	v := opt.Version
	if v == 0 {
		v = pdf.V1_7
	}

	buf := &bytes.Buffer{}
	w, err := pdf.NewWriter(buf, v, nil)
	if err != nil {
		return nil, err
	}

	pagesRef := w.Alloc()
	kids := make(pdf.Array, 0, opt.NumPages)
	for pageNo := 1; pageNo <= opt.NumPages; pageNo++ {
		pageRef := w.Alloc()
		kids = append(kids, pageRef)

		if pageNo == opt.BrokenPage {
			err = w.Put(pageRef, pdf.Integer(pageNo))
			if err != nil {
				return nil, err
			}
			continue
		}

		contentRef := w.Alloc()
		stm, err := w.OpenStream(contentRef, nil)
		if err != nil {
			return nil, err
		}
		_, err = fmt.Fprintf(stm, "0 0 m %d %d l S\n", pageNo, PageHeight)
		if err != nil {
			return nil, err
		}
		err = stm.Close()
		if err != nil {
			return nil, err
		}

		width := PageWidth(opt.Tag, pageNo)
		page := pdf.Dict{
			"Type":      pdf.Name("Page"),
			"Parent":    pagesRef,
			"MediaBox":  pdf.Array{pdf.Integer(0), pdf.Integer(0), pdf.Number(width), pdf.Integer(PageHeight)},
			"Resources": pdf.Dict{},
			"Contents":  contentRef,
		}
		err = w.Put(pageRef, page)
		if err != nil {
			return nil, err
		}
	}

	pages := pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  kids,
		"Count": pdf.Integer(opt.NumPages),
	}
	err = w.Put(pagesRef, pages)
	if err != nil {
		return nil, err
	}

	meta := w.GetMeta()
	meta.Catalog.Pages = pagesRef
	meta.Info = opt.Info

	err = w.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustMake is like [Make], but fails the test on error.
func MustMake(t testing.TB, opt *Options) []byte {
	t.Helper()
	data, err := Make(opt)
	if err != nil {
		t.Fatal(err)
	}
	return data
}
