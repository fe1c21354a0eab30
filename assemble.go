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

// Package assemble builds new PDF files from the pages of existing ones.
//
// [Extract] writes one new file for every page range of a document, and
// [Merge] concatenates several documents into one file, optionally with a
// bookmark for every input.  Input documents are opened with [Open] and are
// never modified; pages are copied out of them.
//
// Page numbers are 1-based everywhere in the API, and page ranges include
// both end points.  Page thumbnails are generated by the subpackage
// [seehuhn.de/go/assemble/thumbnail].
package assemble

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Output is a PDF file generated by [Extract] or [Merge].
type Output struct {
	// Name is a suggested file name for the output.
	Name string

	// Range is the page range of the source document contained in the
	// output.  This is the zero range for merged files.
	Range PageRange

	// NumPages is the number of pages in the output.
	NumPages int

	// Data is the PDF file.
	Data []byte
}

func getLogger(l logrus.FieldLogger) logrus.FieldLogger {
	if l != nil {
		return l
	}
	discard := logrus.New()
	discard.Out = io.Discard
	return discard
}
