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

package assemble

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// documentSpace is the UUID namespace for document identities.
var documentSpace = uuid.MustParse("6f1c2a2e-8d55-4d0c-9a51-3f7e2b9c4a10")

// DocumentID returns the identity of a PDF file with the given contents.
// Identical contents always give the same identity.
func DocumentID(data []byte) uuid.UUID {
	return uuid.NewSHA1(documentSpace, data)
}

// A Source is a PDF file opened for reading.
//
// Sources are never modified by the operations in this package; pages are
// copied out of them into new files.  A Source must not be used by more than
// one goroutine at a time.
type Source struct {
	// Name is the file name, used to derive titles and output names.
	Name string

	// ID identifies the file contents, see [DocumentID].
	ID uuid.UUID

	// Size is the length of the file in bytes.
	Size int

	r        *pdf.Reader
	numPages int
}

// Open parses a PDF file from memory.
func Open(name string, data []byte) (*Source, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, &ParseError{Name: name, Err: err}
	}

	numPages, err := pagetree.NumPages(r)
	if err != nil {
		r.Close()
		return nil, &ParseError{Name: name, Err: err}
	}

	s := &Source{
		Name:     name,
		ID:       DocumentID(data),
		Size:     len(data),
		r:        r,
		numPages: numPages,
	}
	return s, nil
}

// OpenFile reads and parses a PDF file from disk.
func OpenFile(fname string) (*Source, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	return Open(filepath.Base(fname), data)
}

// Close releases the resources held by the source.
func (s *Source) Close() error {
	return s.r.Close()
}

// NumPages returns the number of pages in the document.
func (s *Source) NumPages() int {
	return s.numPages
}

// Version returns the PDF version of the file.
func (s *Source) Version() pdf.Version {
	return s.r.GetMeta().Version
}

// DisplayName returns the file name without its extension.
func (s *Source) DisplayName() string {
	return displayName(s.Name)
}

// Metadata returns the document information of the file.
func (s *Source) Metadata() (*Metadata, error) {
	info := s.r.GetMeta().Info
	if info == nil {
		return nil, errNoInfo
	}
	m := &Metadata{
		Title:    string(info.Title),
		Author:   string(info.Author),
		Subject:  string(info.Subject),
		Keywords: string(info.Keywords),
		Creator:  string(info.Creator),
		Producer: string(info.Producer),
	}
	return m, nil
}

// PageInfo describes a page of a document.
type PageInfo struct {
	// Number is the 1-based page number.
	Number int

	// Box is the media box of the page, in PDF units.
	Box rect.Rect

	// Rotate is the page rotation in degrees, a multiple of 90.
	Rotate int
}

// Width returns the width of the page, taking rotation into account.
func (p *PageInfo) Width() float64 {
	if p.Rotate%180 != 0 {
		return p.Box.Dy()
	}
	return p.Box.Dx()
}

// Height returns the height of the page, taking rotation into account.
func (p *PageInfo) Height() float64 {
	if p.Rotate%180 != 0 {
		return p.Box.Dx()
	}
	return p.Box.Dy()
}

// Page returns information about the page with the given 1-based number.
func (s *Source) Page(pageNo int) (*PageInfo, error) {
	if pageNo < 1 || pageNo > s.numPages {
		return nil, fmt.Errorf("page %d not in range 1-%d", pageNo, s.numPages)
	}

	_, pageDict, err := pagetree.GetPage(s.r, pageNo-1)
	if err != nil {
		return nil, fmt.Errorf("failed to get page %d: %w", pageNo, err)
	}

	box, err := getBox(s.r, pageDict["MediaBox"])
	if err != nil {
		return nil, fmt.Errorf("page %d: invalid MediaBox: %w", pageNo, err)
	}

	info := &PageInfo{
		Number: pageNo,
		Box:    box,
	}
	if rot, err := pdf.GetNumber(s.r, pageDict["Rotate"]); err == nil {
		info.Rotate = ((int(rot)%360 + 360) % 360) / 90 * 90
	}
	return info, nil
}

// Pages returns information about all pages of the document.
func (s *Source) Pages() ([]*PageInfo, error) {
	res := make([]*PageInfo, 0, s.numPages)
	for pageNo := 1; pageNo <= s.numPages; pageNo++ {
		info, err := s.Page(pageNo)
		if err != nil {
			return nil, err
		}
		res = append(res, info)
	}
	return res, nil
}

var errNoBox = errors.New("expected an array of 4 numbers")

func getBox(r pdf.Getter, obj pdf.Object) (rect.Rect, error) {
	a, err := pdf.GetArray(r, obj)
	if err != nil {
		return rect.Rect{}, err
	}
	if len(a) != 4 {
		return rect.Rect{}, errNoBox
	}

	var x [4]float64
	for i, elem := range a {
		xi, err := pdf.GetNumber(r, elem)
		if err != nil {
			return rect.Rect{}, err
		}
		x[i] = float64(xi)
	}
	box := rect.Rect{
		LLx: min(x[0], x[2]),
		LLy: min(x[1], x[3]),
		URx: max(x[0], x[2]),
		URy: max(x[1], x[3]),
	}
	return box, nil
}
