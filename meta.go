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
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/xmp"
)

// Values for the Creator and Producer entries of generated files.
const (
	Producer       = "seehuhn.de/go/assemble"
	CreatorExtract = "seehuhn.de/go/assemble page extractor"
	CreatorMerge   = "seehuhn.de/go/assemble document merger"
)

// Metadata is the document information of a PDF file.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// displayName strips directory and extension from a file name.
func displayName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		return "document"
	}
	return base
}

// rangeTitle returns the title of a file extracted from the named document.
func rangeTitle(name string, r PageRange) string {
	return displayName(name) + " - Pages " + strconv.Itoa(r.From) + "-" + strconv.Itoa(r.To)
}

// rangeFileName returns the suggested file name for the given range.
func rangeFileName(name string, r PageRange) string {
	base := displayName(name)
	if r.From == r.To {
		return base + "_page_" + strconv.Itoa(r.From) + ".pdf"
	}
	return base + "_pages_" + strconv.Itoa(r.From) + "-" + strconv.Itoa(r.To) + ".pdf"
}

// infoDict converts m into a PDF document information dictionary.
func (m *Metadata) infoDict(now time.Time) *pdf.Info {
	return &pdf.Info{
		Title:        pdf.TextString(m.Title),
		Author:       pdf.TextString(m.Author),
		Subject:      pdf.TextString(m.Subject),
		Keywords:     pdf.TextString(m.Keywords),
		Creator:      pdf.TextString(m.Creator),
		Producer:     pdf.TextString(m.Producer),
		CreationDate: pdf.Date(now),
		ModDate:      pdf.Date(now),
	}
}

// xmpPacket represents m as an XMP metadata packet.
func (m *Metadata) xmpPacket(now time.Time) *xmp.Packet {
	dc := &xmp.DublinCore{}
	if m.Title != "" {
		dc.Title.Set(language.MustParse("x-default"), m.Title)
	}
	if m.Author != "" {
		dc.Creator.Append(xmp.NewProperName(m.Author))
	}
	if m.Subject != "" {
		dc.Description.Set(language.MustParse("x-default"), m.Subject)
	}

	basic := &xmp.Basic{}
	basic.CreateDate = xmp.NewDate(now)
	basic.ModifyDate = xmp.NewDate(now)
	if m.Creator != "" {
		basic.CreatorTool = xmp.NewAgentName(m.Creator)
	}

	pdfInfo := &xmpPDF{}
	if m.Keywords != "" {
		pdfInfo.Keywords = xmp.NewText(m.Keywords)
	}
	if m.Producer != "" {
		pdfInfo.Producer = xmp.NewAgentName(m.Producer)
	}

	packet := xmp.NewPacket()
	packet.Set(dc, basic, pdfInfo)
	return packet
}

// xmpPDF is the XMP namespace for PDF metadata.
// See https://developer.adobe.com/xmp/docs/XMPNamespaces/pdf/
type xmpPDF struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Keywords xmp.Text
	Producer xmp.AgentName
}
