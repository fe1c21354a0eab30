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
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/destination"
	"seehuhn.de/go/pdf/outline"
)

// MergeMode determines the order in which pages of the input documents
// appear in a merged file.
type MergeMode int

// These are the supported merge modes.
const (
	// MergeSequential appends all pages of each document in turn.
	MergeSequential MergeMode = iota

	// MergeInterleave takes page 1 of every document, then page 2 of every
	// document, and so on.  Documents which have run out of pages are
	// skipped.
	MergeInterleave
)

func (m MergeMode) String() string {
	switch m {
	case MergeSequential:
		return "sequential"
	case MergeInterleave:
		return "interleave"
	default:
		return fmt.Sprintf("MergeMode(%d)", int(m))
	}
}

// MergedFileName is the suggested name for merged files.
const MergedFileName = "merged.pdf"

// MergeOptions control the behaviour of [Merge].
// The zero value is ready to use.
type MergeOptions struct {
	// AddBookmarks adds one top-level outline item for every input
	// document, pointing to the first page copied from that document.
	AddBookmarks bool

	// PreserveMetadata copies title and author of the first input document
	// to the output.
	PreserveMetadata bool

	// Mode is the page order of the output.
	Mode MergeMode

	// Logger receives diagnostic messages.  If this is nil, messages are
	// discarded.
	Logger logrus.FieldLogger
}

// Merge combines the pages of two or more documents into a new PDF file.
//
// With the default [MergeSequential] mode, the output contains all pages of
// srcs[0], followed by all pages of srcs[1], and so on.  Pages keep their
// original order within every document.
//
// Bookmarks and metadata are best-effort: if they cannot be produced, a
// warning is logged and the merge continues without them.
func Merge(srcs []*Source, opt *MergeOptions) (*Output, error) {
	if len(srcs) < 2 {
		return nil, &ValidationError{Field: "documents", Err: ErrTooFewDocuments}
	}
	if opt == nil {
		opt = &MergeOptions{}
	}
	log := getLogger(opt.Logger).WithField("mode", opt.Mode)

	v := minVersion
	for _, src := range srcs {
		v = max(v, src.Version())
	}
	b, err := newBuilder(v)
	if err != nil {
		return nil, err
	}

	var firstPage []pdf.Reference
	switch opt.Mode {
	case MergeSequential:
		firstPage, err = appendSequential(b, srcs)
	case MergeInterleave:
		firstPage, err = appendInterleaved(b, srcs)
	default:
		return nil, &ValidationError{
			Field:   "mode",
			Message: fmt.Sprintf("unknown merge mode %d", int(opt.Mode)),
		}
	}
	if err != nil {
		return nil, err
	}

	if opt.AddBookmarks {
		o := &outline.Outline{}
		for i, src := range srcs {
			if firstPage[i] == 0 {
				log.WithField("file", src.Name).Warn("document has no pages, skipping bookmark")
				continue
			}
			item := o.AddItem(src.DisplayName())
			item.Destination = &destination.XYZ{
				Page: firstPage[i],
				Left: destination.Unset,
				Top:  destination.Unset,
				Zoom: destination.Unset,
			}
		}
		err = b.WriteOutline(o)
		if err != nil {
			log.WithError(err).Warn("cannot write bookmarks")
		}
	}

	m := &Metadata{
		Creator:  CreatorMerge,
		Producer: Producer,
	}
	if opt.PreserveMetadata {
		info, err := srcs[0].Metadata()
		if err != nil {
			log.WithError(err).WithField("file", srcs[0].Name).
				Warn("cannot read metadata, using defaults")
		} else {
			m.Title = info.Title
			m.Author = info.Author
		}
	}

	numPages := b.numPages
	data, err := b.Finish(m, time.Now())
	if err != nil {
		return nil, err
	}
	log.WithField("pages", numPages).Debug("merged documents")

	res := &Output{
		Name:     MergedFileName,
		NumPages: numPages,
		Data:     data,
	}
	return res, nil
}

// appendSequential copies all pages of every source.  The returned slice
// holds the output reference of the first page of every source, or 0 for
// sources without pages.
func appendSequential(b *builder, srcs []*Source) ([]pdf.Reference, error) {
	firstPage := make([]pdf.Reference, len(srcs))
	for i, src := range srcs {
		for pageNo := range src.NumPages() {
			ref, err := b.AppendPage(src, pageNo)
			if err != nil {
				return nil, &ParseError{Name: src.Name, Err: err}
			}
			if pageNo == 0 {
				firstPage[i] = ref
			}
		}
	}
	return firstPage, nil
}

func appendInterleaved(b *builder, srcs []*Source) ([]pdf.Reference, error) {
	maxPages := 0
	for _, src := range srcs {
		maxPages = max(maxPages, src.NumPages())
	}

	firstPage := make([]pdf.Reference, len(srcs))
	for pageNo := range maxPages {
		for i, src := range srcs {
			if pageNo >= src.NumPages() {
				continue
			}
			ref, err := b.AppendPage(src, pageNo)
			if err != nil {
				return nil, &ParseError{Name: src.Name, Err: err}
			}
			if pageNo == 0 {
				firstPage[i] = ref
			}
		}
	}
	return firstPage, nil
}
