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
	"time"

	"github.com/sirupsen/logrus"
)

// ExtractOptions control the behaviour of [Extract].
// The zero value is ready to use.
type ExtractOptions struct {
	// PreserveMetadata copies the author, subject and keywords of the source
	// document to every output file.
	PreserveMetadata bool

	// Logger receives diagnostic messages.  If this is nil, messages are
	// discarded.
	Logger logrus.FieldLogger
}

// Extract writes a new PDF file for every valid page range.
//
// A range is valid if 1 <= From <= To <= src.NumPages().  Invalid ranges are
// skipped; if no valid range is left, a [*NoValidRangesError] is returned.
// The outputs are in the order of the valid ranges, and every output contains
// the pages of its range in their original order.
//
// If the pages of a range cannot be copied, the whole extraction is
// abandoned and a [*RangeError] is returned.
func Extract(src *Source, ranges []PageRange, opt *ExtractOptions) ([]*Output, error) {
	if opt == nil {
		opt = &ExtractOptions{}
	}
	log := getLogger(opt.Logger).WithField("file", src.Name)

	numPages := src.NumPages()
	valid := ValidRanges(ranges, numPages)
	if len(valid) < len(ranges) {
		for _, r := range ranges {
			if !r.Valid(numPages) {
				log.WithField("range", r).Debug("skipping invalid page range")
			}
		}
	}
	if len(valid) == 0 {
		return nil, &NoValidRangesError{NumPages: numPages}
	}

	base := &Metadata{}
	if opt.PreserveMetadata {
		m, err := src.Metadata()
		if err != nil {
			log.WithError(err).Debug("no metadata to preserve")
		} else {
			base.Author = m.Author
			base.Subject = m.Subject
			base.Keywords = m.Keywords
		}
	}

	now := time.Now()
	res := make([]*Output, 0, len(valid))
	for _, r := range valid {
		data, err := extractRange(src, r, base, now)
		if err != nil {
			return nil, &RangeError{Range: r, Err: err}
		}
		res = append(res, &Output{
			Name:     rangeFileName(src.Name, r),
			Range:    r,
			NumPages: r.Len(),
			Data:     data,
		})
		log.WithField("range", r).Debug("extracted page range")
	}
	return res, nil
}

// ExtractParts splits src into k parts of equal length, see [EqualParts].
// If k exceeds the number of pages, fewer than k files are written.
func ExtractParts(src *Source, k int, opt *ExtractOptions) ([]*Output, error) {
	ranges, err := EqualParts(src.NumPages(), k)
	if err != nil {
		return nil, err
	}
	return Extract(src, ranges, opt)
}

func extractRange(src *Source, r PageRange, base *Metadata, now time.Time) ([]byte, error) {
	b, err := newBuilder(src.Version())
	if err != nil {
		return nil, err
	}

	err = b.AppendRange(src, r)
	if err != nil {
		return nil, err
	}

	m := *base
	m.Title = rangeTitle(src.Name, r)
	m.Creator = CreatorExtract
	m.Producer = Producer
	return b.Finish(&m, now)
}
