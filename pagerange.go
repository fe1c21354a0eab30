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
	"strconv"
	"strings"
)

// PageRange is a range of pages.  Page numbers are 1-based and both ends are
// inclusive.
type PageRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r PageRange) String() string {
	if r.From == r.To {
		return fmt.Sprintf("page %d", r.From)
	}
	return fmt.Sprintf("pages %d-%d", r.From, r.To)
}

// Valid reports whether the range selects at least one page of a document
// with numPages pages.
func (r PageRange) Valid(numPages int) bool {
	return r.From >= 1 && r.To <= numPages && r.From <= r.To
}

// Len returns the number of pages in the range.
// The result is only meaningful for valid ranges.
func (r PageRange) Len() int {
	return r.To - r.From + 1
}

// ValidRanges returns the ranges which are valid for a document with
// numPages pages, in their original order.  Invalid ranges are dropped.
func ValidRanges(ranges []PageRange, numPages int) []PageRange {
	var res []PageRange
	for _, r := range ranges {
		if r.Valid(numPages) {
			res = append(res, r)
		}
	}
	return res
}

// EqualParts partitions a document with numPages pages into k parts of
// ceil(numPages/k) pages each.  The last part may be shorter.
//
// Exactly k ranges are returned.  If k is larger than numPages, the trailing
// ranges lie beyond the end of the document; they are invalid and are dropped
// by [Extract].
func EqualParts(numPages, k int) ([]PageRange, error) {
	if k < 1 {
		return nil, &ValidationError{
			Field:   "parts",
			Message: fmt.Sprintf("number of parts must be at least 1, got %d", k),
		}
	}

	perPart := (numPages + k - 1) / k
	res := make([]PageRange, k)
	for i := range res {
		res[i] = PageRange{
			From: i*perPart + 1,
			To:   min((i+1)*perPart, numPages),
		}
	}
	return res, nil
}

// SinglePages returns one single-page range for each of the given page
// numbers, in the given order.
func SinglePages(pages []int) []PageRange {
	res := make([]PageRange, len(pages))
	for i, p := range pages {
		res[i] = PageRange{From: p, To: p}
	}
	return res
}

// EachPage returns one single-page range for every page of a document with
// numPages pages.
func EachPage(numPages int) []PageRange {
	res := make([]PageRange, 0, numPages)
	for p := 1; p <= numPages; p++ {
		res = append(res, PageRange{From: p, To: p})
	}
	return res
}

// ParseRanges parses a comma-separated list of page ranges.
//
// Each element has one of the forms "n", "a-b", "a-" (from page a to the end
// of the document) or "-b" (from the first page to page b).  The number of
// pages numPages is used to resolve open ranges.  Elements are not checked
// against the document; this is left to [Extract].
func ParseRanges(list string, numPages int) ([]PageRange, error) {
	var res []PageRange
	for _, elem := range strings.Split(list, ",") {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			continue
		}
		r, err := parseRange(elem, numPages)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	if len(res) == 0 {
		return nil, &ValidationError{Field: "ranges", Message: "no page ranges given"}
	}
	return res, nil
}

func parseRange(elem string, numPages int) (PageRange, error) {
	from, to, isRange := strings.Cut(elem, "-")
	if !isRange {
		p, err := parsePageNumber(elem)
		if err != nil {
			return PageRange{}, err
		}
		return PageRange{From: p, To: p}, nil
	}

	r := PageRange{From: 1, To: numPages}
	var err error
	if from = strings.TrimSpace(from); from != "" {
		r.From, err = parsePageNumber(from)
		if err != nil {
			return PageRange{}, err
		}
	}
	if to = strings.TrimSpace(to); to != "" {
		r.To, err = parsePageNumber(to)
		if err != nil {
			return PageRange{}, err
		}
	}
	if from == "" && to == "" {
		return PageRange{}, &ValidationError{
			Field:   "ranges",
			Message: fmt.Sprintf("invalid page range %q", elem),
		}
	}
	return r, nil
}

func parsePageNumber(s string) (int, error) {
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{
			Field:   "ranges",
			Message: fmt.Sprintf("page number %q is not an integer", s),
		}
	}
	return p, nil
}
