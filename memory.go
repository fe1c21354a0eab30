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

import "strconv"

// ExtractPages extracts page ranges from a PDF file held in memory.
// It returns one PDF file for every valid range, see [Extract].
func ExtractPages(data []byte, ranges []PageRange) ([][]byte, error) {
	src, err := Open("document", data)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	outputs, err := Extract(src, ranges, nil)
	if err != nil {
		return nil, err
	}
	res := make([][]byte, len(outputs))
	for i, out := range outputs {
		res[i] = out.Data
	}
	return res, nil
}

// MergeDocuments merges PDF files held in memory, see [Merge].
// In error messages, the inputs are called "document 1", "document 2", ...
func MergeDocuments(data [][]byte, opt *MergeOptions) ([]byte, error) {
	if len(data) < 2 {
		return nil, &ValidationError{Field: "documents", Err: ErrTooFewDocuments}
	}

	srcs := make([]*Source, 0, len(data))
	defer func() {
		for _, src := range srcs {
			src.Close()
		}
	}()
	for i, d := range data {
		src, err := Open("document "+strconv.Itoa(i+1), d)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, src)
	}

	out, err := Merge(srcs, opt)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}
