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
	"errors"
	"strconv"
)

// ErrTooFewDocuments is reported (wrapped in a [ValidationError]) when a
// merge is requested for fewer than two documents.
var ErrTooFewDocuments = errors.New("at least 2 PDF files are required for merging")

// errNoInfo is returned by [Source.Metadata] if the file has no document
// information dictionary.
var errNoInfo = errors.New("no document information dictionary")

// ValidationError indicates that the arguments of an operation were
// rejected before any processing started.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (err *ValidationError) Error() string {
	msg := err.Message
	if msg == "" && err.Err != nil {
		msg = err.Err.Error()
	}
	if err.Field != "" {
		return "invalid " + err.Field + ": " + msg
	}
	return msg
}

func (err *ValidationError) Unwrap() error {
	return err.Err
}

// NoValidRangesError is returned by [Extract] if none of the requested page
// ranges fits the document.  NumPages is the actual page count, so that the
// caller can show it to the user.
type NoValidRangesError struct {
	NumPages int
}

func (err *NoValidRangesError) Error() string {
	return "no valid page ranges found, document has " +
		strconv.Itoa(err.NumPages) + " pages"
}

// ParseError indicates that an input file could not be read as a PDF file.
type ParseError struct {
	Name string
	Err  error
}

func (err *ParseError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	return "failed to process " + strconv.Quote(err.Name) + middle
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

// RangeError indicates that the pages of one range could not be copied.
// The extraction is aborted when this happens.
type RangeError struct {
	Range PageRange
	Err   error
}

func (err *RangeError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	return "failed to extract " + err.Range.String() + middle
}

func (err *RangeError) Unwrap() error {
	return err.Err
}
