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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"golang.org/x/term"

	"seehuhn.de/go/assemble"
)

var errTerminal = errors.New("refusing to write binary output to a terminal")

// create opens an output file.  The name "-" denotes standard output.
// Existing files are only overwritten if the -f flag is given.
func (a *app) create(fname string) (io.WriteCloser, error) {
	if fname == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errTerminal
		}
		return nopCloser{os.Stdout}, nil
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !a.force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(fname, flags, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("output file %q already exists (use -f to overwrite)", fname)
	}
	return f, err
}

func (a *app) writeFile(fname string, data []byte) error {
	w, err := a.create(fname)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// writeOutputs stores generated PDF files.  If dest ends in ".zip", or is
// "-", a zip archive is written; otherwise dest is a directory.
func (a *app) writeOutputs(dest string, outputs []*assemble.Output) error {
	err := checkNames(outputs)
	if err != nil {
		return err
	}

	if dest == "-" || strings.EqualFold(filepath.Ext(dest), ".zip") {
		return a.writeZip(dest, outputs)
	}

	err = os.MkdirAll(dest, 0o755)
	if err != nil {
		return err
	}
	for _, out := range outputs {
		fname := filepath.Join(dest, out.Name)
		err := a.writeFile(fname, out.Data)
		if err != nil {
			return err
		}
		a.log.WithField("file", fname).WithField("pages", out.NumPages).Info("written")
	}
	return nil
}

// checkNames makes sure that no two outputs would be written to the same
// file.  This happens when a page range is given more than once.
func checkNames(outputs []*assemble.Output) error {
	seen := make(map[string]assemble.PageRange, len(outputs))
	for _, out := range outputs {
		if r, ok := seen[out.Name]; ok {
			return &assemble.ValidationError{
				Field:   "ranges",
				Message: fmt.Sprintf("%s and %s both map to %q", r, out.Range, out.Name),
			}
		}
		seen[out.Name] = out.Range
	}
	return nil
}

// writeZip writes all outputs into one zip archive.  If an error occurs,
// the incomplete archive is removed.
func (a *app) writeZip(dest string, outputs []*assemble.Output) error {
	w, err := a.create(dest)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	err = addEntries(zw, outputs, time.Now())
	if err == nil {
		err = zw.Close()
	} else {
		zw.Close()
	}
	closeErr := w.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		if dest != "-" {
			os.Remove(dest)
		}
		return err
	}

	a.log.WithField("file", dest).WithField("entries", len(outputs)).Info("written")
	return nil
}

func addEntries(zw *zip.Writer, outputs []*assemble.Output, now time.Time) error {
	for _, out := range outputs {
		hdr := &zip.FileHeader{
			Name:     out.Name,
			Method:   zip.Deflate,
			Modified: now,
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("%s: %w", out.Name, err)
		}
		_, err = fw.Write(out.Data)
		if err != nil {
			return fmt.Errorf("%s: %w", out.Name, err)
		}
	}
	return nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
