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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"seehuhn.de/go/assemble"
	"seehuhn.de/go/assemble/thumbnail"
)

var errNoInput = errors.New("no input file given")

func (a *app) extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "write page ranges of a PDF file to new files",
		ArgsUsage: "file.pdf [range...]",
		Description: "Ranges have the form N, A-B, A- or -B and can be separated\n" +
			"by commas or given as separate arguments.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "output directory, or a `NAME`.zip archive",
			},
			&cli.IntFlag{
				Name:  "parts",
				Usage: "split the document into `K` parts of equal length",
			},
			&cli.BoolFlag{
				Name:  "each",
				Usage: "write every page to a separate file",
			},
			&cli.StringFlag{
				Name:  "pages",
				Usage: "write the selected pages to separate files, e.g. 2,5,7-9",
			},
			&cli.BoolFlag{
				Name:  "metadata",
				Usage: "copy author, subject and keywords to the new files",
			},
		},
		Action: a.extract,
	}
}

func (a *app) extract(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 1 {
		return errNoInput
	}

	src, err := assemble.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	opt := &assemble.ExtractOptions{
		PreserveMetadata: cmd.Bool("metadata"),
		Logger:           a.log.WithField("file", src.Name),
	}
	numPages := src.NumPages()

	var outputs []*assemble.Output
	switch {
	case cmd.IsSet("parts"):
		outputs, err = assemble.ExtractParts(src, cmd.Int("parts"), opt)
	case cmd.Bool("each"):
		outputs, err = assemble.Extract(src, assemble.EachPage(numPages), opt)
	case cmd.IsSet("pages"):
		var ranges []assemble.PageRange
		ranges, err = assemble.ParseRanges(cmd.String("pages"), numPages)
		if err != nil {
			return err
		}
		outputs, err = assemble.Extract(src, assemble.SinglePages(selectedPages(ranges, numPages)), opt)
	default:
		if len(args) < 2 {
			return errors.New("no page ranges given")
		}
		var ranges []assemble.PageRange
		ranges, err = assemble.ParseRanges(strings.Join(args[1:], ","), numPages)
		if err != nil {
			return err
		}
		outputs, err = assemble.Extract(src, ranges, opt)
	}
	if err != nil {
		return err
	}

	return a.writeOutputs(cmd.String("output"), outputs)
}

// selectedPages lists the pages covered by the valid ranges, in order of
// first appearance.
func selectedPages(ranges []assemble.PageRange, numPages int) []int {
	var res []int
	seen := make(map[int]bool)
	for _, r := range assemble.ValidRanges(ranges, numPages) {
		for p := r.From; p <= r.To; p++ {
			if !seen[p] {
				seen[p] = true
				res = append(res, p)
			}
		}
	}
	return res
}

func (a *app) mergeCommand() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "combine several PDF files into one",
		ArgsUsage: "a.pdf b.pdf ...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   assemble.MergedFileName,
				Usage:   "output `FILE`, or - for standard output",
			},
			&cli.BoolFlag{
				Name:  "bookmarks",
				Usage: "add a bookmark for every input file",
			},
			&cli.BoolFlag{
				Name:  "metadata",
				Usage: "copy title and author of the first input file",
			},
			&cli.BoolFlag{
				Name:  "interleave",
				Usage: "alternate pages between the input files",
			},
		},
		Action: a.merge,
	}
}

func (a *app) merge(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return &assemble.ValidationError{Field: "documents", Err: assemble.ErrTooFewDocuments}
	}

	var srcs []*assemble.Source
	defer func() {
		for _, src := range srcs {
			src.Close()
		}
	}()
	for _, fname := range args {
		src, err := assemble.OpenFile(fname)
		if err != nil {
			return err
		}
		srcs = append(srcs, src)
	}

	opt := &assemble.MergeOptions{
		AddBookmarks:     cmd.Bool("bookmarks"),
		PreserveMetadata: cmd.Bool("metadata"),
		Logger:           a.log,
	}
	if cmd.Bool("interleave") {
		opt.Mode = assemble.MergeInterleave
	}

	out, err := assemble.Merge(srcs, opt)
	if err != nil {
		return err
	}

	fname := cmd.String("output")
	err = a.writeFile(fname, out.Data)
	if err != nil {
		return err
	}
	a.log.WithField("file", fname).WithField("pages", out.NumPages).Info("written")
	return nil
}

func (a *app) thumbsCommand() *cli.Command {
	return &cli.Command{
		Name:      "thumbs",
		Usage:     "render page thumbnails as PNG files",
		ArgsUsage: "file.pdf",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "output `DIR`",
			},
			&cli.IntFlag{
				Name:  "max",
				Value: thumbnail.DefaultMaxPages,
				Usage: "maximum number of pages, 0 for all",
			},
			&cli.FloatFlag{
				Name:  "scale",
				Value: thumbnail.DefaultScale,
				Usage: "thumbnail size relative to the page size",
			},
			&cli.IntFlag{
				Name:  "max-width",
				Usage: "maximum thumbnail width in pixels, 0 for no limit",
			},
		},
		Action: a.thumbs,
	}
}

func (a *app) thumbs(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) != 1 {
		return errNoInput
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	tn := &thumbnail.Thumbnailer{
		Renderer: thumbnail.FitzRenderer{},
		Scale:    cmd.Float("scale"),
		MaxWidth: cmd.Int("max-width"),
		Logger:   a.log.WithField("file", filepath.Base(args[0])),
	}
	thumbs := tn.Thumbnails(data, cmd.Int("max"))

	dir := cmd.String("output")
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}
	placeholders := 0
	for _, th := range thumbs {
		if th.Placeholder {
			placeholders++
		}
		fname := filepath.Join(dir, fmt.Sprintf("page-%03d.png", th.PageNumber))
		err := a.writeFile(fname, th.PNG)
		if err != nil {
			return err
		}
	}
	fmt.Printf("%d thumbnails written to %s", len(thumbs), dir)
	if placeholders > 0 {
		fmt.Printf(" (%d placeholders)", placeholders)
	}
	fmt.Println()
	return nil
}

func (a *app) infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "show page count, metadata and page sizes",
		ArgsUsage: "file.pdf",
		Action:    a.info,
	}
}

func (a *app) info(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) != 1 {
		return errNoInput
	}
	src, err := assemble.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	fmt.Printf("file:     %s\n", src.Name)
	fmt.Printf("id:       %s\n", src.ID)
	fmt.Printf("version:  %s\n", src.Version())
	fmt.Printf("size:     %d bytes\n", src.Size)
	fmt.Printf("pages:    %d\n", src.NumPages())

	if m, err := src.Metadata(); err == nil {
		for _, field := range []struct{ key, val string }{
			{"title", m.Title},
			{"author", m.Author},
			{"subject", m.Subject},
			{"keywords", m.Keywords},
			{"creator", m.Creator},
			{"producer", m.Producer},
		} {
			if field.val != "" {
				fmt.Printf("%-9s %s\n", field.key+":", field.val)
			}
		}
	}

	pages, err := src.Pages()
	if err != nil {
		return err
	}
	fmt.Println()
	for _, p := range pages {
		fmt.Printf("page %4d: %7.1f x %7.1f", p.Number, p.Width(), p.Height())
		if p.Rotate != 0 {
			fmt.Printf("  (rotated %d)", p.Rotate)
		}
		fmt.Println()
	}
	return nil
}
