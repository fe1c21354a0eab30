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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"seehuhn.de/go/assemble/internal/testpdf"
	"seehuhn.de/go/pdf"
)

// openFixture generates a test file and opens it.
func openFixture(t *testing.T, name string, opt *testpdf.Options) *Source {
	t.Helper()
	data := testpdf.MustMake(t, opt)
	src, err := Open(name, data)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

// pageWidths returns the widths of all pages of a PDF file.
func pageWidths(t *testing.T, data []byte) []float64 {
	t.Helper()
	src, err := Open("output.pdf", data)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	pages, err := src.Pages()
	if err != nil {
		t.Fatal(err)
	}
	res := make([]float64, len(pages))
	for i, p := range pages {
		res[i] = p.Width()
	}
	return res
}

// widths lists the page widths of a range of pages in a test file.
func widths(tag int, r PageRange) []float64 {
	var res []float64
	for pageNo := r.From; pageNo <= r.To; pageNo++ {
		res = append(res, testpdf.PageWidth(tag, pageNo))
	}
	return res
}

func readMetadata(t *testing.T, data []byte) *Metadata {
	t.Helper()
	src, err := Open("output.pdf", data)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	m, err := src.Metadata()
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestExtractExample(t *testing.T) {
	src := openFixture(t, "report.pdf", &testpdf.Options{NumPages: 10, Tag: 1})

	ranges := []PageRange{{1, 3}, {8, 12}, {5, 2}}
	outputs, err := Extract(src, ranges, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 1 {
		t.Fatalf("expected 1 output, got %d", len(outputs))
	}

	out := outputs[0]
	if out.NumPages != 3 || out.Name != "report_pages_1-3.pdf" {
		t.Errorf("unexpected output %q with %d pages", out.Name, out.NumPages)
	}
	if d := cmp.Diff(widths(1, PageRange{1, 3}), pageWidths(t, out.Data)); d != "" {
		t.Errorf("wrong pages (-want +got):\n%s", d)
	}

	m := readMetadata(t, out.Data)
	if m.Title != "report - Pages 1-3" {
		t.Errorf("wrong title %q", m.Title)
	}
	if m.Creator != CreatorExtract || m.Producer != Producer {
		t.Errorf("wrong creator/producer %q/%q", m.Creator, m.Producer)
	}
}

func TestExtractRanges(t *testing.T) {
	src := openFixture(t, "book.pdf", &testpdf.Options{NumPages: 12, Tag: 3})

	ranges := []PageRange{{7, 12}, {0, 2}, {2, 2}, {1, 13}, {3, 5}}
	outputs, err := Extract(src, ranges, nil)
	if err != nil {
		t.Fatal(err)
	}

	valid := ValidRanges(ranges, src.NumPages())
	if len(outputs) != len(valid) {
		t.Fatalf("expected %d outputs, got %d", len(valid), len(outputs))
	}
	for i, r := range valid {
		if outputs[i].Range != r {
			t.Errorf("output %d: got range %v, want %v", i, outputs[i].Range, r)
		}
		if d := cmp.Diff(widths(3, r), pageWidths(t, outputs[i].Data)); d != "" {
			t.Errorf("output %d: wrong pages (-want +got):\n%s", i, d)
		}
	}
}

func TestExtractNoValidRanges(t *testing.T) {
	src := openFixture(t, "short.pdf", &testpdf.Options{NumPages: 4})

	_, err := Extract(src, []PageRange{{5, 6}, {3, 1}, {0, 0}}, nil)
	var nErr *NoValidRangesError
	if !errors.As(err, &nErr) {
		t.Fatalf("expected NoValidRangesError, got %v", err)
	}
	if nErr.NumPages != 4 {
		t.Errorf("wrong page count %d", nErr.NumPages)
	}
	if got := err.Error(); got != "no valid page ranges found, document has 4 pages" {
		t.Errorf("wrong message %q", got)
	}

	_, err = Extract(src, nil, nil)
	if !errors.As(err, &nErr) {
		t.Errorf("expected NoValidRangesError, got %v", err)
	}
}

func TestExtractAbortsOnBrokenPage(t *testing.T) {
	src := openFixture(t, "damaged.pdf", &testpdf.Options{NumPages: 5, BrokenPage: 5})

	outputs, err := Extract(src, []PageRange{{1, 1}, {5, 5}, {2, 3}}, nil)
	var rErr *RangeError
	if !errors.As(err, &rErr) {
		t.Fatalf("expected RangeError, got %v", err)
	}
	if rErr.Range != (PageRange{5, 5}) {
		t.Errorf("wrong range %v", rErr.Range)
	}
	if outputs != nil {
		t.Errorf("expected no outputs, got %d", len(outputs))
	}

	// the intact pages can still be extracted
	outputs, err = Extract(src, []PageRange{{1, 3}, {4, 4}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 2 {
		t.Errorf("expected 2 outputs, got %d", len(outputs))
	}
}

func TestExtractRepeatable(t *testing.T) {
	src := openFixture(t, "same.pdf", &testpdf.Options{NumPages: 6, Tag: 7})

	ranges := []PageRange{{2, 4}}
	first, err := Extract(src, ranges, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Extract(src, ranges, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected one output per run, got %d and %d", len(first), len(second))
	}
	if first[0].NumPages != second[0].NumPages {
		t.Errorf("page counts differ: %d vs %d", first[0].NumPages, second[0].NumPages)
	}
	w1 := pageWidths(t, first[0].Data)
	w2 := pageWidths(t, second[0].Data)
	if d := cmp.Diff(w1, w2); d != "" {
		t.Errorf("page order differs between runs (-first +second):\n%s", d)
	}
	if d := cmp.Diff(widths(7, PageRange{2, 4}), w1); d != "" {
		t.Errorf("wrong pages (-want +got):\n%s", d)
	}
}

func TestExtractParts(t *testing.T) {
	src := openFixture(t, "parts.pdf", &testpdf.Options{NumPages: 10, Tag: 2})

	outputs, err := ExtractParts(src, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	var got []int
	for _, out := range outputs {
		got = append(got, out.NumPages)
	}
	if d := cmp.Diff([]int{4, 4, 2}, got); d != "" {
		t.Errorf("wrong part sizes (-want +got):\n%s", d)
	}

	var all []float64
	for _, out := range outputs {
		all = append(all, pageWidths(t, out.Data)...)
	}
	if d := cmp.Diff(widths(2, PageRange{1, 10}), all); d != "" {
		t.Errorf("parts do not cover the document (-want +got):\n%s", d)
	}

	outputs, err = ExtractParts(src, 25, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 10 {
		t.Errorf("expected 10 single-page outputs, got %d", len(outputs))
	}

	_, err = ExtractParts(src, 0, nil)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestExtractPreserveMetadata(t *testing.T) {
	info := &pdf.Info{
		Title:    "Annual Report",
		Author:   "A. Writer",
		Subject:  "Finances",
		Keywords: "money, numbers",
	}
	src := openFixture(t, "annual.pdf", &testpdf.Options{NumPages: 3, Info: info})

	opt := &ExtractOptions{PreserveMetadata: true}
	outputs, err := Extract(src, []PageRange{{2, 3}}, opt)
	if err != nil {
		t.Fatal(err)
	}
	got := readMetadata(t, outputs[0].Data)
	want := &Metadata{
		Title:    "annual - Pages 2-3",
		Author:   "A. Writer",
		Subject:  "Finances",
		Keywords: "money, numbers",
		Creator:  CreatorExtract,
		Producer: Producer,
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("wrong metadata (-want +got):\n%s", d)
	}

	outputs, err = Extract(src, []PageRange{{2, 3}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := readMetadata(t, outputs[0].Data); got.Author != "" {
		t.Errorf("author %q copied without PreserveMetadata", got.Author)
	}
}

func TestExtractLogsSkippedRanges(t *testing.T) {
	src := openFixture(t, "log.pdf", &testpdf.Options{NumPages: 5})

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	_, err := Extract(src, []PageRange{{1, 2}, {4, 9}}, &ExtractOptions{Logger: logger})
	if err != nil {
		t.Fatal(err)
	}

	skipped := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "skipping invalid page range" {
			skipped++
			if e.Data["range"] != (PageRange{4, 9}) {
				t.Errorf("wrong range logged: %v", e.Data["range"])
			}
		}
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped range, got %d", skipped)
	}
}

func TestExtractPages(t *testing.T) {
	data := testpdf.MustMake(t, &testpdf.Options{NumPages: 6, Tag: 4})
	orig := bytes.Clone(data)

	res, err := ExtractPages(data, []PageRange{{6, 6}, {1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Fatalf("expected 2 files, got %d", len(res))
	}
	if d := cmp.Diff(widths(4, PageRange{6, 6}), pageWidths(t, res[0])); d != "" {
		t.Errorf("wrong pages (-want +got):\n%s", d)
	}
	if d := cmp.Diff(widths(4, PageRange{1, 2}), pageWidths(t, res[1])); d != "" {
		t.Errorf("wrong pages (-want +got):\n%s", d)
	}

	if !bytes.Equal(data, orig) {
		t.Error("input was modified")
	}
}

func TestExtractPagesMalformed(t *testing.T) {
	_, err := ExtractPages([]byte("this is not a PDF file"), []PageRange{{1, 1}})
	var pErr *ParseError
	if !errors.As(err, &pErr) {
		t.Errorf("expected ParseError, got %v", err)
	}
}

func TestRangeError(t *testing.T) {
	cause := errors.New("broken page")
	err := error(&RangeError{Range: PageRange{2, 4}, Err: cause})
	if !errors.Is(err, cause) {
		t.Error("RangeError does not unwrap")
	}
	if got := err.Error(); got != "failed to extract pages 2-4: broken page" {
		t.Errorf("wrong message %q", got)
	}
}
