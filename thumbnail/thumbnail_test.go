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

package thumbnail

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"seehuhn.de/go/assemble/internal/testpdf"
)

// fakeRenderer produces blank pages of 100x150 PDF units.
type fakeRenderer struct {
	numPages int
	openErr  error
	fail     map[int]error // 1-based page numbers
	panicOn  int
	renders  int
	closed   int
}

func (r *fakeRenderer) Open(data []byte) (Document, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	return &fakeDocument{r: r}, nil
}

type fakeDocument struct {
	r *fakeRenderer
}

func (d *fakeDocument) NumPages() int {
	return d.r.numPages
}

func (d *fakeDocument) RenderPage(pageNo int, scale float64) (image.Image, error) {
	if pageNo+1 == d.r.panicOn {
		panic("corrupt page")
	}
	if err := d.r.fail[pageNo+1]; err != nil {
		return nil, err
	}
	d.r.renders++
	w := int(math.Round(100 * scale))
	h := int(math.Round(150 * scale))
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

func (d *fakeDocument) Close() error {
	d.r.closed++
	return nil
}

func pageNumbers(thumbs []*Thumbnail) []int {
	res := make([]int, len(thumbs))
	for i, th := range thumbs {
		res[i] = th.PageNumber
	}
	return res
}

func TestThumbnails(t *testing.T) {
	r := &fakeRenderer{numPages: 4}
	tn := &Thumbnailer{Renderer: r}

	thumbs := tn.Thumbnails([]byte("data"), 0)
	if d := cmp.Diff([]int{1, 2, 3, 4}, pageNumbers(thumbs)); d != "" {
		t.Errorf("wrong pages (-want +got):\n%s", d)
	}
	for _, th := range thumbs {
		if th.Placeholder {
			t.Errorf("page %d: unexpected placeholder", th.PageNumber)
		}
		if th.Width != 50 || th.Height != 75 {
			t.Errorf("page %d: wrong size %dx%d", th.PageNumber, th.Width, th.Height)
		}
		img, err := png.Decode(bytes.NewReader(th.PNG))
		if err != nil {
			t.Fatal(err)
		}
		if img.Bounds().Dx() != th.Width || img.Bounds().Dy() != th.Height {
			t.Errorf("page %d: PNG size does not match", th.PageNumber)
		}
	}
	if r.closed != 1 {
		t.Errorf("document closed %d times", r.closed)
	}
}

func TestThumbnailsPageFailure(t *testing.T) {
	r := &fakeRenderer{
		numPages: 5,
		fail:     map[int]error{3: errors.New("unsupported image filter")},
	}
	logger, hook := logtest.NewNullLogger()
	tn := &Thumbnailer{Renderer: r, Logger: logger}

	thumbs := tn.Thumbnails(nil, 0)
	if d := cmp.Diff([]int{1, 2, 3, 4, 5}, pageNumbers(thumbs)); d != "" {
		t.Fatalf("wrong pages (-want +got):\n%s", d)
	}
	for _, th := range thumbs {
		if th.Placeholder != (th.PageNumber == 3) {
			t.Errorf("page %d: Placeholder=%t", th.PageNumber, th.Placeholder)
		}
	}
	if th := thumbs[2]; th.Width != PlaceholderWidth || th.Height != PlaceholderHeight {
		t.Errorf("wrong placeholder size %dx%d", th.Width, th.Height)
	}

	entries := hook.AllEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if e := entries[0]; e.Level != logrus.WarnLevel || e.Data["page"] != 3 {
		t.Errorf("unexpected log entry %v %v", e.Level, e.Data)
	}
}

func TestThumbnailsPanic(t *testing.T) {
	r := &fakeRenderer{numPages: 3, panicOn: 2}
	logger, hook := logtest.NewNullLogger()
	tn := &Thumbnailer{Renderer: r, Logger: logger}

	thumbs := tn.Thumbnails(nil, 0)
	if len(thumbs) != 3 {
		t.Fatalf("expected 3 thumbnails, got %d", len(thumbs))
	}
	if !thumbs[1].Placeholder || thumbs[0].Placeholder || thumbs[2].Placeholder {
		t.Error("panicking page not replaced by a placeholder")
	}
	if len(hook.AllEntries()) != 1 {
		t.Errorf("expected 1 log entry, got %d", len(hook.AllEntries()))
	}
}

func TestThumbnailsMaxPages(t *testing.T) {
	r := &fakeRenderer{numPages: 30}
	tn := &Thumbnailer{Renderer: r}

	if n := len(tn.Thumbnails(nil, DefaultMaxPages)); n != 20 {
		t.Errorf("expected 20 thumbnails, got %d", n)
	}
	if n := len(tn.Thumbnails(nil, 0)); n != 30 {
		t.Errorf("expected 30 thumbnails, got %d", n)
	}
	if n := len(tn.Thumbnails(nil, 50)); n != 30 {
		t.Errorf("expected 30 thumbnails, got %d", n)
	}
}

func TestThumbnailsOpenFailure(t *testing.T) {
	r := &fakeRenderer{openErr: errors.New("not a PDF file")}
	logger, hook := logtest.NewNullLogger()
	tn := &Thumbnailer{Renderer: r, Logger: logger}

	data := make([]byte, 175_000)
	thumbs := tn.Thumbnails(data, 0)
	if d := cmp.Diff([]int{1, 2, 3}, pageNumbers(thumbs)); d != "" {
		t.Errorf("wrong pages (-want +got):\n%s", d)
	}
	for _, th := range thumbs {
		if !th.Placeholder {
			t.Errorf("page %d: expected placeholder", th.PageNumber)
		}
	}
	if e := hook.LastEntry(); e == nil || e.Level != logrus.WarnLevel {
		t.Errorf("expected a warning, got %v", e)
	}

	if n := len(tn.Thumbnails(data, 2)); n != 2 {
		t.Errorf("expected 2 thumbnails, got %d", n)
	}

	tn = &Thumbnailer{}
	if n := len(tn.Thumbnails(data, 0)); n != 3 {
		t.Errorf("expected 3 thumbnails without renderer, got %d", n)
	}
}

func TestEstimatePages(t *testing.T) {
	type testCase struct {
		size, want int
	}
	cases := []testCase{
		{0, 1},
		{49_999, 1},
		{100_000, 2},
		{175_000, 3},
		{2_500_000, 50},
		{100_000_000, 50},
	}
	for _, c := range cases {
		if got := EstimatePages(c.size); got != c.want {
			t.Errorf("%d bytes: got %d, want %d", c.size, got, c.want)
		}
	}
}

func TestThumbnailsMaxWidth(t *testing.T) {
	r := &fakeRenderer{numPages: 1}
	tn := &Thumbnailer{Renderer: r, Scale: 4, MaxWidth: 100}

	thumbs := tn.Thumbnails(nil, 0)
	if th := thumbs[0]; th.Width != 100 || th.Height != 150 {
		t.Errorf("wrong size %dx%d", th.Width, th.Height)
	}

	tn.MaxWidth = 1000
	thumbs = tn.Thumbnails(nil, 0)
	if th := thumbs[0]; th.Width != 400 || th.Height != 600 {
		t.Errorf("wrong size %dx%d", th.Width, th.Height)
	}
}

func TestThumbnailsCache(t *testing.T) {
	r := &fakeRenderer{
		numPages: 3,
		fail:     map[int]error{2: errors.New("broken")},
	}
	cache := &Cache{}
	tn := &Thumbnailer{Renderer: r, Cache: cache}
	data := []byte("document contents")

	first := tn.Thumbnails(data, 0)
	if r.renders != 2 {
		t.Fatalf("expected 2 renders, got %d", r.renders)
	}
	if cache.Len() != 2 {
		t.Errorf("expected 2 cached pages, got %d", cache.Len())
	}

	second := tn.Thumbnails(data, 0)
	if r.renders != 2 {
		t.Errorf("cached pages were rendered again")
	}
	if d := cmp.Diff(first, second); d != "" {
		t.Errorf("cached thumbnails differ (-first +second):\n%s", d)
	}

	tn.Thumbnails([]byte("other contents"), 0)
	if r.renders != 4 {
		t.Errorf("expected 4 renders, got %d", r.renders)
	}
}

func TestThumbnailsSharedCache(t *testing.T) {
	r := &fakeRenderer{numPages: 2}
	cache := &Cache{}
	data := []byte("shared document")

	small := &Thumbnailer{Renderer: r, Scale: 0.2, Cache: cache}
	large := &Thumbnailer{Renderer: r, Scale: 1, Cache: cache}
	limited := &Thumbnailer{Renderer: r, Scale: 1, MaxWidth: 50, Cache: cache}

	type size struct{ W, H int }
	sizes := func(thumbs []*Thumbnail) []size {
		var res []size
		for _, th := range thumbs {
			res = append(res, size{th.Width, th.Height})
		}
		return res
	}

	for round := range 2 {
		if d := cmp.Diff([]size{{20, 30}, {20, 30}}, sizes(small.Thumbnails(data, 0))); d != "" {
			t.Errorf("round %d: scale 0.2 (-want +got):\n%s", round, d)
		}
		if d := cmp.Diff([]size{{100, 150}, {100, 150}}, sizes(large.Thumbnails(data, 0))); d != "" {
			t.Errorf("round %d: scale 1 (-want +got):\n%s", round, d)
		}
		if d := cmp.Diff([]size{{50, 75}, {50, 75}}, sizes(limited.Thumbnails(data, 0))); d != "" {
			t.Errorf("round %d: max width 50 (-want +got):\n%s", round, d)
		}
	}

	if r.renders != 6 {
		t.Errorf("expected 6 renders, got %d", r.renders)
	}
	if cache.Len() != 6 {
		t.Errorf("expected 6 cached pages, got %d", cache.Len())
	}
}

func TestPlaceholderImage(t *testing.T) {
	img := placeholderImage(3, 7)
	if b := img.Bounds(); b.Dx() != PlaceholderWidth || b.Dy() != PlaceholderHeight {
		t.Fatalf("wrong size %v", b)
	}
	if c := img.RGBAAt(0, 0); c != placeholderBorder {
		t.Errorf("wrong border color %v", c)
	}
	if c := img.RGBAAt(10, 10); c != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("wrong background color %v", c)
	}
	if c := img.RGBAAt(50, 30); c != placeholderLines {
		t.Errorf("wrong line color %v", c)
	}

	// the label is drawn around the vertical center
	found := false
	for y := PlaceholderHeight/2 - 12; y < PlaceholderHeight/2+4 && !found; y++ {
		for x := 0; x < PlaceholderWidth; x++ {
			if img.RGBAAt(x, y) == placeholderText {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no label found")
	}
}

func TestFitzRenderer(t *testing.T) {
	data := testpdf.MustMake(t, &testpdf.Options{NumPages: 3, Tag: 2})

	thumbs := GetThumbnails(data, 2)
	if len(thumbs) != 2 {
		t.Fatalf("expected 2 thumbnails, got %d", len(thumbs))
	}
	if thumbs[0].Placeholder {
		t.Skip("MuPDF cannot render the test file")
	}
	for _, th := range thumbs {
		want := testpdf.PageWidth(2, th.PageNumber) * DefaultScale
		if math.Abs(float64(th.Width)-want) > 1 {
			t.Errorf("page %d: width %d, want %g", th.PageNumber, th.Width, want)
		}
	}
}
