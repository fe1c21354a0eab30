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
	"fmt"
	"maps"
	"time"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/outline"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/xmp"
)

// minVersion is the lowest PDF version we write.  XMP metadata streams
// require PDF 1.4.
const minVersion = pdf.V1_4

// A builder writes a new PDF file into memory.  Pages are copied from one or
// more sources and appended to the page tree in order.
type builder struct {
	buf  *bytes.Buffer
	out  *pdf.Writer
	rm   *pdf.ResourceManager
	tree *pagetree.Writer

	copiers  map[*Source]*pdf.Copier
	numPages int
}

func newBuilder(v pdf.Version) (*builder, error) {
	v = max(v, minVersion)

	buf := &bytes.Buffer{}
	out, err := pdf.NewWriter(buf, v, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF writer: %w", err)
	}
	rm := pdf.NewResourceManager(out)

	b := &builder{
		buf:     buf,
		out:     out,
		rm:      rm,
		tree:    pagetree.NewWriter(out, rm),
		copiers: make(map[*Source]*pdf.Copier),
	}
	return b, nil
}

// AppendPage copies the page with 0-based index pageNo from src to the end
// of the new file.  The reference of the new page object is returned.
func (b *builder) AppendPage(src *Source, pageNo int) (pdf.Reference, error) {
	copier := b.copiers[src]
	if copier == nil {
		copier = pdf.NewCopier(b.out, src.r)
		b.copiers[src] = copier
	}

	refIn, pageIn, err := pagetree.GetPage(src.r, pageNo)
	if err != nil {
		return 0, fmt.Errorf("failed to get page %d: %w", pageNo+1, err)
	}

	// Annotations may refer to pages which are not copied, and the parent
	// node is replaced by the new page tree.
	pageIn = maps.Clone(pageIn)
	delete(pageIn, "Annots")
	delete(pageIn, "Parent")

	pageOut, err := copier.CopyDict(pageIn)
	if err != nil {
		return 0, fmt.Errorf("failed to copy page %d: %w", pageNo+1, err)
	}

	refOut := b.out.Alloc()
	if refIn != 0 {
		copier.Redirect(refIn, refOut)
	}

	err = b.tree.AppendPageDict(refOut, pageOut)
	if err != nil {
		return 0, fmt.Errorf("failed to append page %d: %w", pageNo+1, err)
	}
	b.numPages++

	return refOut, nil
}

// AppendRange copies the pages of r from src, in order.
func (b *builder) AppendRange(src *Source, r PageRange) error {
	for pageNo := r.From - 1; pageNo < r.To; pageNo++ {
		_, err := b.AppendPage(src, pageNo)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteOutline writes the document outline and installs it in the catalog.
// This must be called before Finish.
func (b *builder) WriteOutline(o *outline.Outline) error {
	return o.Write(b.rm)
}

// Finish completes the file and returns its contents.
// The builder cannot be used after Finish has been called.
func (b *builder) Finish(m *Metadata, now time.Time) ([]byte, error) {
	treeRef, err := b.tree.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to close page tree: %w", err)
	}

	err = b.writeMetadataStream(m.xmpPacket(now))
	if err != nil {
		return nil, fmt.Errorf("failed to write XMP metadata: %w", err)
	}

	err = b.rm.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to close resource manager: %w", err)
	}

	meta := b.out.GetMeta()
	meta.Catalog.Pages = treeRef
	meta.Info = m.infoDict(now)

	err = b.out.Close()
	if err != nil {
		return nil, err
	}
	return b.buf.Bytes(), nil
}

func (b *builder) writeMetadataStream(packet *xmp.Packet) error {
	ref := b.out.Alloc()
	dict := pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}
	stm, err := b.out.OpenStream(ref, dict)
	if err != nil {
		return err
	}
	err = packet.Write(stm, nil)
	if err != nil {
		return err
	}
	err = stm.Close()
	if err != nil {
		return err
	}

	b.out.GetMeta().Catalog.Metadata = ref
	return nil
}
