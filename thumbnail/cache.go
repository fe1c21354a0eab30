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
	"sync"

	"github.com/google/uuid"
)

// A Key identifies a cached thumbnail.  Thumbnails of the same page
// rendered with different settings are stored under different keys.
type Key struct {
	// Doc is the identity of the document, see [seehuhn.de/go/assemble.DocumentID].
	Doc uuid.UUID

	// Page is the 1-based page number.
	Page int

	// Scale and MaxWidth are the rendering settings, see [Thumbnailer].
	Scale    float64
	MaxWidth int
}

// Cache stores rendered thumbnails.  Placeholders are never cached.
// A Cache is safe for concurrent use, and can be shared between
// Thumbnailers with different settings.  The zero value is an empty cache.
//
// Get and Put copy the Thumbnail struct, but not the PNG data.  The PNG
// slice of a cached thumbnail must not be modified.
type Cache struct {
	mu    sync.Mutex
	pages map[Key]Thumbnail
}

// Get returns the cached thumbnail for the given key, if any.
func (c *Cache) Get(key Key) (*Thumbnail, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	th, ok := c.pages[key]
	if !ok {
		return nil, false
	}
	return &th, true
}

// Put stores a thumbnail.  Placeholders are ignored.
func (c *Cache) Put(key Key, th *Thumbnail) {
	if th == nil || th.Placeholder {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pages == nil {
		c.pages = make(map[Key]Thumbnail)
	}
	c.pages[key] = *th
}

// Drop removes all thumbnails of a document from the cache.
func (c *Cache) Drop(doc uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.pages {
		if key.Doc == doc {
			delete(c.pages, key)
		}
	}
}

// Len returns the number of cached thumbnails.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.pages)
}
