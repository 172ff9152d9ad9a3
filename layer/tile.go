// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import "github.com/gogpu/ggmap/source"

// Tile is a layer of raster tiles.
type Tile struct {
	Base
	source source.TileSource
}

// NewTile creates a tile layer over src.
func NewTile(src source.TileSource, opts ...Option) *Tile {
	t := &Tile{Base: newBase(opts), source: src}
	if src != nil {
		src.OnChange(t.emit)
	}
	return t
}

func (t *Tile) Type() Type { return TypeTile }

// Source returns the tile source.
func (t *Tile) Source() source.TileSource { return t.source }

// Revision combines the layer and source revisions.
func (t *Tile) Revision() int {
	r := t.Base.Revision()
	if t.source != nil {
		r += t.source.Revision()
	}
	return r
}

// State returns the layer snapshot.
func (t *Tile) State() State {
	return t.state(t, t.source)
}
