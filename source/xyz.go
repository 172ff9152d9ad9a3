// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package source

import (
	"image"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/internal/lru"
)

// TileFunc produces the image of a tile. A nil image without error marks
// the tile empty.
type TileFunc func(c TileCoord) (image.Image, error)

// Dispatcher runs fn on the goroutine that renders frames.
type Dispatcher func(fn func())

// XYZ is a tile source backed by a TileFunc.
//
// Without a Dispatcher tiles load synchronously inside Tile.Load. With one,
// the TileFunc runs on its own goroutine and the result is applied through
// the Dispatcher.
type XYZ struct {
	fn       TileFunc
	grid     *TileGrid
	gutter   int
	wrapX    bool
	dispatch Dispatcher
	tiles    *lru.Cache[TileCoord, *Tile]
	revision int
	state    State
	changes  emitter
}

// XYZOption configures an XYZ source.
type XYZOption func(*XYZ)

// WithGrid replaces the default web mercator grid.
func WithGrid(g *TileGrid) XYZOption {
	return func(x *XYZ) { x.grid = g }
}

// WithGutter sets the per-side gutter of the tile images.
func WithGutter(px int) XYZOption {
	return func(x *XYZ) { x.gutter = px }
}

// WithTileWrapX sets whether columns wrap around the world.
func WithTileWrapX(wrap bool) XYZOption {
	return func(x *XYZ) { x.wrapX = wrap }
}

// WithDispatcher loads tiles asynchronously.
func WithDispatcher(d Dispatcher) XYZOption {
	return func(x *XYZ) { x.dispatch = d }
}

// WithTileCacheSize bounds the number of tile objects kept. Default 512.
func WithTileCacheSize(n int) XYZOption {
	return func(x *XYZ) { x.tiles = lru.New[TileCoord, *Tile](n) }
}

// NewXYZ creates a ready tile source.
func NewXYZ(fn TileFunc, opts ...XYZOption) *XYZ {
	x := &XYZ{
		fn:    fn,
		wrapX: true,
		state: StateReady,
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.grid == nil {
		x.grid = NewXYZGrid(geom.WebMercator().Extent, 22, 256)
	}
	if x.tiles == nil {
		x.tiles = lru.New[TileCoord, *Tile](512)
	}
	return x
}

func (x *XYZ) State() State              { return x.state }
func (x *XYZ) Revision() int             { return x.revision }
func (x *XYZ) WrapX() bool               { return x.wrapX }
func (x *XYZ) Grid() *TileGrid           { return x.grid }
func (x *XYZ) Gutter() int               { return x.gutter }
func (x *XYZ) OnChange(fn func()) func() { return x.changes.add(fn) }

// Changed increments the revision and notifies listeners.
func (x *XYZ) Changed() {
	x.revision++
	x.changes.emit()
}

// Tile returns the tile at c. Columns are wrapped when the source wraps.
func (x *XYZ) Tile(c TileCoord) *Tile {
	if x.wrapX {
		c = x.grid.WrapX(c)
	}
	if t, ok := x.tiles.Get(c); ok {
		return t
	}
	t := NewTile(c, x.load)
	x.tiles.Set(c, t)
	return t
}

func (x *XYZ) load(t *Tile) {
	if x.dispatch == nil {
		img, err := x.fn(t.Coord)
		x.resolve(t, img, err)
		return
	}
	go func() {
		img, err := x.fn(t.Coord)
		x.dispatch(func() { x.resolve(t, img, err) })
	}()
}

func (x *XYZ) resolve(t *Tile, img image.Image, err error) {
	if err != nil {
		ggmap.Logger().Warn("source: tile load failed", "tile", t.Key(), "err", err)
	}
	t.Resolve(img, err)
	x.Changed()
}
