// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package source

import (
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
)

// State is the readiness of a source.
type State uint8

const (
	StateUndefined State = iota
	StateLoading
	StateReady
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "undefined"
	}
}

// Source is the part shared by every source.
type Source interface {
	State() State

	// Revision increases whenever the source content changes.
	Revision() int

	// WrapX reports whether the source repeats across the antimeridian.
	WrapX() bool

	// OnChange registers fn to run after every change.
	OnChange(fn func()) (unlisten func())
}

// VectorSource provides features.
type VectorSource interface {
	Source

	// Overlaps reports whether features may overlap, which prevents
	// merging of consecutive fills.
	Overlaps() bool

	// LoadFeatures requests the features covering extent. Loading may
	// complete later; a change notification follows.
	LoadFeatures(extent geom.Extent, resolution float64, proj *geom.Projection)

	// ForEachFeatureInExtent calls fn for every feature whose geometry
	// extent intersects extent, in source order, until fn returns false.
	ForEachFeatureInExtent(extent geom.Extent, fn func(*feature.Feature) bool)
}

// TileSource provides raster tiles on a grid.
type TileSource interface {
	Source

	Grid() *TileGrid

	// Gutter is the number of extra pixels on each tile side.
	Gutter() int

	// Tile returns the tile at c, creating it idle when needed.
	Tile(c TileCoord) *Tile
}

// emitter keeps change listeners in registration order.
type emitter struct {
	next      int
	listeners map[int]func()
	order     []int
}

func (e *emitter) add(fn func()) func() {
	if e.listeners == nil {
		e.listeners = make(map[int]func())
	}
	id := e.next
	e.next++
	e.listeners[id] = fn
	e.order = append(e.order, id)
	return func() { delete(e.listeners, id) }
}

func (e *emitter) emit() {
	order := e.order[:0]
	for _, id := range e.order {
		if _, ok := e.listeners[id]; ok {
			order = append(order, id)
		}
	}
	e.order = order
	for _, id := range append([]int(nil), order...) {
		if fn, ok := e.listeners[id]; ok {
			fn()
		}
	}
}
