// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"github.com/google/uuid"

	"github.com/gogpu/ggmap/frame"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/layer"
	"github.com/gogpu/ggmap/source"
	"github.com/gogpu/ggmap/surface"
	"github.com/gogpu/ggmap/tiletex"
)

// textureSurface is a surface drawing tile textures. surface.GPU
// implements it.
type textureSurface interface {
	surface.Surface
	Loader() *tiletex.Loader
	DrawTexture(e tiletex.Entry, tr geom.Transform) bool
	OnContextLost(fn func()) (unlisten func())
}

// renderedTile is a texture placed at a possibly wrapped tile position.
type renderedTile struct {
	coord source.TileCoord
	entry tiletex.Entry
}

// TileLayer renders a tile layer from the texture cache of its GPU
// surface. Missing textures of loaded tiles are queued; the queue drains
// one texture per frame after composition.
type TileLayer struct {
	id            string
	layer         *layer.Tile
	requestRender func()

	surface      textureSurface
	unlistenLoss func()
	tiles        []renderedTile
	z            int
}

// NewTileLayer creates the renderer of l. requestRender is called after a
// texture upload so the new tile gets drawn.
func NewTileLayer(l *layer.Tile, requestRender func()) *TileLayer {
	return &TileLayer{
		id:            uuid.NewString(),
		layer:         l,
		requestRender: requestRender,
	}
}

func tileFactory(l layer.Layer, m *Map) LayerRenderer {
	t, ok := l.(*layer.Tile)
	if !ok {
		return nil
	}
	return NewTileLayer(t, m.RequestRender)
}

func (r *TileLayer) ID() string                { return r.id }
func (r *TileLayer) SurfaceKind() surface.Kind { return surface.KindGPU }
func (r *TileLayer) Layer() layer.Layer        { return r.layer }

// Rendered returns the number of tiles drawn by the last frame.
func (r *TileLayer) Rendered() int { return len(r.tiles) }

// PrepareFrame collects the tiles of f whose textures are uploaded and
// queues the missing ones.
func (r *TileLayer) PrepareFrame(f *frame.State, ls layer.State, s surface.Surface) bool {
	ts, ok := s.(textureSurface)
	if !ok {
		return false
	}
	r.attach(ts)
	r.tiles = r.tiles[:0]

	src := r.layer.Source()
	grid := src.Grid()
	extent := f.Extent
	if ls.Extent != nil {
		extent = intersect(extent, *ls.Extent)
		if extent.IsEmpty() {
			return false
		}
	}
	z := grid.ZForResolution(f.View.Resolution)
	r.z = z
	rng := grid.TileRangeForExtent(extent, z)
	if !src.WrapX() {
		rng.MinX = max(rng.MinX, 0)
		rng.MaxX = min(rng.MaxX, grid.Columns(z)-1)
	}

	loader := ts.Loader()
	loader.SetFocus(f.Focus)
	for x := rng.MinX; x <= rng.MaxX; x++ {
		for y := rng.MinY; y <= rng.MaxY; y++ {
			c := source.TileCoord{Z: z, X: x, Y: y}
			tile := src.Tile(c)
			if tile.State() == source.TileIdle {
				tile.Load()
			}
			if tile.State() != source.TileLoaded {
				continue
			}
			if entry, ok := loader.Texture(tile.Key()); ok {
				r.tiles = append(r.tiles, renderedTile{coord: c, entry: entry})
				continue
			}
			loader.Enqueue(tiletex.Element{
				Tile:       tile,
				Center:     grid.TileCenter(c),
				Resolution: grid.Resolution(z),
				Size:       [2]int{grid.TileSize, grid.TileSize},
				Gutter:     src.Gutter(),
			})
		}
	}
	if loader.QueueLen() > 0 {
		f.AddPostRender(func(fs *frame.State) {
			if loader.DrainOne(fs.Focus) && r.requestRender != nil {
				r.requestRender()
			}
		})
	}
	return len(r.tiles) > 0
}

// attach listens for context loss on the surface the pool handed out.
func (r *TileLayer) attach(ts textureSurface) {
	if r.surface == ts {
		return
	}
	if r.unlistenLoss != nil {
		r.unlistenLoss()
	}
	r.surface = ts
	r.unlistenLoss = ts.OnContextLost(r.handleContextLost)
}

// handleContextLost drops every texture handle held since the last frame.
func (r *TileLayer) handleContextLost() {
	r.tiles = nil
}

// ComposeFrame draws the collected textures.
func (r *TileLayer) ComposeFrame(f *frame.State, ls layer.State, s surface.Surface) {
	ts, ok := s.(textureSurface)
	if !ok {
		return
	}
	grid := r.layer.Source().Grid()
	res := grid.Resolution(r.z)
	base := ts.Transform().Multiply(pixelTransform(f, 0))
	for _, t := range r.tiles {
		e := grid.TileExtent(t.coord)
		g := float64(t.entry.Gutter)
		toMap := geom.Translate(e[0], e[3]).
			Multiply(geom.Scale(res, -res)).
			Multiply(geom.Translate(-g, -g))
		ts.DrawTexture(t.entry, base.Multiply(toMap))
	}
}

// ForEachFeatureAtCoordinate finds nothing; tiles carry no features.
func (r *TileLayer) ForEachFeatureAtCoordinate(geom.Coordinate, *frame.State, float64, HitFunc) any {
	return nil
}

func (r *TileLayer) Close() {
	if r.unlistenLoss != nil {
		r.unlistenLoss()
		r.unlistenLoss = nil
	}
	r.surface = nil
	r.tiles = nil
}

func intersect(a, b geom.Extent) geom.Extent {
	return geom.Extent{max(a[0], b[0]), max(a[1], b[1]), min(a[2], b[2]), min(a[3], b[3])}
}
