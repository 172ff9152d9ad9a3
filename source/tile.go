// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package source

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/ggmap/geom"
)

var inf = math.Inf(1)

// TileCoord addresses a tile: zoom, column and row from the top-left.
type TileCoord struct {
	Z, X, Y int
}

// String returns "z/x/y".
func (c TileCoord) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Z, c.X, c.Y)
}

// TileState is the load state of a tile.
type TileState uint8

const (
	TileIdle TileState = iota
	TileLoading
	TileLoaded
	TileError
	TileEmpty
)

// Tile is one raster tile of a TileSource.
type Tile struct {
	Coord TileCoord

	state TileState
	img   image.Image
	err   error
	load  func(*Tile)
}

// NewTile creates a tile. load is called by Load on an idle tile; nil
// leaves the tile idle.
func NewTile(c TileCoord, load func(*Tile)) *Tile {
	return &Tile{Coord: c, load: load}
}

// NewLoadedTile creates a tile holding img.
func NewLoadedTile(c TileCoord, img image.Image) *Tile {
	return &Tile{Coord: c, state: TileLoaded, img: img}
}

// Key identifies the tile content.
func (t *Tile) Key() string { return t.Coord.String() }

func (t *Tile) State() TileState   { return t.state }
func (t *Tile) Image() image.Image { return t.img }
func (t *Tile) Err() error         { return t.err }

// Load starts loading an idle tile.
func (t *Tile) Load() {
	if t.state != TileIdle || t.load == nil {
		return
	}
	t.state = TileLoading
	t.load(t)
}

// Resolve completes a load. A nil image without error marks the tile empty.
func (t *Tile) Resolve(img image.Image, err error) {
	switch {
	case err != nil:
		t.state, t.err = TileError, err
	case img == nil:
		t.state = TileEmpty
	default:
		t.state, t.img = TileLoaded, img
	}
}

// TileRange is an inclusive range of tile columns and rows at one zoom.
type TileRange struct {
	MinX, MaxX, MinY, MaxY int
}

// Len returns the number of tiles in the range.
func (r TileRange) Len() int {
	if r.MaxX < r.MinX || r.MaxY < r.MinY {
		return 0
	}
	return (r.MaxX - r.MinX + 1) * (r.MaxY - r.MinY + 1)
}

// TileGrid maps tile coordinates to map extents. Rows grow downwards from
// the top-left origin.
type TileGrid struct {
	Origin      geom.Coordinate
	Resolutions []float64 // descending
	TileSize    int
	Extent      geom.Extent
}

// NewXYZGrid creates the usual quad tree grid over extent: one tile at
// zoom 0, resolutions halving up to maxZoom.
func NewXYZGrid(extent geom.Extent, maxZoom, tileSize int) *TileGrid {
	res := make([]float64, maxZoom+1)
	res[0] = extent.Width() / float64(tileSize)
	for z := 1; z <= maxZoom; z++ {
		res[z] = res[z-1] / 2
	}
	return &TileGrid{
		Origin:      geom.Coordinate{extent[0], extent[3]},
		Resolutions: res,
		TileSize:    tileSize,
		Extent:      extent,
	}
}

// MaxZoom returns the highest zoom level.
func (g *TileGrid) MaxZoom() int { return len(g.Resolutions) - 1 }

// Resolution returns the resolution of zoom z.
func (g *TileGrid) Resolution(z int) float64 { return g.Resolutions[z] }

// ZForResolution returns the zoom whose resolution is closest to res.
func (g *TileGrid) ZForResolution(res float64) int {
	best, bestDiff := 0, inf
	for z, r := range g.Resolutions {
		if d := math.Abs(r - res); d < bestDiff {
			best, bestDiff = z, d
		}
	}
	return best
}

// TileRangeForExtent returns the tiles at zoom z intersecting extent.
// Columns are not clamped, so ranges may extend into wrapped worlds.
func (g *TileGrid) TileRangeForExtent(extent geom.Extent, z int) TileRange {
	span := g.Resolutions[z] * float64(g.TileSize)
	r := TileRange{
		MinX: int(math.Floor((extent[0] - g.Origin[0]) / span)),
		MaxX: int(math.Ceil((extent[2]-g.Origin[0])/span)) - 1,
		MinY: int(math.Floor((g.Origin[1] - extent[3]) / span)),
		MaxY: int(math.Ceil((g.Origin[1]-extent[1])/span)) - 1,
	}
	r.MinY = max(r.MinY, 0)
	r.MaxY = min(r.MaxY, g.rows(z)-1)
	return r
}

// Columns returns the number of tile columns covering the grid extent.
func (g *TileGrid) Columns(z int) int {
	return int(math.Round(g.Extent.Width() / (g.Resolutions[z] * float64(g.TileSize))))
}

func (g *TileGrid) rows(z int) int {
	return int(math.Round(g.Extent.Height() / (g.Resolutions[z] * float64(g.TileSize))))
}

// TileExtent returns the map extent of c.
func (g *TileGrid) TileExtent(c TileCoord) geom.Extent {
	span := g.Resolutions[c.Z] * float64(g.TileSize)
	minX := g.Origin[0] + float64(c.X)*span
	maxY := g.Origin[1] - float64(c.Y)*span
	return geom.Extent{minX, maxY - span, minX + span, maxY}
}

// TileCenter returns the center of c.
func (g *TileGrid) TileCenter(c TileCoord) geom.Coordinate {
	return g.TileExtent(c).Center()
}

// WrapX returns c with its column folded into the grid.
func (g *TileGrid) WrapX(c TileCoord) TileCoord {
	n := g.Columns(c.Z)
	if n <= 0 {
		return c
	}
	c.X = ((c.X % n) + n) % n
	return c
}
