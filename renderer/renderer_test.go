// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/frame"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/layer"
	"github.com/gogpu/ggmap/surface"
)

// testProj is a small wrapping projection, 400 units wide.
var testProj = &geom.Projection{Code: "TEST", Extent: geom.Extent{-200, -200, 200, 200}, Global: true}

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func isRed(c color.RGBA) bool {
	return c.R >= 250 && c.G == 0 && c.B == 0 && c.A >= 250
}

func testFrame(size [2]int, resolution float64, layers ...layer.Layer) *frame.State {
	return frame.New(size, 1, frame.ViewState{Resolution: resolution, Projection: testProj}, layers...)
}

func square(x, y, size float64) feature.Polygon {
	return feature.Polygon{Rings: [][]geom.Coordinate{{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size},
	}}}
}

func fillStyle(c color.RGBA) feature.StyleFunc {
	return feature.Static(&feature.Style{Fill: &feature.Fill{Color: c}})
}

// countingRaster is a raster surface counting polygon fills.
type countingRaster struct {
	*surface.Raster
	fills []color.RGBA
}

func newCountingRaster(w, h int) *countingRaster {
	return &countingRaster{Raster: surface.NewRaster(w, h)}
}

func (c *countingRaster) FillPolygon(rings [][]geom.Coordinate, col color.RGBA) {
	c.fills = append(c.fills, col)
	c.Raster.FillPolygon(rings, col)
}

func TestWrapWorlds(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		wrap       bool
		west, east int
	}{
		{"inside world", 300, true, 0, 0},
		{"one and a half worlds", 600, true, 1, 1},
		{"more than three worlds", 1300, true, 2, 2},
		{"source does not wrap", 600, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFrame([2]int{tt.width, 100}, 1)
			west, east := wrapWorlds(f, tt.wrap)
			if west != tt.west || east != tt.east {
				t.Errorf("wrapWorlds() = %d, %d, want %d, %d", west, east, tt.west, tt.east)
			}
		})
	}
}

func TestPixelTransform(t *testing.T) {
	f := frame.New([2]int{100, 50}, 2, frame.ViewState{
		Center:     geom.Coordinate{10, 20},
		Resolution: 0.5,
		Rotation:   math.Pi / 2,
		Projection: testProj,
	})
	p := pixelTransform(f, 0).Apply(geom.Coordinate{10, 20})
	if p != (geom.Coordinate{100, 50}) {
		t.Errorf("center maps to %v, want device center (100, 50)", p)
	}
	p = pixelTransform(f, 0).Apply(geom.Coordinate{11, 20})
	if math.Abs(p[0]-104) > 1e-9 {
		t.Errorf("one unit east maps to x=%v, want 104", p[0])
	}

	// The rotated transform agrees with rotating the surfaces around the
	// device center.
	rotated := rotatedPixelTransform(f).Apply(geom.Coordinate{11, 20})
	viaSurface := geom.RotateAt(f.View.Rotation, 100, 50).Multiply(pixelTransform(f, 0)).Apply(geom.Coordinate{11, 20})
	if math.Abs(rotated[0]-viaSurface[0]) > 1e-9 || math.Abs(rotated[1]-viaSurface[1]) > 1e-9 {
		t.Errorf("rotated = %v, via surface rotation = %v", rotated, viaSurface)
	}
}
