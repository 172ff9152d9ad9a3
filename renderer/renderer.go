// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"math"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/frame"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/layer"
	"github.com/gogpu/ggmap/surface"
)

// HitFunc receives a feature found by hit detection and the layer it
// belongs to. A non-nil result stops the search.
type HitFunc func(f *feature.Feature, l layer.Layer) any

// LayerRenderer draws one layer onto the surface the pool keeps for it.
type LayerRenderer interface {
	surface.Owner

	Layer() layer.Layer

	// PrepareFrame brings cached drawing state up to date for f. It
	// reports whether there is content to compose.
	PrepareFrame(f *frame.State, ls layer.State, s surface.Surface) bool

	// ComposeFrame draws the prepared content onto s.
	ComposeFrame(f *frame.State, ls layer.State, s surface.Surface)

	// ForEachFeatureAtCoordinate calls cb once per feature drawn at coord.
	ForEachFeatureAtCoordinate(coord geom.Coordinate, f *frame.State, hitTolerance float64, cb HitFunc) any

	// Close releases listeners. The surface is released by the pool.
	Close()
}

// Factory creates the renderer of a layer. It returns nil when it cannot
// render l.
type Factory func(l layer.Layer, m *Map) LayerRenderer

// pixelTransform maps map units to device pixels for f, without the view
// rotation, shifted by offsetX map units. The rotation is applied by the
// base transform of the surfaces.
func pixelTransform(f *frame.State, offsetX float64) geom.Transform {
	v := f.View
	return geom.Compose(
		f.PixelRatio*float64(f.Size[0])/2, f.PixelRatio*float64(f.Size[1])/2,
		f.PixelRatio/v.Resolution, -f.PixelRatio/v.Resolution,
		0,
		-v.Center[0]+offsetX, -v.Center[1],
	)
}

// rotatedPixelTransform maps map units to device pixels including the view
// rotation.
func rotatedPixelTransform(f *frame.State) geom.Transform {
	v := f.View
	return geom.Compose(
		f.PixelRatio*float64(f.Size[0])/2, f.PixelRatio*float64(f.Size[1])/2,
		f.PixelRatio/v.Resolution, -f.PixelRatio/v.Resolution,
		-v.Rotation,
		-v.Center[0], -v.Center[1],
	)
}

// wrapWorlds returns how many world copies west and east of the projection
// extent the frame extent reaches into. Both are zero when nothing wraps.
func wrapWorlds(f *frame.State, wrapX bool) (west, east int) {
	proj := f.View.Projection
	if !wrapX || !proj.CanWrapX() || proj.Extent.ContainsExtent(f.Extent) {
		return 0, 0
	}
	pe := proj.Extent
	w := proj.WorldWidth()
	for x := f.Extent[0]; x < pe[0]; x += w {
		west++
	}
	for x := f.Extent[2]; x > pe[2]; x -= w {
		east++
	}
	return west, east
}

// deviceRect returns the pixel bounds of extent under tr.
func deviceRect(extent geom.Extent, tr geom.Transform) (x0, y0, x1, y1 int) {
	e := geom.EmptyExtent()
	for _, c := range []geom.Coordinate{
		{extent[0], extent[1]}, {extent[2], extent[1]},
		{extent[2], extent[3]}, {extent[0], extent[3]},
	} {
		e = e.ExtendCoordinate(tr.Apply(c))
	}
	return int(math.Floor(e[0])), int(math.Floor(e[1])), int(math.Ceil(e[2])), int(math.Ceil(e[3]))
}
