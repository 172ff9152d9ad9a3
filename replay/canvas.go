// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package replay

import (
	"image"
	"image/color"

	"github.com/gogpu/ggmap/geom"
)

// Canvas is the drawing target of a replay. All coordinates are device
// pixels. surface.Raster implements Canvas.
type Canvas interface {
	// FillPolygon fills rings with c. Rings of opposite orientation cut
	// holes.
	FillPolygon(rings [][]geom.Coordinate, c color.RGBA)

	// StrokeLine strokes a polyline width pixels wide.
	StrokeLine(coords []geom.Coordinate, closed bool, width float64, c color.RGBA)

	// DrawImage draws img mapped by tr from image to canvas pixels.
	DrawImage(img image.Image, tr geom.Transform, opacity float64)

	SetClip(rect image.Rectangle)
	ClearClip()
}
