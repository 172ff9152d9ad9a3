// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import "math"

// Coordinate is a map coordinate (x, y).
type Coordinate [2]float64

// Extent is an axis-aligned bounding box [minX, minY, maxX, maxY].
type Extent [4]float64

// EmptyExtent returns an extent that contains nothing.
// Extending it with any coordinate yields that coordinate's point extent.
func EmptyExtent() Extent {
	return Extent{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

// ExtentFromCoordinates returns the bounding extent of coords.
func ExtentFromCoordinates(coords []Coordinate) Extent {
	e := EmptyExtent()
	for _, c := range coords {
		e = e.ExtendCoordinate(c)
	}
	return e
}

// IsEmpty reports whether the extent has no area and no points.
func (e Extent) IsEmpty() bool {
	return e[2] < e[0] || e[3] < e[1]
}

// Width returns maxX - minX.
func (e Extent) Width() float64 {
	return e[2] - e[0]
}

// Height returns maxY - minY.
func (e Extent) Height() float64 {
	return e[3] - e[1]
}

// Center returns the center coordinate.
func (e Extent) Center() Coordinate {
	return Coordinate{(e[0] + e[2]) / 2, (e[1] + e[3]) / 2}
}

// Buffer grows the extent by v on every side.
func (e Extent) Buffer(v float64) Extent {
	return Extent{e[0] - v, e[1] - v, e[2] + v, e[3] + v}
}

// ContainsExtent reports whether o lies entirely within e (edges inclusive).
func (e Extent) ContainsExtent(o Extent) bool {
	return e[0] <= o[0] && o[2] <= e[2] && e[1] <= o[1] && o[3] <= e[3]
}

// ContainsCoordinate reports whether c lies within e (edges inclusive).
func (e Extent) ContainsCoordinate(c Coordinate) bool {
	return e[0] <= c[0] && c[0] <= e[2] && e[1] <= c[1] && c[1] <= e[3]
}

// Intersects reports whether e and o overlap (touching edges count).
func (e Extent) Intersects(o Extent) bool {
	return e[0] <= o[2] && e[2] >= o[0] && e[1] <= o[3] && e[3] >= o[1]
}

// Extend returns the smallest extent containing both e and o.
func (e Extent) Extend(o Extent) Extent {
	return Extent{
		math.Min(e[0], o[0]),
		math.Min(e[1], o[1]),
		math.Max(e[2], o[2]),
		math.Max(e[3], o[3]),
	}
}

// ExtendCoordinate returns the smallest extent containing e and c.
func (e Extent) ExtendCoordinate(c Coordinate) Extent {
	return Extent{
		math.Min(e[0], c[0]),
		math.Min(e[1], c[1]),
		math.Max(e[2], c[0]),
		math.Max(e[3], c[1]),
	}
}

// Shift returns the extent translated by dx along x.
func (e Extent) Shift(dx float64) Extent {
	return Extent{e[0] + dx, e[1], e[2] + dx, e[3]}
}

// Distance returns the euclidean distance between two coordinates.
func Distance(a, b Coordinate) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}

// ForViewAndSize returns the extent covered by a viewport of size pixels
// centered on center at the given resolution and rotation.
// The result is the axis-aligned bounds of the rotated viewport.
func ForViewAndSize(center Coordinate, resolution, rotation float64, size [2]int) Extent {
	dx := resolution * float64(size[0]) / 2
	dy := resolution * float64(size[1]) / 2
	cos := math.Cos(rotation)
	sin := math.Sin(rotation)
	xs := [4]float64{-dx, -dx, dx, dx}
	ys := [4]float64{-dy, dy, -dy, dy}
	e := EmptyExtent()
	for i := range xs {
		x := xs[i]*cos - ys[i]*sin + center[0]
		y := xs[i]*sin + ys[i]*cos + center[1]
		e = e.ExtendCoordinate(Coordinate{x, y})
	}
	return e
}
