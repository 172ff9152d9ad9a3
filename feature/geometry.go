// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package feature

import "github.com/gogpu/ggmap/geom"

// GeometryType identifies a geometry variant.
type GeometryType uint8

const (
	TypePoint GeometryType = iota
	TypeLineString
	TypePolygon
	TypeMultiPolygon
)

// String returns the geometry type name.
func (t GeometryType) String() string {
	switch t {
	case TypePoint:
		return "Point"
	case TypeLineString:
		return "LineString"
	case TypePolygon:
		return "Polygon"
	case TypeMultiPolygon:
		return "MultiPolygon"
	default:
		return "Unknown"
	}
}

// Geometry is a feature geometry in map units.
type Geometry interface {
	Type() GeometryType
	Extent() geom.Extent

	// Simplify returns a geometry with vertices closer than the square
	// root of squaredTolerance merged. Points are returned unchanged.
	Simplify(squaredTolerance float64) Geometry
}

// Point is a single position.
type Point struct {
	Coord geom.Coordinate
}

func (p Point) Type() GeometryType  { return TypePoint }
func (p Point) Extent() geom.Extent { return geom.Extent{p.Coord[0], p.Coord[1], p.Coord[0], p.Coord[1]} }

func (p Point) Simplify(float64) Geometry { return p }

// LineString is an open polyline.
type LineString struct {
	Coords []geom.Coordinate
}

func (l LineString) Type() GeometryType  { return TypeLineString }
func (l LineString) Extent() geom.Extent { return geom.ExtentFromCoordinates(l.Coords) }

func (l LineString) Simplify(squaredTolerance float64) Geometry {
	return LineString{Coords: simplifyRadial(l.Coords, squaredTolerance)}
}

// Polygon is an outer ring followed by zero or more holes.
// Rings are closed implicitly.
type Polygon struct {
	Rings [][]geom.Coordinate
}

func (p Polygon) Type() GeometryType { return TypePolygon }

func (p Polygon) Extent() geom.Extent {
	if len(p.Rings) == 0 {
		return geom.EmptyExtent()
	}
	return geom.ExtentFromCoordinates(p.Rings[0])
}

func (p Polygon) Simplify(squaredTolerance float64) Geometry {
	rings := make([][]geom.Coordinate, 0, len(p.Rings))
	for _, r := range p.Rings {
		s := simplifyRadial(r, squaredTolerance)
		if len(s) >= 3 {
			rings = append(rings, s)
		}
	}
	return Polygon{Rings: rings}
}

// MultiPolygon is a collection of polygons.
type MultiPolygon struct {
	Polygons []Polygon
}

func (m MultiPolygon) Type() GeometryType { return TypeMultiPolygon }

func (m MultiPolygon) Extent() geom.Extent {
	e := geom.EmptyExtent()
	for _, p := range m.Polygons {
		e = e.Extend(p.Extent())
	}
	return e
}

func (m MultiPolygon) Simplify(squaredTolerance float64) Geometry {
	out := MultiPolygon{Polygons: make([]Polygon, 0, len(m.Polygons))}
	for _, p := range m.Polygons {
		s := p.Simplify(squaredTolerance).(Polygon)
		if len(s.Rings) > 0 {
			out.Polygons = append(out.Polygons, s)
		}
	}
	return out
}

// simplifyRadial drops vertices within the tolerance of the last kept one.
// The first and last vertices are always kept.
func simplifyRadial(coords []geom.Coordinate, squaredTolerance float64) []geom.Coordinate {
	if squaredTolerance <= 0 || len(coords) <= 2 {
		return coords
	}
	out := make([]geom.Coordinate, 0, len(coords))
	out = append(out, coords[0])
	last := coords[0]
	for _, c := range coords[1 : len(coords)-1] {
		dx, dy := c[0]-last[0], c[1]-last[1]
		if dx*dx+dy*dy > squaredTolerance {
			out = append(out, c)
			last = c
		}
	}
	return append(out, coords[len(coords)-1])
}

// SignedArea returns twice the signed area of a ring. Positive values mean
// counter-clockwise orientation in a y-up coordinate system.
func SignedArea(ring []geom.Coordinate) float64 {
	var a float64
	n := len(ring)
	for i := range n {
		p, q := ring[i], ring[(i+1)%n]
		a += p[0]*q[1] - q[0]*p[1]
	}
	return a
}
