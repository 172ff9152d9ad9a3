// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

// Projection describes the coordinate reference system of a view.
// Projection math itself is out of scope; only the validity extent and
// world wrapping capability are consumed by the renderers.
type Projection struct {
	// Code identifies the projection, e.g. "EPSG:3857".
	Code string

	// Extent is the validity extent in projection units.
	Extent Extent

	// Global marks projections whose x axis wraps around the antimeridian.
	Global bool
}

// CanWrapX reports whether the x axis can be wrapped.
func (p *Projection) CanWrapX() bool {
	return p != nil && p.Global && !p.Extent.IsEmpty()
}

// WorldWidth returns the width of the projection extent.
func (p *Projection) WorldWidth() float64 {
	if p == nil {
		return 0
	}
	return p.Extent.Width()
}

// halfWorld is half the EPSG:3857 world width in meters.
const halfWorld = 20037508.342789244

// WebMercator returns the spherical mercator projection (EPSG:3857).
func WebMercator() *Projection {
	return &Projection{
		Code:   "EPSG:3857",
		Extent: Extent{-halfWorld, -halfWorld, halfWorld, halfWorld},
		Global: true,
	}
}

// Geographic returns the plate carree projection (EPSG:4326) in degrees.
func Geographic() *Projection {
	return &Projection{
		Code:   "EPSG:4326",
		Extent: Extent{-180, -90, 180, 90},
		Global: true,
	}
}
