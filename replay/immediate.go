// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package replay

import (
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/labelcache"
)

// Immediate draws features straight onto a canvas without recording.
// It is handed to compose event listeners bound to the frame transform.
type Immediate struct {
	canvas    Canvas
	transform geom.Transform
	extent    geom.Extent
	builder   builder
	style     *feature.Style
}

// NewImmediate creates an immediate renderer drawing onto c. tr maps map
// units to device pixels; geometries outside extent are ignored.
func NewImmediate(c Canvas, tr geom.Transform, extent geom.Extent, pixelRatio float64, labels *labelcache.Cache) *Immediate {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	return &Immediate{
		canvas:    c,
		transform: tr,
		extent:    extent,
		builder:   builder{pixelRatio: pixelRatio, labels: labels},
	}
}

// Transform returns the map-to-pixel transform.
func (im *Immediate) Transform() geom.Transform { return im.transform }

// SetStyle sets the style used by DrawGeometry.
func (im *Immediate) SetStyle(s *feature.Style) { im.style = s }

// DrawGeometry draws g with the current style.
func (im *Immediate) DrawGeometry(g feature.Geometry) {
	if im.style == nil || g == nil {
		return
	}
	im.draw(nil, g, im.style)
}

// DrawFeature draws f with s. The style geometry takes precedence over the
// feature geometry.
func (im *Immediate) DrawFeature(f *feature.Feature, s *feature.Style) {
	if f == nil || s == nil {
		return
	}
	g := s.GeometryFor(f)
	if g == nil {
		return
	}
	im.draw(f, g, s)
}

func (im *Immediate) draw(f *feature.Feature, g feature.Geometry, s *feature.Style) {
	if !g.Extent().Intersects(im.extent) {
		return
	}
	cmds := im.builder.build(nil, f, g, s)
	sortCommands(cmds)
	for i := range cmds {
		cmds[i].draw(im.canvas, im.transform, im.builder.pixelRatio, false)
	}
}
