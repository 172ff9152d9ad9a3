// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package feature

import "image/color"

// Fill paints the interior of polygons.
type Fill struct {
	Color color.RGBA
}

// Stroke paints lines and polygon outlines.
type Stroke struct {
	Color color.RGBA
	Width float64
}

// Text places a label at the feature anchor.
type Text struct {
	Text    string
	Color   color.RGBA
	Size    float64 // font size in CSS pixels, defaults to 12
	OffsetX float64
	OffsetY float64
}

// Style describes how a feature is drawn. Nil parts are not drawn.
type Style struct {
	Fill   *Fill
	Stroke *Stroke
	Image  ImageStyle
	Text   *Text
	ZIndex int

	// Geometry overrides the feature geometry when set.
	Geometry Geometry
}

// GeometryFor returns the geometry the style draws for f.
func (s *Style) GeometryFor(f *Feature) Geometry {
	if s.Geometry != nil {
		return s.Geometry
	}
	return f.Geometry()
}

// StyleFunc resolves the styles of a feature at a resolution. Returning no
// styles means the feature is not drawn.
type StyleFunc func(f *Feature, resolution float64) []*Style

// Static returns a StyleFunc that always returns styles.
func Static(styles ...*Style) StyleFunc {
	return func(*Feature, float64) []*Style { return styles }
}

// Order is a custom render order. Two orders are the same only when they
// are the same pointer, so replacing an Order with an equivalent one still
// counts as a change.
type Order struct {
	Compare func(a, b *Feature) int
}

// NewOrder wraps a comparison function.
func NewOrder(cmp func(a, b *Feature) int) *Order {
	return &Order{Compare: cmp}
}
