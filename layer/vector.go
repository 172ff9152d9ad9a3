// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/source"
)

// WithStyle sets the style of a vector layer.
func WithStyle(fn feature.StyleFunc) Option {
	return func(o *options) { o.style = fn }
}

// WithOrder sets a custom render order of a vector layer.
func WithOrder(order *feature.Order) Option {
	return func(o *options) { o.order = order }
}

// WithRenderBuffer sets the pixel buffer around the viewport in which
// features are still rendered. Default 100.
func WithRenderBuffer(px float64) Option {
	return func(o *options) { o.renderBuffer = px }
}

// WithUpdateWhileAnimating rebuilds while the view animates.
func WithUpdateWhileAnimating(v bool) Option {
	return func(o *options) { o.updateWhileAnimating = v }
}

// WithUpdateWhileInteracting rebuilds while the user interacts.
func WithUpdateWhileInteracting(v bool) Option {
	return func(o *options) { o.updateWhileInteracting = v }
}

// Vector is a layer of vector features.
type Vector struct {
	Base
	source source.VectorSource
}

// NewVector creates a vector layer over src.
func NewVector(src source.VectorSource, opts ...Option) *Vector {
	v := &Vector{Base: newBase(opts), source: src}
	if src != nil {
		src.OnChange(v.emit)
	}
	return v
}

func (v *Vector) Type() Type { return TypeVector }

// Source returns the vector source.
func (v *Vector) Source() source.VectorSource { return v.source }

// Revision combines the layer and source revisions.
func (v *Vector) Revision() int {
	r := v.Base.Revision()
	if v.source != nil {
		r += v.source.Revision()
	}
	return r
}

// State returns the layer snapshot.
func (v *Vector) State() State {
	return v.state(v, v.source)
}

// Style returns the layer style function, or nil.
func (v *Vector) Style() feature.StyleFunc {
	return v.opts.style
}

// SetStyle replaces the layer style.
func (v *Vector) SetStyle(fn feature.StyleFunc) {
	v.opts.style = fn
	v.Changed()
}

// Order returns the custom render order, or nil for source order.
func (v *Vector) Order() *feature.Order {
	return v.opts.order
}

// SetOrder replaces the render order.
func (v *Vector) SetOrder(o *feature.Order) {
	v.opts.order = o
	v.Changed()
}

// RenderBuffer returns the render buffer in pixels.
func (v *Vector) RenderBuffer() float64 { return v.opts.renderBuffer }

// UpdateWhileAnimating reports whether rebuilds happen while animating.
func (v *Vector) UpdateWhileAnimating() bool { return v.opts.updateWhileAnimating }

// UpdateWhileInteracting reports whether rebuilds happen while interacting.
func (v *Vector) UpdateWhileInteracting() bool { return v.opts.updateWhileInteracting }
