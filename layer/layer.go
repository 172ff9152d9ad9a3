// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"math"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/source"
	"github.com/google/uuid"
)

// Type names a layer type. Renderers are registered per type.
type Type string

const (
	TypeVector Type = "vector"
	TypeTile   Type = "tile"
)

// Layer is a map layer.
type Layer interface {
	UID() string
	Type() Type

	// Revision increases on every layer or source change.
	Revision() int

	// Changed bumps the revision and notifies listeners.
	Changed()

	OnChange(fn func()) (unlisten func())

	// State returns the current snapshot of the layer.
	State() State
}

// State is the per-frame snapshot of one layer.
type State struct {
	Layer         Layer
	Visible       bool
	Opacity       float64
	ZIndex        int
	MinResolution float64
	MaxResolution float64

	// Extent clips rendering when non-nil.
	Extent *geom.Extent

	SourceState source.State
	Managed     bool
}

// VisibleAtResolution reports whether the layer draws at resolution:
// visible and resolution within [MinResolution, MaxResolution).
func (s State) VisibleAtResolution(resolution float64) bool {
	return s.Visible && resolution >= s.MinResolution && resolution < s.MaxResolution
}

// Ready reports whether the source can be rendered.
func (s State) Ready() bool {
	return s.SourceState == source.StateReady
}

type options struct {
	visible       bool
	opacity       float64
	zIndex        int
	minResolution float64
	maxResolution float64
	extent        *geom.Extent

	style                  feature.StyleFunc
	order                  *feature.Order
	renderBuffer           float64
	updateWhileAnimating   bool
	updateWhileInteracting bool
}

func defaultOptions() options {
	return options{
		visible:       true,
		opacity:       1,
		maxResolution: math.Inf(1),
		renderBuffer:  100,
	}
}

// Option configures a layer.
type Option func(*options)

// WithVisible sets the initial visibility. Default true.
func WithVisible(v bool) Option {
	return func(o *options) { o.visible = v }
}

// WithOpacity sets the opacity in [0, 1]. Default 1.
func WithOpacity(v float64) Option {
	return func(o *options) { o.opacity = v }
}

// WithZIndex sets the z-index. Default 0.
func WithZIndex(z int) Option {
	return func(o *options) { o.zIndex = z }
}

// WithResolutionRange limits rendering to resolutions in [minRes, maxRes).
func WithResolutionRange(minRes, maxRes float64) Option {
	return func(o *options) {
		o.minResolution = minRes
		o.maxResolution = maxRes
	}
}

// WithExtent clips rendering to extent.
func WithExtent(extent geom.Extent) Option {
	return func(o *options) { o.extent = &extent }
}

// Base holds the state common to every layer type. It is embedded by the
// concrete layers.
type Base struct {
	uid       string
	revision  int
	opts      options
	next      int
	listeners map[int]func()
	order     []int
}

func newBase(opts []Option) Base {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return Base{uid: uuid.NewString(), opts: o}
}

// UID returns the layer identity.
func (b *Base) UID() string { return b.uid }

// Revision returns the layer's own revision.
func (b *Base) Revision() int { return b.revision }

// Changed bumps the revision and notifies listeners.
func (b *Base) Changed() {
	b.revision++
	b.emit()
}

// emit notifies listeners without bumping the revision. Source changes
// reach it directly since the source revision is already counted.
func (b *Base) emit() {
	order := b.order[:0]
	for _, id := range b.order {
		if _, ok := b.listeners[id]; ok {
			order = append(order, id)
		}
	}
	b.order = order
	for _, id := range append([]int(nil), order...) {
		if fn, ok := b.listeners[id]; ok {
			fn()
		}
	}
}

// OnChange registers fn to run after every change.
func (b *Base) OnChange(fn func()) func() {
	if b.listeners == nil {
		b.listeners = make(map[int]func())
	}
	id := b.next
	b.next++
	b.listeners[id] = fn
	b.order = append(b.order, id)
	return func() { delete(b.listeners, id) }
}

// SetVisible changes the visibility.
func (b *Base) SetVisible(v bool) {
	b.opts.visible = v
	b.Changed()
}

// SetOpacity changes the opacity.
func (b *Base) SetOpacity(v float64) {
	b.opts.opacity = v
	b.Changed()
}

// SetZIndex changes the z-index.
func (b *Base) SetZIndex(z int) {
	b.opts.zIndex = z
	b.Changed()
}

// SetResolutionRange changes the resolution range.
func (b *Base) SetResolutionRange(minRes, maxRes float64) {
	b.opts.minResolution, b.opts.maxResolution = minRes, maxRes
	b.Changed()
}

func (b *Base) state(l Layer, src source.Source) State {
	s := State{
		Layer:         l,
		Visible:       b.opts.visible,
		Opacity:       b.opts.opacity,
		ZIndex:        b.opts.zIndex,
		MinResolution: b.opts.minResolution,
		MaxResolution: b.opts.maxResolution,
		Managed:       true,
	}
	if b.opts.extent != nil {
		e := *b.opts.extent
		s.Extent = &e
	}
	if src != nil {
		s.SourceState = src.State()
	}
	return s
}
