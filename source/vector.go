// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package source

import (
	"slices"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
)

// Loader fetches the features of an extent into a Vector source, usually by
// calling AddFeatures, possibly later.
type Loader func(src *Vector, extent geom.Extent, resolution float64, proj *geom.Projection)

// Strategy returns the extents to load for a request.
type Strategy func(extent geom.Extent, resolution float64) []geom.Extent

// StrategyAll loads everything once.
func StrategyAll(geom.Extent, float64) []geom.Extent {
	return []geom.Extent{{-inf, -inf, inf, inf}}
}

// StrategyBBox loads exactly the requested extent.
func StrategyBBox(extent geom.Extent, _ float64) []geom.Extent {
	return []geom.Extent{extent}
}

// Vector is an in-memory vector source.
type Vector struct {
	features []*feature.Feature
	unlisten map[string]func()
	revision int
	state    State
	wrapX    bool
	overlaps bool

	loader   Loader
	strategy Strategy
	loaded   []geom.Extent

	changes emitter
}

// VectorOption configures a Vector source.
type VectorOption func(*Vector)

// WithWrapX makes the source repeat across the antimeridian.
func WithWrapX(wrap bool) VectorOption {
	return func(v *Vector) { v.wrapX = wrap }
}

// WithOverlaps sets whether features may overlap. Default true.
func WithOverlaps(overlaps bool) VectorOption {
	return func(v *Vector) { v.overlaps = overlaps }
}

// WithLoader sets the loader and the strategy deciding which extents it is
// asked for. A nil strategy means StrategyAll.
func WithLoader(l Loader, s Strategy) VectorOption {
	return func(v *Vector) {
		v.loader = l
		v.strategy = s
	}
}

// NewVector creates a ready source holding features.
func NewVector(features []*feature.Feature, opts ...VectorOption) *Vector {
	v := &Vector{
		unlisten: make(map[string]func()),
		state:    StateReady,
		wrapX:    true,
		overlaps: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.strategy == nil {
		v.strategy = StrategyAll
	}
	for _, f := range features {
		v.add(f)
	}
	return v
}

func (v *Vector) State() State   { return v.state }
func (v *Vector) Revision() int  { return v.revision }
func (v *Vector) WrapX() bool    { return v.wrapX }
func (v *Vector) Overlaps() bool { return v.overlaps }

// SetState changes the readiness and notifies listeners.
func (v *Vector) SetState(s State) {
	v.state = s
	v.Changed()
}

// Changed increments the revision and notifies listeners.
func (v *Vector) Changed() {
	v.revision++
	v.changes.emit()
}

func (v *Vector) OnChange(fn func()) func() { return v.changes.add(fn) }

// AddFeature adds one feature.
func (v *Vector) AddFeature(f *feature.Feature) {
	if v.add(f) {
		v.Changed()
	}
}

// AddFeatures adds features with a single change notification.
func (v *Vector) AddFeatures(fs []*feature.Feature) {
	added := false
	for _, f := range fs {
		added = v.add(f) || added
	}
	if added {
		v.Changed()
	}
}

func (v *Vector) add(f *feature.Feature) bool {
	if _, ok := v.unlisten[f.UID()]; ok {
		return false
	}
	v.features = append(v.features, f)
	v.unlisten[f.UID()] = f.OnChange(v.Changed)
	return true
}

// RemoveFeature removes f. It reports whether f was present.
func (v *Vector) RemoveFeature(f *feature.Feature) bool {
	unlisten, ok := v.unlisten[f.UID()]
	if !ok {
		return false
	}
	unlisten()
	delete(v.unlisten, f.UID())
	v.features = slices.DeleteFunc(v.features, func(o *feature.Feature) bool { return o == f })
	v.Changed()
	return true
}

// Clear removes every feature and forgets loaded extents.
func (v *Vector) Clear() {
	for _, unlisten := range v.unlisten {
		unlisten()
	}
	clear(v.unlisten)
	v.features = nil
	v.loaded = nil
	v.Changed()
}

// Features returns the features in source order.
func (v *Vector) Features() []*feature.Feature {
	return slices.Clone(v.features)
}

// Len returns the number of features.
func (v *Vector) Len() int { return len(v.features) }

// LoadFeatures asks the loader for every strategy extent not already loaded.
func (v *Vector) LoadFeatures(extent geom.Extent, resolution float64, proj *geom.Projection) {
	if v.loader == nil {
		return
	}
	for _, e := range v.strategy(extent, resolution) {
		if v.isLoaded(e) {
			continue
		}
		v.loaded = append(v.loaded, e)
		v.loader(v, e, resolution, proj)
	}
}

func (v *Vector) isLoaded(e geom.Extent) bool {
	for _, l := range v.loaded {
		if l.ContainsExtent(e) {
			return true
		}
	}
	return false
}

func (v *Vector) ForEachFeatureInExtent(extent geom.Extent, fn func(*feature.Feature) bool) {
	for _, f := range slices.Clone(v.features) {
		g := f.Geometry()
		if g == nil || !g.Extent().Intersects(extent) {
			continue
		}
		if !fn(f) {
			return
		}
	}
}
