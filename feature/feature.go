// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package feature

import (
	"maps"

	"github.com/google/uuid"
)

// Feature is a geometry with properties and an optional own style.
//
// Features are not safe for concurrent use.
type Feature struct {
	uid        string
	geometry   Geometry
	properties map[string]any
	style      StyleFunc
	revision   int
	listeners  listenerSet
}

// New creates a feature with a fresh uid.
func New(g Geometry, properties map[string]any) *Feature {
	return &Feature{
		uid:        uuid.NewString(),
		geometry:   g,
		properties: maps.Clone(properties),
	}
}

// UID returns the feature identity used for deduplication and skipping.
func (f *Feature) UID() string { return f.uid }

// Geometry returns the feature geometry. It may be nil.
func (f *Feature) Geometry() Geometry { return f.geometry }

// SetGeometry replaces the geometry and notifies listeners.
func (f *Feature) SetGeometry(g Geometry) {
	f.geometry = g
	f.Changed()
}

// Get returns a property value.
func (f *Feature) Get(key string) (any, bool) {
	v, ok := f.properties[key]
	return v, ok
}

// Set sets a property value and notifies listeners.
func (f *Feature) Set(key string, v any) {
	if f.properties == nil {
		f.properties = make(map[string]any)
	}
	f.properties[key] = v
	f.Changed()
}

// StyleFunc returns the feature's own style function, or nil.
func (f *Feature) StyleFunc() StyleFunc { return f.style }

// SetStyle sets the feature's own style function. It takes precedence over
// the layer style.
func (f *Feature) SetStyle(fn StyleFunc) {
	f.style = fn
	f.Changed()
}

// Revision returns a counter incremented on every change.
func (f *Feature) Revision() int { return f.revision }

// Changed increments the revision and notifies listeners.
func (f *Feature) Changed() {
	f.revision++
	f.listeners.notify()
}

// OnChange registers fn to run after every change. The returned function
// removes the listener.
func (f *Feature) OnChange(fn func()) func() {
	return f.listeners.add(fn)
}

// listenerSet keeps listeners in registration order.
type listenerSet struct {
	next int
	fns  map[int]func()
	ids  []int
}

func (s *listenerSet) add(fn func()) func() {
	if s.fns == nil {
		s.fns = make(map[int]func())
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	s.ids = append(s.ids, id)
	return func() {
		delete(s.fns, id)
	}
}

func (s *listenerSet) notify() {
	ids := s.ids[:0]
	for _, id := range s.ids {
		if _, ok := s.fns[id]; ok {
			ids = append(ids, id)
		}
	}
	s.ids = ids
	for _, id := range append([]int(nil), ids...) {
		if fn, ok := s.fns[id]; ok {
			fn()
		}
	}
}
