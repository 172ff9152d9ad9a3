// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"slices"
	"sync"
)

// Factory creates a new surface of one kind.
type Factory func(opts Options) (Surface, error)

// Registry maps surface kinds to factories.
//
// Example registration of a GPU kind drawing through a gogpu context:
//
//	reg := surface.NewRegistry()
//	reg.Register(surface.KindRaster, surface.RasterFactory)
//	reg.Register(surface.KindGPU, func(o surface.Options) (surface.Surface, error) {
//	    return surface.NewGPU(o.Width, o.Height, surface.WithTextureDrawer(dc))
//	})
type Registry struct {
	mu        sync.RWMutex
	factories map[Kind]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// DefaultRegistry returns a registry with raster surfaces and in-memory
// GPU surfaces.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindRaster, RasterFactory)
	r.Register(KindGPU, func(o Options) (Surface, error) {
		return NewGPU(o.Width, o.Height)
	})
	return r
}

// RasterFactory creates raster surfaces.
func RasterFactory(o Options) (Surface, error) {
	return NewRaster(o.Width, o.Height), nil
}

// Register sets the factory of kind, replacing any previous one.
func (r *Registry) Register(kind Kind, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.factories == nil {
		r.factories = make(map[Kind]Factory)
	}
	r.factories[kind] = f
}

// Unregister removes the factory of kind.
func (r *Registry) Unregister(kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.factories, kind)
}

// Kinds returns the registered kinds in ascending order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]Kind, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// New creates a surface of kind.
func (r *Registry) New(kind Kind, opts Options) (Surface, error) {
	r.mu.RLock()
	f, ok := r.factories[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, &KindNotFoundError{Kind: kind}
	}
	s, err := f(opts)
	if err != nil {
		return nil, err
	}
	if s.Kind() != kind {
		_ = s.Close()
		return nil, ErrKindMismatch
	}
	return s, nil
}

// Errors.
var (
	// ErrKindMismatch is returned when a factory builds a surface of
	// another kind than it was registered for.
	ErrKindMismatch = errors.New("surface: factory returned wrong kind")
)

// KindNotFoundError indicates that no factory is registered for a kind.
type KindNotFoundError struct {
	Kind Kind
}

func (e *KindNotFoundError) Error() string {
	return "surface: no factory for kind: " + e.Kind.String()
}
