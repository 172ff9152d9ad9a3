// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/metrics"
)

// Owner identifies the renderer a pooled surface belongs to.
type Owner interface {
	ID() string
	SurfaceKind() Kind
}

type poolKey struct {
	id   string
	kind Kind
}

// journal entries replay frame-wide Save and Rotate calls on surfaces
// created in the middle of a frame.
type journalOp struct {
	save          bool
	angle, cx, cy float64
}

// Pool owns the surfaces of all renderers.
//
// Pool is not safe for concurrent use.
type Pool struct {
	registry *Registry
	surfaces map[poolKey]Surface
	order    []poolKey
	visible  bool
	width    int
	height   int
	journal  []journalOp
	stats    *metrics.Collectors
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithPoolMetrics records the number of pooled surfaces.
func WithPoolMetrics(m *metrics.Collectors) PoolOption {
	return func(p *Pool) { p.stats = m }
}

// NewPool creates an empty pool creating surfaces through reg. A nil reg
// uses DefaultRegistry.
func NewPool(reg *Registry, opts ...PoolOption) *Pool {
	if reg == nil {
		reg = DefaultRegistry()
	}
	p := &Pool{
		registry: reg,
		surfaces: make(map[poolKey]Surface),
		visible:  true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns the surface of owner, creating it on first use. It returns
// nil when the owner's kind has no factory or the factory fails.
func (p *Pool) Get(owner Owner) Surface {
	k := poolKey{id: owner.ID(), kind: owner.SurfaceKind()}
	if s, ok := p.surfaces[k]; ok {
		return s
	}
	s, err := p.registry.New(k.kind, Options{Width: p.width, Height: p.height})
	if err != nil {
		var nf *KindNotFoundError
		if errors.As(err, &nf) {
			ggmap.Logger().Debug("surface: unknown kind", "owner", k.id, "kind", k.kind)
		} else {
			ggmap.Logger().Warn("surface: create", "owner", k.id, "kind", k.kind, "err", err)
		}
		return nil
	}
	if !p.visible {
		s.Hide()
	}
	for _, op := range p.journal {
		if op.save {
			s.Save()
		} else {
			s.Rotate(op.angle, op.cx, op.cy)
		}
	}
	p.surfaces[k] = s
	p.order = append(p.order, k)
	p.stats.SetPooledSurfaces(len(p.surfaces))
	return s
}

// Len returns the number of pooled surfaces.
func (p *Pool) Len() int { return len(p.surfaces) }

// Each calls fn for every surface in creation order.
func (p *Pool) Each(fn func(id string, s Surface)) {
	for _, k := range p.order {
		fn(k.id, p.surfaces[k])
	}
}

// Show makes every surface visible.
func (p *Pool) Show() {
	p.visible = true
	for _, s := range p.surfaces {
		s.Show()
	}
}

// Hide hides every surface.
func (p *Pool) Hide() {
	p.visible = false
	for _, s := range p.surfaces {
		s.Hide()
	}
}

// Visible reports whether the pool is shown.
func (p *Pool) Visible() bool { return p.visible }

// Clear sizes every surface to width x height device pixels and clears it.
// Surfaces created later get the same size.
func (p *Pool) Clear(width, height int) {
	p.width, p.height = width, height
	for _, s := range p.surfaces {
		s.Clear(width, height)
	}
}

// Save saves the base transform of every surface.
func (p *Pool) Save() {
	p.journal = append(p.journal, journalOp{save: true})
	for _, s := range p.surfaces {
		s.Save()
	}
}

// Restore restores the base transform of every surface.
func (p *Pool) Restore() {
	i := len(p.journal) - 1
	for i >= 0 && !p.journal[i].save {
		i--
	}
	p.journal = p.journal[:max(i, 0)]
	for _, s := range p.surfaces {
		s.Restore()
	}
}

// Rotate rotates every surface by angle around (cx, cy).
func (p *Pool) Rotate(angle, cx, cy float64) {
	p.journal = append(p.journal, journalOp{angle: angle, cx: cx, cy: cy})
	for _, s := range p.surfaces {
		s.Rotate(angle, cx, cy)
	}
}

// Remove closes and forgets every surface of the owner with id.
func (p *Pool) Remove(id string) {
	kept := p.order[:0]
	for _, k := range p.order {
		if k.id != id {
			kept = append(kept, k)
			continue
		}
		if err := p.surfaces[k].Close(); err != nil {
			ggmap.Logger().Warn("surface: close", "owner", id, "err", err)
		}
		delete(p.surfaces, k)
	}
	p.order = kept
	p.stats.SetPooledSurfaces(len(p.surfaces))
}

// Close closes every surface.
func (p *Pool) Close() error {
	var errs []error
	for _, k := range p.order {
		errs = append(errs, p.surfaces[k].Close())
	}
	clear(p.surfaces)
	p.order = nil
	p.stats.SetPooledSurfaces(0)
	return errors.Join(errs...)
}
