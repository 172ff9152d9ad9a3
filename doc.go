// Package ggmap renders a composited map view from heterogeneous layers.
//
// # Overview
//
// Each layer renderer owns exactly one rendering surface, either a raster
// surface backed by an *image.RGBA or a GPU surface fed by a bounded tile
// texture cache. Every frame the compositor sorts layers by z-index,
// prepares and composes the visible ones into their own surfaces, and
// composites the surfaces in order into a single image.
//
// # Packages
//
//   - geom: coordinates, extents, affine transforms, projections
//   - feature: geometries, features, styles and image styles
//   - layer, source: layer state snapshots and the feature/tile sources
//   - frame: the immutable per-frame snapshot
//   - surface: raster and GPU surfaces and the per-renderer surface pool
//   - tiletex: the tile texture cache and the priority-ordered loader
//   - replay: replay groups (recorded draw instructions) and hit detection
//   - labelcache: an explicitly owned label image cache with TTL expiry
//   - renderer: vector and tile layer renderers and the frame compositor
//   - metrics: Prometheus collectors
//   - config: environment configuration for cmd/ggmapd
//
// # Quick Start
//
//	m, err := renderer.NewMap()
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//	m.RenderFrame(ctx, fs)
//	img := m.Composite()
//
// # Threading
//
// Rendering is single threaded and cooperative: one RenderFrame call runs
// to completion before the next one starts. Only SetLogger is safe for
// concurrent use.
package ggmap

// Version is the current version of the library.
const Version = "0.1.0"
