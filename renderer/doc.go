// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package renderer composites map frames from per-layer surfaces.
//
// A Map keeps one LayerRenderer per layer, created on first use by the
// factory registered for the layer type. Every frame it clears the pooled
// surfaces, sorts the layer states by z-index and lets each visible, ready
// layer prepare and compose its surface:
//
//	m, err := renderer.NewMap(renderer.WithMetrics(collectors))
//	...
//	m.RenderFrame(ctx, frame.New(size, pixelRatio, view, layers...))
//	img := m.Composite()
//
// VectorLayer keeps a replay.Group until the frame needs another
// resolution, revision, render order or extent. TileLayer draws tile
// textures uploaded by the loader of its GPU surface, one per frame.
package renderer
