// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package geom provides the planar primitives shared by every ggmap
// component: map coordinates, axis-aligned extents, 2D affine transforms
// and projection descriptors.
//
// Extents use the [minX, minY, maxX, maxY] layout. An empty extent has
// min > max on both axes; it contains nothing and intersects nothing.
//
// Map coordinates are y-up; pixel coordinates are y-down. The transform
// returned by [Compose] maps one onto the other.
package geom
