// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package replay records styled features as drawing commands and plays them
// back onto a Canvas.
//
// A Group is built once for a resolution and pixel ratio, finished, and then
// replayed every frame at the current pixel transform until its owner
// decides it is stale. Commands are bucketed by style z-index and, within a
// bucket, by kind: polygons, then lines, then images, then text.
//
//	g := replay.NewGroup(extent, resolution, pixelRatio, true, labels)
//	for _, f := range features {
//		for _, s := range styles(f) {
//			g.AddFeature(f, s, sqTolerance)
//		}
//	}
//	g.Finish()
//	g.Replay(canvas, transform, skipped, true)
//
// Immediate draws single features or geometries straight onto a canvas,
// for overlays drawn during compose events.
package replay
