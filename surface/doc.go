// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface provides the rendering surfaces layer renderers draw into
// and the pool that owns them.
//
// A Surface is a tagged variant: Kind reports whether it is a Raster
// surface (an RGBA bitmap drawn with golang.org/x/image) or a GPU surface
// (tile textures managed by a tiletex.Loader). Both share visibility,
// opacity and a save/restore stack of base transforms.
//
// # Pool
//
// The Pool creates exactly one surface per (owner, kind) on first use,
// through the kind factories of a Registry, and is the only component that
// creates or closes surfaces. Frame-wide operations fan out to every
// pooled surface:
//
//	pool.Clear(w, h)            // resize or clear
//	pool.Save()
//	pool.Rotate(angle, cx, cy)  // one rotation for every backend
//	...
//	pool.Restore()
//
// Requesting a surface of an unregistered kind yields nil and the owner is
// skipped for the frame.
package surface
