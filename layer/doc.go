// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layer defines map layers and the per-frame State snapshot the
// renderers read.
//
// A layer owns its source and its render options. Every option change or
// source change bumps the layer revision and notifies listeners, which is
// what invalidates cached renderings.
package layer
