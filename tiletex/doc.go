// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package tiletex keeps a bounded working set of tile textures and decides
// which pending tile is uploaded next.
//
// The Cache is a strict LRU of uploaded textures keyed by tile identity.
// The Loader owns the Cache and a priority queue of pending uploads, and
// performs at most one upload per DrainOne call. Priorities are recomputed
// on every drain because they depend on the viewport focus:
//
//	cost = 65536*ln(resolution) + distance(center, focus)/resolution
//
// Lower cost drains first, so finer tiles near the focus come first.
package tiletex
