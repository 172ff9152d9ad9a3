// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package feature defines the vector features drawn by the map renderers:
// geometries, per-feature properties and the styles that decide how a
// feature is drawn at a given resolution.
//
// Style evaluation itself belongs to the caller. A StyleFunc returns the
// styles for a feature, or nothing, in which case the feature is not drawn.
package feature
