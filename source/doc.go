// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package source provides the feature and tile sources consumed by the
// renderers.
//
// Sources are collaborators of the rendering core: a renderer only asks a
// source for its readiness, its revision, and the features or tiles covering
// an extent. The in-memory Vector source and the function backed XYZ tile
// source are complete enough for applications and tests.
package source
