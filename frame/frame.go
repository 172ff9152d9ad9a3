// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package frame holds the per-frame snapshot shared by every renderer.
package frame

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/layer"
)

// Hint indexes State.ViewHints.
type Hint int

const (
	HintAnimating Hint = iota
	HintInteracting
)

// ViewState is the view part of a frame.
type ViewState struct {
	Center     geom.Coordinate
	Resolution float64
	Rotation   float64
	Projection *geom.Projection
}

// PostRenderFunc runs after a frame has been composited.
type PostRenderFunc func(s *State)

// State is the snapshot of one frame. Renderers read it; only the post
// render queue and the order of LayerStates change during the frame.
type State struct {
	Index      int
	Time       time.Time
	Size       [2]int // CSS pixels
	PixelRatio float64
	View       ViewState
	Extent     geom.Extent
	Focus      geom.Coordinate

	LayerStates     []layer.State
	ViewHints       [2]int
	SkippedFeatures map[string]bool

	postRender []PostRenderFunc
}

// New creates a frame for a view. Extent and focus derive from the view.
func New(size [2]int, pixelRatio float64, view ViewState, layers ...layer.Layer) *State {
	s := &State{
		Time:            time.Now(),
		Size:            size,
		PixelRatio:      pixelRatio,
		View:            view,
		Extent:          geom.ForViewAndSize(view.Center, view.Resolution, view.Rotation, size),
		Focus:           view.Center,
		SkippedFeatures: make(map[string]bool),
	}
	for _, l := range layers {
		s.LayerStates = append(s.LayerStates, l.State())
	}
	return s
}

// PixelSize returns the size in device pixels, rounded to the nearest pixel.
func (s *State) PixelSize() [2]int {
	return [2]int{
		int(math.Round(float64(s.Size[0]) * s.PixelRatio)),
		int(math.Round(float64(s.Size[1]) * s.PixelRatio)),
	}
}

// Animating reports whether the view is animating.
func (s *State) Animating() bool { return s.ViewHints[HintAnimating] > 0 }

// Interacting reports whether the user is interacting with the view.
func (s *State) Interacting() bool { return s.ViewHints[HintInteracting] > 0 }

// Skipped reports whether the feature with uid must not be drawn.
func (s *State) Skipped(uid string) bool { return s.SkippedFeatures[uid] }

// CoordinateToPixel returns the transform from map coordinates to CSS
// pixels of the viewport.
func (s *State) CoordinateToPixel() geom.Transform {
	v := s.View
	return geom.Compose(
		float64(s.Size[0])/2, float64(s.Size[1])/2,
		1/v.Resolution, -1/v.Resolution,
		-v.Rotation,
		-v.Center[0], -v.Center[1],
	)
}

// PixelToCoordinate is the inverse of CoordinateToPixel.
func (s *State) PixelToCoordinate() geom.Transform {
	inv, _ := s.CoordinateToPixel().Invert()
	return inv
}

// AddPostRender queues fn to run once after composition.
func (s *State) AddPostRender(fn PostRenderFunc) {
	s.postRender = append(s.postRender, fn)
}

// PostRenderLen returns the number of queued post render functions.
func (s *State) PostRenderLen() int { return len(s.postRender) }

// RunPostRender runs and clears the post render queue. Functions queued
// while running run in the same call.
func (s *State) RunPostRender() {
	for i := 0; i < len(s.postRender); i++ {
		s.postRender[i](s)
	}
	s.postRender = nil
}

// SortByZIndex orders states by z-index in place. Equal z-indexes keep
// their relative order.
func SortByZIndex(states []layer.State) {
	slices.SortStableFunc(states, func(a, b layer.State) int {
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})
}
