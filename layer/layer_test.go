// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package layer

import (
	"math"
	"testing"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/source"
)

func TestVisibleAtResolution(t *testing.T) {
	s := State{Visible: true, MinResolution: 10, MaxResolution: 20}
	tests := []struct {
		res  float64
		want bool
	}{
		{10, true},
		{19.999, true},
		{20, false},
		{9.999, false},
	}
	for _, tt := range tests {
		if got := s.VisibleAtResolution(tt.res); got != tt.want {
			t.Errorf("VisibleAtResolution(%v) = %v, want %v", tt.res, got, tt.want)
		}
	}

	s.Visible = false
	if s.VisibleAtResolution(15) {
		t.Error("hidden layer should not be visible")
	}
}

func TestDefaultState(t *testing.T) {
	src := source.NewVector(nil)
	l := NewVector(src)
	s := l.State()
	if s.Layer != l || !s.Visible || s.Opacity != 1 || s.ZIndex != 0 {
		t.Errorf("default state = %+v", s)
	}
	if s.MinResolution != 0 || !math.IsInf(s.MaxResolution, 1) {
		t.Errorf("default resolution range = [%v, %v)", s.MinResolution, s.MaxResolution)
	}
	if !s.Ready() || s.Extent != nil {
		t.Errorf("Ready() = %v, Extent = %v", s.Ready(), s.Extent)
	}
	if l.RenderBuffer() != 100 {
		t.Errorf("RenderBuffer() = %v, want 100", l.RenderBuffer())
	}
}

func TestOptions(t *testing.T) {
	order := feature.NewOrder(func(a, b *feature.Feature) int { return 0 })
	l := NewVector(source.NewVector(nil),
		WithVisible(false),
		WithOpacity(0.5),
		WithZIndex(3),
		WithResolutionRange(1, 100),
		WithExtent(geom.Extent{0, 0, 10, 10}),
		WithOrder(order),
		WithRenderBuffer(20),
		WithUpdateWhileAnimating(true),
	)
	s := l.State()
	if s.Visible || s.Opacity != 0.5 || s.ZIndex != 3 || s.MinResolution != 1 || s.MaxResolution != 100 {
		t.Errorf("state = %+v", s)
	}
	if s.Extent == nil || *s.Extent != (geom.Extent{0, 0, 10, 10}) {
		t.Errorf("Extent = %v", s.Extent)
	}
	if l.Order() != order || l.RenderBuffer() != 20 || !l.UpdateWhileAnimating() || l.UpdateWhileInteracting() {
		t.Error("vector options not applied")
	}
}

func TestRevisionIncludesSource(t *testing.T) {
	src := source.NewVector(nil)
	l := NewVector(src)
	notified := 0
	l.OnChange(func() { notified++ })

	src.AddFeature(feature.New(feature.Point{}, nil))
	if l.Revision() != 1 || notified != 1 {
		t.Errorf("after source change: revision %d, notified %d", l.Revision(), notified)
	}

	l.SetStyle(feature.Static(&feature.Style{}))
	if l.Revision() != 2 || notified != 2 {
		t.Errorf("after SetStyle: revision %d, notified %d", l.Revision(), notified)
	}
	if l.Style() == nil {
		t.Error("Style() = nil after SetStyle")
	}
}

func TestTileLayerState(t *testing.T) {
	src := source.NewXYZ(nil)
	l := NewTile(src, WithZIndex(-1))
	if l.Type() != TypeTile || l.State().ZIndex != -1 || l.Source() != src {
		t.Errorf("tile layer state = %+v", l.State())
	}
	if l.UID() == "" || l.UID() == NewTile(src).UID() {
		t.Error("layers should have distinct uids")
	}
	src.Changed()
	if l.Revision() != 1 {
		t.Errorf("Revision() = %d, want 1", l.Revision())
	}
}
