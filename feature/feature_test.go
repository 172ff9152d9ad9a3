// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package feature

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/ggmap/geom"
)

func TestNewAssignsUniqueUIDs(t *testing.T) {
	a := New(Point{}, nil)
	b := New(Point{}, nil)
	if a.UID() == "" || a.UID() == b.UID() {
		t.Errorf("UIDs = %q, %q; want distinct non-empty", a.UID(), b.UID())
	}
}

func TestFeatureChangeListeners(t *testing.T) {
	f := New(Point{}, map[string]any{"name": "a"})
	calls := 0
	unlisten := f.OnChange(func() { calls++ })

	f.Set("name", "b")
	f.SetGeometry(Point{Coord: geom.Coordinate{1, 2}})
	if calls != 2 {
		t.Errorf("listener calls = %d, want 2", calls)
	}
	if f.Revision() != 2 {
		t.Errorf("Revision() = %d, want 2", f.Revision())
	}

	unlisten()
	f.Changed()
	if calls != 2 {
		t.Errorf("listener called after unlisten")
	}
	if v, _ := f.Get("name"); v != "b" {
		t.Errorf("Get(name) = %v, want b", v)
	}
}

func TestGeometryExtent(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
		want geom.Extent
	}{
		{"point", Point{Coord: geom.Coordinate{3, 4}}, geom.Extent{3, 4, 3, 4}},
		{"line", LineString{Coords: []geom.Coordinate{{0, 0}, {10, -5}}}, geom.Extent{0, -5, 10, 0}},
		{"polygon", Polygon{Rings: [][]geom.Coordinate{{{0, 0}, {4, 0}, {4, 4}, {0, 4}}}}, geom.Extent{0, 0, 4, 4}},
		{"multipolygon", MultiPolygon{Polygons: []Polygon{
			{Rings: [][]geom.Coordinate{{{0, 0}, {1, 0}, {1, 1}}}},
			{Rings: [][]geom.Coordinate{{{5, 5}, {6, 5}, {6, 7}}}},
		}}, geom.Extent{0, 0, 6, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.Extent(); got != tt.want {
				t.Errorf("Extent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimplifyKeepsEndpoints(t *testing.T) {
	l := LineString{Coords: []geom.Coordinate{{0, 0}, {0.1, 0}, {0.2, 0}, {5, 0}, {5.1, 0}}}
	got := l.Simplify(1).(LineString)
	want := []geom.Coordinate{{0, 0}, {5, 0}, {5.1, 0}}
	if len(got.Coords) != len(want) {
		t.Fatalf("Simplify() = %v, want %v", got.Coords, want)
	}
	for i := range want {
		if got.Coords[i] != want[i] {
			t.Errorf("Coords[%d] = %v, want %v", i, got.Coords[i], want[i])
		}
	}
	if same := l.Simplify(0).(LineString); len(same.Coords) != len(l.Coords) {
		t.Error("zero tolerance should not drop vertices")
	}
}

func TestSignedArea(t *testing.T) {
	ccw := []geom.Coordinate{{0, 0}, {2, 0}, {2, 2}, {0, 2}}
	if a := SignedArea(ccw); a != 8 {
		t.Errorf("SignedArea(ccw) = %v, want 8", a)
	}
	cw := []geom.Coordinate{{0, 0}, {0, 2}, {2, 2}, {2, 0}}
	if a := SignedArea(cw); a != -8 {
		t.Errorf("SignedArea(cw) = %v, want -8", a)
	}
}

func TestIconLoadLifecycle(t *testing.T) {
	var fetched *Icon
	icon := NewIcon("marker.png", func(i *Icon) { fetched = i })

	var states []ImageState
	icon.OnChange(func() { states = append(states, icon.State()) })

	if icon.State() != ImageIdle {
		t.Fatalf("initial state = %v, want idle", icon.State())
	}
	icon.Load()
	icon.Load()
	if fetched != icon {
		t.Fatal("fetcher not invoked with the icon")
	}
	if icon.Image(1) != nil {
		t.Error("loading icon should have no image")
	}

	icon.Resolve(image.NewRGBA(image.Rect(0, 0, 8, 4)), nil)
	if icon.State() != ImageLoaded {
		t.Errorf("state after Resolve = %v, want loaded", icon.State())
	}
	if a := icon.Anchor(); a != [2]float64{4, 2} {
		t.Errorf("Anchor() = %v, want centered", a)
	}
	if len(states) != 2 || states[0] != ImageLoading || states[1] != ImageLoaded {
		t.Errorf("state transitions = %v", states)
	}
}

func TestIconResolveError(t *testing.T) {
	icon := NewIcon("missing.png", nil)
	icon.Load()
	icon.Resolve(nil, errors.New("not found"))
	if icon.State() != ImageError {
		t.Errorf("State() = %v, want error", icon.State())
	}
}

func TestCircleImage(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	c := &Circle{Radius: 5, Fill: &Fill{Color: red}}
	img := c.Image(2)
	if img == nil {
		t.Fatal("Image() = nil")
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Errorf("bounds = %v, want 20x20", b)
	}
	if got := color.RGBAModel.Convert(img.At(10, 10)).(color.RGBA); got != red {
		t.Errorf("center pixel = %v, want %v", got, red)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	if c.Image(2) != img {
		t.Error("Image() should be cached per pixel ratio")
	}
}
