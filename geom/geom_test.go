// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestEmptyExtent(t *testing.T) {
	e := EmptyExtent()
	if !e.IsEmpty() {
		t.Error("EmptyExtent().IsEmpty() = false, want true")
	}
	if e.Intersects(Extent{-1, -1, 1, 1}) {
		t.Error("empty extent should not intersect anything")
	}
	if e.ContainsExtent(Extent{-1, -1, 1, 1}) {
		t.Error("empty extent should not contain a real extent")
	}
	got := e.ExtendCoordinate(Coordinate{3, 4})
	if got != (Extent{3, 4, 3, 4}) {
		t.Errorf("ExtendCoordinate = %v, want point extent", got)
	}
}

func TestExtentContains(t *testing.T) {
	outer := Extent{0, 0, 10, 10}
	tests := []struct {
		name  string
		inner Extent
		want  bool
	}{
		{"inside", Extent{1, 1, 9, 9}, true},
		{"equal", Extent{0, 0, 10, 10}, true},
		{"overlap", Extent{5, 5, 11, 9}, false},
		{"outside", Extent{20, 20, 30, 30}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.ContainsExtent(tt.inner); got != tt.want {
				t.Errorf("ContainsExtent(%v) = %v, want %v", tt.inner, got, tt.want)
			}
		})
	}
}

func TestExtentBufferAndWidth(t *testing.T) {
	e := Extent{0, 0, 10, 20}.Buffer(5)
	if e != (Extent{-5, -5, 15, 25}) {
		t.Errorf("Buffer(5) = %v", e)
	}
	if e.Width() != 20 || e.Height() != 30 {
		t.Errorf("Width/Height = %v/%v, want 20/30", e.Width(), e.Height())
	}
	if c := e.Center(); c != (Coordinate{5, 10}) {
		t.Errorf("Center() = %v, want (5, 10)", c)
	}
}

func TestComposeMapsCenterToViewportCenter(t *testing.T) {
	center := Coordinate{1000, 2000}
	resolution := 10.0
	tr := Compose(400, 300, 1/resolution, -1/resolution, 0, -center[0], -center[1])

	got := tr.Apply(center)
	if !near(got[0], 400) || !near(got[1], 300) {
		t.Errorf("Apply(center) = %v, want (400, 300)", got)
	}

	// One pixel to the right is +resolution in map units; y flips.
	got = tr.Apply(Coordinate{center[0] + resolution, center[1] + resolution})
	if !near(got[0], 401) || !near(got[1], 299) {
		t.Errorf("Apply(offset) = %v, want (401, 299)", got)
	}
}

func TestComposeMatchesProduct(t *testing.T) {
	got := Compose(5, 7, 2, -2, 0.3, -11, 13)
	want := Translate(5, 7).
		Multiply(Scale(2, -2)).
		Multiply(Rotate(0.3)).
		Multiply(Translate(-11, 13))
	for i, pair := range [][2]float64{
		{got.A, want.A}, {got.B, want.B}, {got.C, want.C},
		{got.D, want.D}, {got.E, want.E}, {got.F, want.F},
	} {
		if !near(pair[0], pair[1]) {
			t.Errorf("component %d = %v, want %v", i, pair[0], pair[1])
		}
	}
}

func TestTransformInvert(t *testing.T) {
	tr := Compose(400, 300, 0.1, -0.1, 0.5, -10, -20)
	inv, ok := tr.Invert()
	if !ok {
		t.Fatal("Invert() ok = false")
	}
	c := Coordinate{123, -456}
	back := inv.Apply(tr.Apply(c))
	if !near(back[0], c[0]) || !near(back[1], c[1]) {
		t.Errorf("inv(tr(c)) = %v, want %v", back, c)
	}

	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("singular transform should not invert")
	}
}

func TestRotateAtKeepsPivot(t *testing.T) {
	tr := RotateAt(math.Pi/2, 50, 50)
	got := tr.Apply(Coordinate{50, 50})
	if !near(got[0], 50) || !near(got[1], 50) {
		t.Errorf("pivot moved to %v", got)
	}
	got = tr.Apply(Coordinate{60, 50})
	if !near(got[0], 50) || !near(got[1], 60) {
		t.Errorf("Apply(60,50) = %v, want (50, 60)", got)
	}
}

func TestForViewAndSize(t *testing.T) {
	e := ForViewAndSize(Coordinate{0, 0}, 2, 0, [2]int{100, 50})
	if e != (Extent{-100, -50, 100, 50}) {
		t.Errorf("ForViewAndSize = %v", e)
	}
	rotated := ForViewAndSize(Coordinate{0, 0}, 1, math.Pi/2, [2]int{100, 50})
	if !near(rotated.Width(), 50) || !near(rotated.Height(), 100) {
		t.Errorf("rotated extent = %v, want 50x100", rotated)
	}
}

func TestProjectionWrap(t *testing.T) {
	if !WebMercator().CanWrapX() {
		t.Error("WebMercator().CanWrapX() = false")
	}
	var nilProj *Projection
	if nilProj.CanWrapX() {
		t.Error("nil projection should not wrap")
	}
	if got := Geographic().WorldWidth(); got != 360 {
		t.Errorf("Geographic().WorldWidth() = %v, want 360", got)
	}
}
