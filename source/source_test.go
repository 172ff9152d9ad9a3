// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package source

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
)

func point(x, y float64) *feature.Feature {
	return feature.New(feature.Point{Coord: geom.Coordinate{x, y}}, nil)
}

func TestVectorRevision(t *testing.T) {
	a, b := point(0, 0), point(5, 5)
	v := NewVector([]*feature.Feature{a})
	if v.Revision() != 0 || v.Len() != 1 {
		t.Fatalf("new source: revision %d len %d", v.Revision(), v.Len())
	}

	notified := 0
	v.OnChange(func() { notified++ })

	v.AddFeature(b)
	v.AddFeature(b)
	if v.Len() != 2 || v.Revision() != 1 {
		t.Errorf("after AddFeature: len %d revision %d, want 2 and 1", v.Len(), v.Revision())
	}

	a.Set("name", "moved")
	if v.Revision() != 2 {
		t.Errorf("feature change should bump revision, got %d", v.Revision())
	}

	if !v.RemoveFeature(a) || v.RemoveFeature(a) {
		t.Error("RemoveFeature should succeed once")
	}
	a.Changed()
	if v.Revision() != 3 {
		t.Errorf("removed feature should not bump revision, got %d", v.Revision())
	}
	if notified != 3 {
		t.Errorf("notifications = %d, want 3", notified)
	}
}

func TestForEachFeatureInExtent(t *testing.T) {
	fs := []*feature.Feature{point(0, 0), point(10, 10), point(2, 2), feature.New(nil, nil)}
	v := NewVector(fs)

	var got []*feature.Feature
	v.ForEachFeatureInExtent(geom.Extent{-1, -1, 3, 3}, func(f *feature.Feature) bool {
		got = append(got, f)
		return true
	})
	if len(got) != 2 || got[0] != fs[0] || got[1] != fs[2] {
		t.Errorf("features = %v, want first and third in source order", got)
	}

	calls := 0
	v.ForEachFeatureInExtent(geom.Extent{-100, -100, 100, 100}, func(*feature.Feature) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 after stop", calls)
	}
}

func TestLoadFeaturesStrategy(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		want     int
	}{
		{"all", StrategyAll, 1},
		{"bbox", StrategyBBox, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loads := 0
			loader := func(src *Vector, extent geom.Extent, _ float64, _ *geom.Projection) {
				loads++
				src.AddFeature(point(extent.Center()[0], extent.Center()[1]))
			}
			v := NewVector(nil, WithLoader(loader, tt.strategy))
			v.LoadFeatures(geom.Extent{0, 0, 10, 10}, 1, nil)
			v.LoadFeatures(geom.Extent{2, 2, 8, 8}, 1, nil)
			v.LoadFeatures(geom.Extent{20, 20, 30, 30}, 1, nil)
			if loads != tt.want {
				t.Errorf("loads = %d, want %d", loads, tt.want)
			}
		})
	}
}

func TestTileGridRange(t *testing.T) {
	g := NewXYZGrid(geom.Extent{-512, -512, 512, 512}, 3, 256)
	if g.Resolution(0) != 4 || g.Resolution(2) != 1 {
		t.Fatalf("resolutions = %v", g.Resolutions)
	}
	if z := g.ZForResolution(1.1); z != 2 {
		t.Errorf("ZForResolution(1.1) = %d, want 2", z)
	}

	r := g.TileRangeForExtent(geom.Extent{-512, -512, 512, 512}, 1)
	if r != (TileRange{0, 1, 0, 1}) || r.Len() != 4 {
		t.Errorf("range z1 = %+v", r)
	}

	r = g.TileRangeForExtent(geom.Extent{-1000, 0, -100, 100}, 1)
	if r.MinX != -1 || r.MaxX != 0 || r.MinY != 0 || r.MaxY != 0 {
		t.Errorf("range west of world = %+v", r)
	}

	if e := g.TileExtent(TileCoord{1, 1, 0}); e != (geom.Extent{0, 0, 512, 512}) {
		t.Errorf("TileExtent(1/1/0) = %v", e)
	}
	if c := g.WrapX(TileCoord{1, -1, 0}); c.X != 1 {
		t.Errorf("WrapX(-1) = %d, want 1", c.X)
	}
}

func TestXYZSynchronousLoad(t *testing.T) {
	fail := errors.New("boom")
	x := NewXYZ(func(c TileCoord) (image.Image, error) {
		switch c.X {
		case 0:
			return image.NewRGBA(image.Rect(0, 0, 256, 256)), nil
		case 1:
			return nil, fail
		default:
			return nil, nil
		}
	})

	tile := x.Tile(TileCoord{1, 0, 0})
	if tile != x.Tile(TileCoord{1, 0, 0}) {
		t.Error("Tile() should return the cached tile")
	}
	if tile.State() != TileIdle {
		t.Fatalf("new tile state = %v, want idle", tile.State())
	}
	tile.Load()
	if tile.State() != TileLoaded || tile.Image() == nil {
		t.Errorf("loaded tile state = %v", tile.State())
	}
	if x.Revision() != 1 {
		t.Errorf("Revision() = %d, want 1", x.Revision())
	}

	bad := x.Tile(TileCoord{1, 1, 0})
	bad.Load()
	if bad.State() != TileError || !errors.Is(bad.Err(), fail) {
		t.Errorf("failing tile: state %v err %v", bad.State(), bad.Err())
	}

	wrapped := x.Tile(TileCoord{1, -2, 0})
	if wrapped != tile {
		t.Error("column -2 at zoom 1 should wrap to column 0")
	}
}

func TestXYZDispatcher(t *testing.T) {
	posted := make(chan func(), 1)
	x := NewXYZ(
		func(TileCoord) (image.Image, error) { return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil },
		WithDispatcher(func(fn func()) { posted <- fn }),
	)
	tile := x.Tile(TileCoord{0, 0, 0})
	tile.Load()
	if tile.State() != TileLoading {
		t.Fatalf("state before dispatch = %v, want loading", tile.State())
	}
	(<-posted)()
	if tile.State() != TileLoaded {
		t.Errorf("state after dispatch = %v, want loaded", tile.State())
	}
}
