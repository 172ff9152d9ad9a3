package main

import (
	"context"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/gogpu/ggmap/config"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/frame"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/layer"
	"github.com/gogpu/ggmap/metrics"
	"github.com/gogpu/ggmap/renderer"
	"github.com/gogpu/ggmap/source"
	"github.com/gogpu/ggmap/surface"
)

// maxFrames bounds the frames composed for one image. Every frame uploads
// at most one tile texture.
const maxFrames = 256

// view is the part of a frame a client chooses.
type view struct {
	Center        geom.Coordinate
	Zoom          int
	Rotation      float64
	Width, Height int
}

// sceneRenderer renders the demo scene. Frames are composed one at a time.
type sceneRenderer struct {
	mu         sync.Mutex
	m          *renderer.Map
	proj       *geom.Projection
	grid       *source.TileGrid
	layers     []layer.Layer
	defaults   view
	pixelRatio float64
	pending    bool
	index      int
}

func newRenderer(cfg *config.Config, stats *metrics.Collectors) (*sceneRenderer, error) {
	r := &sceneRenderer{
		proj:       geom.WebMercator(),
		pixelRatio: cfg.Render.PixelRatio,
		defaults: view{
			Center:   geom.Coordinate{cfg.Render.CenterX, cfg.Render.CenterY},
			Zoom:     cfg.Render.Zoom,
			Rotation: cfg.Render.Rotation,
			Width:    cfg.Render.Width,
			Height:   cfg.Render.Height,
		},
	}
	m, err := renderer.NewMap(
		renderer.WithMetrics(stats),
		renderer.WithRequestRender(func() { r.pending = true }),
		renderer.WithGPUOptions(surface.WithTextureCacheSize(cfg.Tiles.CacheSize)),
	)
	if err != nil {
		return nil, err
	}
	r.m = m

	tiles := newTileFunc(cfg.Tiles)
	xyz := source.NewXYZ(tiles)
	r.grid = xyz.Grid()
	r.layers = []layer.Layer{
		layer.NewTile(xyz),
		layer.NewVector(source.NewVector(demoFeatures()), layer.WithStyle(demoStyle), layer.WithZIndex(1)),
	}
	return r, nil
}

// DefaultView returns the configured view.
func (r *sceneRenderer) DefaultView() view { return r.defaults }

// Render composes frames of v until no renderer asks for another one and
// returns the composite.
func (r *sceneRenderer) Render(ctx context.Context, v view) *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	zoom := min(max(v.Zoom, 0), r.grid.MaxZoom())
	for range maxFrames {
		r.pending = false
		f := frame.New([2]int{v.Width, v.Height}, r.pixelRatio, frame.ViewState{
			Center:     v.Center,
			Resolution: r.grid.Resolution(zoom),
			Rotation:   v.Rotation,
			Projection: r.proj,
		}, r.layers...)
		f.Index = r.index
		r.index++
		r.m.RenderFrame(ctx, f)
		if !r.pending || ctx.Err() != nil {
			break
		}
	}
	return r.m.Composite()
}

func (r *sceneRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m.Close()
}

var (
	water  = color.RGBA{66, 133, 244, 160}
	land   = color.RGBA{52, 168, 83, 200}
	road   = color.RGBA{251, 188, 5, 255}
	marker = color.RGBA{234, 67, 53, 255}
	ink    = color.RGBA{32, 33, 36, 255}
)

// demoFeatures returns a lake with an island, a road and a few labelled
// places, in EPSG:3857 meters.
func demoFeatures() []*feature.Feature {
	const km = 1000.0
	lake := feature.New(feature.Polygon{Rings: [][]geom.Coordinate{
		ring(0, 0, 3000*km, 24),
		ring(500*km, 300*km, 800*km, 12),
	}}, map[string]any{"kind": "water"})
	island := feature.New(feature.Polygon{Rings: [][]geom.Coordinate{
		ring(500*km, 300*km, 700*km, 12),
	}}, map[string]any{"kind": "land"})
	route := feature.New(feature.LineString{Coords: []geom.Coordinate{
		{-8000 * km, -4000 * km}, {-2000 * km, -1500 * km}, {2500 * km, -3500 * km}, {9000 * km, 1000 * km},
	}}, map[string]any{"kind": "road"})

	fs := []*feature.Feature{lake, island, route}
	for i, p := range []struct {
		name string
		at   geom.Coordinate
	}{
		{"Alpha", geom.Coordinate{-6000 * km, 4000 * km}},
		{"Beta", geom.Coordinate{5000 * km, 5000 * km}},
		{"Gamma", geom.Coordinate{-1000 * km, -6000 * km}},
	} {
		fs = append(fs, feature.New(feature.Point{Coord: p.at}, map[string]any{
			"kind": "place", "name": p.name, "rank": i,
		}))
	}
	return fs
}

func ring(cx, cy, radius float64, n int) []geom.Coordinate {
	pts := make([]geom.Coordinate, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.Coordinate{cx + radius*math.Cos(a), cy + radius*math.Sin(a)}
	}
	return pts
}

var placeSymbol = &feature.Circle{
	Radius: 5,
	Fill:   &feature.Fill{Color: marker},
	Stroke: &feature.Stroke{Color: color.RGBA{255, 255, 255, 255}, Width: 1.5},
}

func demoStyle(f *feature.Feature, _ float64) []*feature.Style {
	kind, _ := f.Get("kind")
	switch kind {
	case "water":
		return []*feature.Style{{Fill: &feature.Fill{Color: water}, Stroke: &feature.Stroke{Color: ink, Width: 1}}}
	case "land":
		return []*feature.Style{{Fill: &feature.Fill{Color: land}, ZIndex: 1}}
	case "road":
		return []*feature.Style{
			{Stroke: &feature.Stroke{Color: ink, Width: 6}},
			{Stroke: &feature.Stroke{Color: road, Width: 4}, ZIndex: 1},
		}
	case "place":
		name, _ := f.Get("name")
		label, _ := name.(string)
		return []*feature.Style{{
			Image:  placeSymbol,
			Text:   &feature.Text{Text: label, Color: ink, Size: 13, OffsetY: -14},
			ZIndex: 2,
		}}
	}
	return nil
}
