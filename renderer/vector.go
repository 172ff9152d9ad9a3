// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"image"
	"slices"

	"github.com/google/uuid"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/frame"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/labelcache"
	"github.com/gogpu/ggmap/layer"
	"github.com/gogpu/ggmap/metrics"
	"github.com/gogpu/ggmap/replay"
	"github.com/gogpu/ggmap/surface"
)

// simplifyTolerance is the simplification tolerance in CSS pixels.
const simplifyTolerance = 0.5

// VectorLayer renders a vector layer through a cached replay group.
//
// The group is rebuilt only when the resolution, the layer revision
// (source revision included), the render order or the needed extent
// changed, or when a previous build was waiting for style images.
type VectorLayer struct {
	id     string
	layer  *layer.Vector
	labels *labelcache.Cache
	stats  *metrics.Collectors

	dirty              bool
	renderedResolution float64
	renderedRevision   int
	renderedOrder      *feature.Order
	renderedExtent     geom.Extent
	group              *replay.Group
	groupChanged       bool

	images         map[feature.ImageStyle]func()
	unlistenLabels func()
}

// NewVectorLayer creates the renderer of l. Text is rasterized through
// labels when it is not nil.
func NewVectorLayer(l *layer.Vector, labels *labelcache.Cache, stats *metrics.Collectors) *VectorLayer {
	r := &VectorLayer{
		id:             uuid.NewString(),
		layer:          l,
		labels:         labels,
		stats:          stats,
		renderedExtent: geom.EmptyExtent(),
		images:         make(map[feature.ImageStyle]func()),
	}
	if labels != nil {
		r.unlistenLabels = labels.OnClear(r.handleLabelsCleared)
	}
	return r
}

// vectorFactory is the default Factory for vector layers.
func vectorFactory(l layer.Layer, m *Map) LayerRenderer {
	v, ok := l.(*layer.Vector)
	if !ok {
		return nil
	}
	return NewVectorLayer(v, m.labels, m.stats)
}

func (r *VectorLayer) ID() string                { return r.id }
func (r *VectorLayer) SurfaceKind() surface.Kind { return surface.KindRaster }
func (r *VectorLayer) Layer() layer.Layer        { return r.layer }

// Group returns the current replay group, nil before the first build.
func (r *VectorLayer) Group() *replay.Group { return r.group }

// Dirty reports whether the current group waits for style images.
func (r *VectorLayer) Dirty() bool { return r.dirty }

// RenderedExtent returns the extent the current group was built for.
func (r *VectorLayer) RenderedExtent() geom.Extent { return r.renderedExtent }

// GroupChanged reports whether the last PrepareFrame rebuilt the group.
func (r *VectorLayer) GroupChanged() bool { return r.groupChanged }

// styleFor returns the feature style function, else the layer's.
func (r *VectorLayer) styleFor(f *feature.Feature) feature.StyleFunc {
	if fn := f.StyleFunc(); fn != nil {
		return fn
	}
	return r.layer.Style()
}

// PrepareFrame rebuilds the replay group when it is no longer valid for f.
func (r *VectorLayer) PrepareFrame(f *frame.State, ls layer.State, s surface.Surface) bool {
	animating, interacting := f.Animating(), f.Interacting()
	if !r.dirty && ((!r.layer.UpdateWhileAnimating() && animating) ||
		(!r.layer.UpdateWhileInteracting() && interacting)) {
		r.groupChanged = false
		r.stats.ReplayReused()
		return true
	}

	src := r.layer.Source()
	view := f.View
	resolution := view.Resolution
	pixelRatio := f.PixelRatio
	revision := r.layer.Revision()
	order := r.layer.Order()

	extent := f.Extent.Buffer(r.layer.RenderBuffer() * resolution)
	if proj := view.Projection; src.WrapX() && proj.CanWrapX() && !proj.Extent.ContainsExtent(f.Extent) {
		gutter := max(extent.Width()/2, proj.WorldWidth())
		extent[0] = proj.Extent[0] - gutter
		extent[2] = proj.Extent[2] + gutter
	}

	if !r.dirty &&
		r.renderedResolution == resolution &&
		r.renderedRevision == revision &&
		r.renderedOrder == order &&
		r.renderedExtent.ContainsExtent(extent) {
		r.groupChanged = false
		r.stats.ReplayReused()
		return true
	}

	r.group = nil
	r.dirty = false

	group := replay.NewGroup(extent, resolution, pixelRatio, src.Overlaps(), r.labels)
	src.LoadFeatures(extent, resolution, view.Projection)

	tolerance := simplifyTolerance * resolution / pixelRatio
	sqTolerance := tolerance * tolerance
	render := func(ft *feature.Feature) {
		fn := r.styleFor(ft)
		if fn == nil {
			return
		}
		styles := fn(ft, resolution)
		if len(styles) == 0 {
			return
		}
		if r.renderFeature(group, ft, styles, sqTolerance) {
			r.dirty = true
		}
	}
	if order != nil && order.Compare != nil {
		var features []*feature.Feature
		src.ForEachFeatureInExtent(extent, func(ft *feature.Feature) bool {
			features = append(features, ft)
			return true
		})
		slices.SortStableFunc(features, order.Compare)
		for _, ft := range features {
			render(ft)
		}
	} else {
		src.ForEachFeatureInExtent(extent, func(ft *feature.Feature) bool {
			render(ft)
			return true
		})
	}
	group.Finish()

	r.renderedResolution = resolution
	r.renderedRevision = revision
	r.renderedOrder = order
	r.renderedExtent = extent
	r.group = group
	r.groupChanged = true
	r.stats.ReplayRebuilt()
	ggmap.Logger().Debug("renderer: replay group rebuilt",
		"layer", r.layer.UID(), "commands", group.Len(), "dirty", r.dirty)
	return true
}

// renderFeature records ft with styles. It reports whether a style image
// is still loading.
func (r *VectorLayer) renderFeature(g *replay.Group, ft *feature.Feature, styles []*feature.Style, sqTolerance float64) bool {
	loading := false
	for _, s := range styles {
		if s == nil {
			continue
		}
		if s.Image != nil && r.watchImage(s.Image) {
			loading = true
		}
		if err := g.AddFeature(ft, s, sqTolerance); err != nil {
			ggmap.Logger().Warn("renderer: add feature", "feature", ft.UID(), "err", err)
		}
	}
	return loading
}

// watchImage starts loading idle images and listens to images that are
// not loaded yet. It reports whether img is still loading.
func (r *VectorLayer) watchImage(img feature.ImageStyle) bool {
	switch img.State() {
	case feature.ImageLoaded, feature.ImageError:
		if unlisten, ok := r.images[img]; ok {
			unlisten()
			delete(r.images, img)
		}
		return false
	case feature.ImageIdle:
		img.Load()
	}
	if _, ok := r.images[img]; !ok {
		r.images[img] = img.OnChange(r.handleImageChange)
	}
	return true
}

// handleImageChange requests a new frame for a loaded style image.
func (r *VectorLayer) handleImageChange() {
	ls := r.layer.State()
	if ls.Visible && ls.Ready() {
		r.layer.Changed()
	}
}

func (r *VectorLayer) handleLabelsCleared() {
	if r.group != nil && r.layer.State().Visible {
		r.layer.Changed()
	}
}

// ComposeFrame replays the group onto s, once per world copy the frame
// extent reaches into.
func (r *VectorLayer) ComposeFrame(f *frame.State, ls layer.State, s surface.Surface) {
	canvas, ok := s.(replay.Canvas)
	if !ok || r.group == nil || r.group.IsEmpty() {
		return
	}
	var skipped map[string]bool
	if ls.Managed {
		skipped = f.SkippedFeatures
	}
	snap := !f.Animating() && !f.Interacting()
	base := s.Transform()

	if ls.Extent != nil {
		x0, y0, x1, y1 := deviceRect(*ls.Extent, base.Multiply(pixelTransform(f, 0)))
		canvas.SetClip(image.Rect(x0, y0, x1, y1))
		defer canvas.ClearClip()
	}

	r.group.Replay(canvas, base.Multiply(pixelTransform(f, 0)), skipped, snap)

	west, east := wrapWorlds(f, r.layer.Source().WrapX())
	w := f.View.Projection.WorldWidth()
	for world := 1; world <= west; world++ {
		r.group.Replay(canvas, base.Multiply(pixelTransform(f, -w*float64(world))), skipped, snap)
	}
	for world := 1; world <= east; world++ {
		r.group.Replay(canvas, base.Multiply(pixelTransform(f, w*float64(world))), skipped, snap)
	}
}

// ForEachFeatureAtCoordinate reports each feature of the group at coord
// once.
func (r *VectorLayer) ForEachFeatureAtCoordinate(coord geom.Coordinate, f *frame.State, hitTolerance float64, cb HitFunc) any {
	if r.group == nil {
		return nil
	}
	var skipped map[string]bool
	if r.layer.State().Managed {
		skipped = f.SkippedFeatures
	}
	seen := make(map[string]bool)
	return r.group.ForEachFeatureAtCoordinate(coord, f.View.Resolution, f.View.Rotation, hitTolerance, skipped,
		func(ft *feature.Feature) any {
			if seen[ft.UID()] {
				return nil
			}
			seen[ft.UID()] = true
			return cb(ft, r.layer)
		})
}

// Close stops listening to style images and the label cache.
func (r *VectorLayer) Close() {
	for img, unlisten := range r.images {
		unlisten()
		delete(r.images, img)
	}
	if r.unlistenLabels != nil {
		r.unlistenLabels()
		r.unlistenLabels = nil
	}
	r.group = nil
}
