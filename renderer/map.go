// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/frame"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/labelcache"
	"github.com/gogpu/ggmap/layer"
	"github.com/gogpu/ggmap/metrics"
	"github.com/gogpu/ggmap/replay"
	"github.com/gogpu/ggmap/surface"
)

const tracerName = "github.com/gogpu/ggmap/renderer"

// overlayOwner owns the surface compose listeners draw onto.
type overlayOwner struct{}

func (overlayOwner) ID() string                { return "ggmap.overlay" }
func (overlayOwner) SurfaceKind() surface.Kind { return surface.KindRaster }

// composed is a surface drawn in the current frame.
type composed struct {
	layer   layer.Layer
	surface surface.Surface
}

// managed is a renderer and its subscription to layer changes.
type managed struct {
	renderer LayerRenderer
	unlisten func()
}

// Map composites frames from the surfaces of its layer renderers.
//
// Map is not safe for concurrent use; frames are rendered from one
// goroutine.
type Map struct {
	pool       *surface.Pool
	labels     *labelcache.Cache
	ownsLabels bool
	stats      *metrics.Collectors
	tracer     trace.Tracer

	factories     map[layer.Type]Factory
	renderers     map[string]*managed
	requestRender func()

	preCompose  listeners
	postCompose listeners

	visible  bool
	size     [2]int
	composed []composed
	overlay  surface.Surface
}

type config struct {
	registry   *surface.Registry
	gpuOptions []surface.GPUOption
	labels     *labelcache.Cache
	stats      *metrics.Collectors
	tracer     trace.TracerProvider
	request    func()
	factories  map[layer.Type]Factory
}

// Option configures a Map.
type Option func(*config)

// WithSurfaceRegistry creates surfaces through reg instead of the raster
// and GPU defaults.
func WithSurfaceRegistry(reg *surface.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// WithGPUOptions passes opts to every GPU surface of the default registry.
func WithGPUOptions(opts ...surface.GPUOption) Option {
	return func(c *config) { c.gpuOptions = append(c.gpuOptions, opts...) }
}

// WithLabelCache shares a label cache. By default the Map owns one.
func WithLabelCache(lc *labelcache.Cache) Option {
	return func(c *config) { c.labels = lc }
}

// WithMetrics records frame, layer and texture metrics.
func WithMetrics(m *metrics.Collectors) Option {
	return func(c *config) { c.stats = m }
}

// WithTracerProvider sets the provider of frame spans. The default is the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) { c.tracer = tp }
}

// WithRequestRender sets the callback asking the display loop for another
// frame, after texture uploads, context restores and layer changes.
func WithRequestRender(fn func()) Option {
	return func(c *config) { c.request = fn }
}

// WithRendererFactory renders layers of type t with f.
func WithRendererFactory(t layer.Type, f Factory) Option {
	return func(c *config) { c.factories[t] = f }
}

// NewMap creates a compositor.
func NewMap(opts ...Option) (*Map, error) {
	cfg := config{
		factories: map[layer.Type]Factory{
			layer.TypeVector: vectorFactory,
			layer.TypeTile:   tileFactory,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.tracer == nil {
		cfg.tracer = otel.GetTracerProvider()
	}

	m := &Map{
		stats:         cfg.stats,
		tracer:        cfg.tracer.Tracer(tracerName),
		factories:     cfg.factories,
		renderers:     make(map[string]*managed),
		requestRender: cfg.request,
		visible:       true,
	}

	m.labels = cfg.labels
	if m.labels == nil {
		lc, err := labelcache.New(labelcache.WithMetrics(cfg.stats))
		if err != nil {
			return nil, err
		}
		m.labels, m.ownsLabels = lc, true
	}

	reg := cfg.registry
	if reg == nil {
		gpuOpts := append([]surface.GPUOption{
			surface.WithRequestRender(m.RequestRender),
			surface.WithGPUMetrics(cfg.stats),
		}, cfg.gpuOptions...)
		reg = surface.NewRegistry()
		reg.Register(surface.KindRaster, surface.RasterFactory)
		reg.Register(surface.KindGPU, func(o surface.Options) (surface.Surface, error) {
			return surface.NewGPU(o.Width, o.Height, gpuOpts...)
		})
	}
	m.pool = surface.NewPool(reg, surface.WithPoolMetrics(cfg.stats))
	return m, nil
}

// Pool returns the surface pool.
func (m *Map) Pool() *surface.Pool { return m.pool }

// Labels returns the label cache.
func (m *Map) Labels() *labelcache.Cache { return m.labels }

// RequestRender asks for another frame.
func (m *Map) RequestRender() {
	if m.requestRender != nil {
		m.requestRender()
	}
}

// On registers fn for compose events of type t.
func (m *Map) On(t EventType, fn func(*ComposeEvent)) (unlisten func()) {
	if t == EventPreCompose {
		return m.preCompose.add(fn)
	}
	return m.postCompose.add(fn)
}

// Renderer returns the renderer of l, creating it on first use. It
// returns nil when no factory can render l.
func (m *Map) Renderer(l layer.Layer) LayerRenderer {
	if r, ok := m.renderers[l.UID()]; ok {
		return r.renderer
	}
	f, ok := m.factories[l.Type()]
	if !ok {
		return nil
	}
	r := f(l, m)
	if r == nil {
		return nil
	}
	m.renderers[l.UID()] = &managed{renderer: r, unlisten: l.OnChange(m.RequestRender)}
	return r
}

// RenderFrame composites f. A nil frame hides every surface.
func (m *Map) RenderFrame(ctx context.Context, f *frame.State) {
	if f == nil {
		if m.visible {
			m.pool.Hide()
			m.visible = false
		}
		m.composed = m.composed[:0]
		return
	}

	_, span := m.tracer.Start(ctx, "ggmap.RenderFrame", trace.WithAttributes(
		attribute.Int("frame.index", f.Index),
		attribute.Int("frame.layers", len(f.LayerStates)),
	))
	defer span.End()
	start := time.Now()

	m.size = f.PixelSize()
	m.pool.Clear(m.size[0], m.size[1])
	m.composed = m.composed[:0]
	m.overlay = nil

	m.dispatch(&m.preCompose, EventPreCompose, f)

	frame.SortByZIndex(f.LayerStates)
	rotation := f.View.Rotation
	if rotation != 0 {
		m.pool.Save()
		m.pool.Rotate(rotation, float64(m.size[0])/2, float64(m.size[1])/2)
	}

	resolution := f.View.Resolution
	for _, ls := range f.LayerStates {
		if !ls.VisibleAtResolution(resolution) {
			m.stats.LayerSkipped(metrics.ReasonHidden)
			continue
		}
		if !ls.Ready() {
			m.stats.LayerSkipped(metrics.ReasonNotReady)
			continue
		}
		r := m.Renderer(ls.Layer)
		if r == nil {
			m.stats.LayerSkipped(metrics.ReasonNoRenderer)
			continue
		}
		s := m.pool.Get(r)
		if s == nil {
			m.stats.LayerSkipped(metrics.ReasonNoSurface)
			continue
		}
		s.SetOpacity(ls.Opacity)
		if r.PrepareFrame(f, ls, s) {
			r.ComposeFrame(f, ls, s)
			m.composed = append(m.composed, composed{layer: ls.Layer, surface: s})
			m.stats.LayerComposed()
		}
	}

	if rotation != 0 {
		m.pool.Restore()
	}

	m.dispatch(&m.postCompose, EventPostCompose, f)

	if !m.visible {
		m.pool.Show()
		m.visible = true
	}

	m.scheduleRemoveUnusedRenderers(f)
	m.scheduleExpireLabels(f)
	span.SetAttributes(attribute.Int("frame.composed", len(m.composed)))

	f.RunPostRender()
	m.stats.FrameRendered(time.Since(start))
}

// dispatch fires a compose event when anyone listens.
func (m *Map) dispatch(ls *listeners, t EventType, f *frame.State) {
	if ls.empty() {
		return
	}
	if m.overlay == nil {
		m.overlay = m.pool.Get(overlayOwner{})
	}
	e := &ComposeEvent{Type: t, Frame: f, Surface: m.overlay}
	if c, ok := m.overlay.(replay.Canvas); ok {
		e.Immediate = replay.NewImmediate(c, rotatedPixelTransform(f), f.Extent, f.PixelRatio, m.labels)
	}
	ls.dispatch(e)
}

// scheduleRemoveUnusedRenderers queues the removal of renderers whose
// layer is not part of f.
func (m *Map) scheduleRemoveUnusedRenderers(f *frame.State) {
	inFrame := make(map[string]bool, len(f.LayerStates))
	for _, ls := range f.LayerStates {
		inFrame[ls.Layer.UID()] = true
	}
	for uid := range m.renderers {
		if !inFrame[uid] {
			f.AddPostRender(func(*frame.State) { m.removeUnused(inFrame) })
			return
		}
	}
}

func (m *Map) removeUnused(inFrame map[string]bool) {
	for uid, r := range m.renderers {
		if inFrame[uid] {
			continue
		}
		r.unlisten()
		r.renderer.Close()
		m.pool.Remove(r.renderer.ID())
		delete(m.renderers, uid)
		ggmap.Logger().Debug("renderer: removed", "layer", uid)
	}
}

func (m *Map) scheduleExpireLabels(f *frame.State) {
	if m.labels.Len() == 0 {
		return
	}
	f.AddPostRender(func(*frame.State) { m.labels.Expire() })
}

// Composite returns the surfaces drawn by the last frame blended in
// z-order with their layer opacity, compose overlay last. It returns nil
// while hidden.
func (m *Map) Composite() *image.RGBA {
	if !m.visible {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, m.size[0], m.size[1]))
	for _, c := range m.composed {
		blend(dst, c.surface)
	}
	if m.overlay != nil {
		blend(dst, m.overlay)
	}
	return dst
}

func blend(dst *image.RGBA, s surface.Surface) {
	if !s.Visible() || s.Opacity() <= 0 {
		return
	}
	var mask image.Image
	if o := s.Opacity(); o < 1 {
		mask = image.NewUniform(color.Alpha{A: uint8(math.Round(o * 255))})
	}
	draw.DrawMask(dst, dst.Bounds(), s.Image(), image.Point{}, mask, image.Point{}, draw.Over)
}

// ForEachFeatureAtCoordinate calls cb for each feature at coord, topmost
// layer first, until cb returns a non-nil value. hitTolerance is in CSS
// pixels. Coordinates in a wrapped world are moved into the projection
// extent for layers whose source wraps.
func (m *Map) ForEachFeatureAtCoordinate(coord geom.Coordinate, f *frame.State, hitTolerance float64, cb HitFunc) any {
	if f == nil {
		return nil
	}
	translated := coord
	if proj := f.View.Projection; proj.CanWrapX() {
		pe := proj.Extent
		if w := proj.WorldWidth(); coord[0] < pe[0] || coord[0] > pe[2] {
			worlds := math.Ceil((pe[0] - coord[0]) / w)
			translated = geom.Coordinate{coord[0] + w*worlds, coord[1]}
		}
	}
	for i := len(f.LayerStates) - 1; i >= 0; i-- {
		ls := f.LayerStates[i]
		if !ls.VisibleAtResolution(f.View.Resolution) {
			continue
		}
		r, ok := m.renderers[ls.Layer.UID()]
		if !ok {
			continue
		}
		c := coord
		if wrapsX(ls.Layer) {
			c = translated
		}
		if res := r.renderer.ForEachFeatureAtCoordinate(c, f, hitTolerance, cb); res != nil {
			return res
		}
	}
	return nil
}

func wrapsX(l layer.Layer) bool {
	switch l := l.(type) {
	case *layer.Vector:
		return l.Source() != nil && l.Source().WrapX()
	case *layer.Tile:
		return l.Source() != nil && l.Source().WrapX()
	}
	return false
}

// Close releases every renderer and surface.
func (m *Map) Close() error {
	for uid, r := range m.renderers {
		r.unlisten()
		r.renderer.Close()
		delete(m.renderers, uid)
	}
	err := m.pool.Close()
	if m.ownsLabels {
		m.labels.Close()
	}
	return err
}
