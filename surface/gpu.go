// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	_ "embed"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/metrics"
	"github.com/gogpu/ggmap/tiletex"
)

//go:embed shaders/tile.wgsl
var tileShaderSource string

// GPU is a surface whose content is tile textures.
//
// Textures are owned by the surface's tiletex.Loader. Every drawn tile lands
// in the staging image returned by Image. Handles uploaded through a
// gpucontext.TextureCreator are also drawn with the attached
// gpucontext.TextureDrawer.
//
// On context loss every loss listener runs first, so renderers drop their
// handles, and only then is the texture cache cleared. On restore the tile
// program is rebuilt and a repaint is requested.
type GPU struct {
	base
	staging *image.RGBA
	loader  *tiletex.Loader
	drawer  gpucontext.TextureDrawer
	format  gputypes.TextureFormat

	device  hal.Device
	program []uint32
	module  hal.ShaderModule

	lost            bool
	warnedTransform bool
	next            int
	lossListeners   map[int]func()
	requestRender   func()
	stats           *metrics.Collectors
}

type gpuConfig struct {
	uploader      tiletex.Uploader
	cacheSize     int
	drawer        gpucontext.TextureDrawer
	device        hal.Device
	format        gputypes.TextureFormat
	requestRender func()
	stats         *metrics.Collectors
}

// GPUOption configures a GPU surface.
type GPUOption func(*gpuConfig)

// WithUploader sets the texture uploader. The default uploads through the
// texture drawer's creator when one is attached, else keeps textures in
// memory.
func WithUploader(u tiletex.Uploader) GPUOption {
	return func(c *gpuConfig) { c.uploader = u }
}

// WithTextureCacheSize bounds the texture cache.
func WithTextureCacheSize(n int) GPUOption {
	return func(c *gpuConfig) { c.cacheSize = n }
}

// WithTextureDrawer draws GPU texture handles through d. The drawer only
// receives tiles whose transform is a pure translation; the staging image
// returned by Image always holds every drawn tile.
func WithTextureDrawer(d gpucontext.TextureDrawer) GPUOption {
	return func(c *gpuConfig) { c.drawer = d }
}

// WithHALDevice creates the tile shader module on device.
func WithHALDevice(device hal.Device) GPUOption {
	return func(c *gpuConfig) { c.device = device }
}

// WithFormat sets the texture format. Default RGBA8Unorm.
func WithFormat(f gputypes.TextureFormat) GPUOption {
	return func(c *gpuConfig) { c.format = f }
}

// WithRequestRender sets the callback asking for a new frame.
func WithRequestRender(fn func()) GPUOption {
	return func(c *gpuConfig) { c.requestRender = fn }
}

// WithGPUMetrics records uploads, evictions and context losses.
func WithGPUMetrics(m *metrics.Collectors) GPUOption {
	return func(c *gpuConfig) { c.stats = m }
}

// NewGPU creates a GPU surface of width x height device pixels.
func NewGPU(width, height int, opts ...GPUOption) (*GPU, error) {
	cfg := gpuConfig{format: gputypes.TextureFormatRGBA8Unorm}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.uploader == nil {
		cfg.uploader = defaultUploader(cfg.drawer)
	}
	loader, err := tiletex.NewLoader(cfg.uploader,
		tiletex.WithCacheSize(cfg.cacheSize),
		tiletex.WithMetrics(cfg.stats),
	)
	if err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}
	g := &GPU{
		base:          newBase(),
		staging:       resize(nil, width, height),
		loader:        loader,
		drawer:        cfg.drawer,
		format:        cfg.format,
		device:        cfg.device,
		lossListeners: make(map[int]func()),
		requestRender: cfg.requestRender,
		stats:         cfg.stats,
	}
	g.initProgram()
	return g, nil
}

func defaultUploader(d gpucontext.TextureDrawer) tiletex.Uploader {
	if d != nil {
		if creator := d.TextureCreator(); creator != nil {
			if u, err := tiletex.NewCreatorUploader(creator); err == nil {
				return u
			}
		}
	}
	return tiletex.SoftwareUploader{}
}

func (g *GPU) Kind() Kind { return KindGPU }

// Loader returns the tile texture loader.
func (g *GPU) Loader() *tiletex.Loader { return g.loader }

// Format returns the texture format.
func (g *GPU) Format() gputypes.TextureFormat { return g.format }

func (g *GPU) Clear(width, height int) {
	g.staging = resize(g.staging, width, height)
}

func (g *GPU) Size() (int, int) {
	b := g.staging.Bounds()
	return b.Dx(), b.Dy()
}

func (g *GPU) Image() *image.RGBA { return g.staging }

// DrawTexture draws a cached texture. tr maps texture pixels, gutter
// included, to surface pixels. It reports whether anything was drawn.
//
// Every tile lands in the staging image. GPU handles are also handed to the
// texture drawer, which can only place a texture at a position: when tr
// scales or rotates, the drawer is skipped and a warning is logged once.
func (g *GPU) DrawTexture(e tiletex.Entry, tr geom.Transform) bool {
	if g.lost {
		return false
	}
	switch h := e.Handle.(type) {
	case *image.RGBA:
		g.drawStaging(e, h, tr)
		return true
	case gpucontext.Texture:
		drawn := g.drawGPU(h, tr)
		if e.Pixels != nil {
			g.drawStaging(e, e.Pixels, tr)
			drawn = true
		}
		return drawn
	default:
		return false
	}
}

func (g *GPU) drawStaging(e tiletex.Entry, img *image.RGBA, tr geom.Transform) {
	sr := image.Rect(e.Gutter, e.Gutter, e.Width-e.Gutter, e.Height-e.Gutter).Add(img.Rect.Min)
	xdraw.ApproxBiLinear.Transform(g.staging, f64.Aff3{tr.A, tr.B, tr.C, tr.D, tr.E, tr.F}, img, sr, xdraw.Over, nil)
}

func (g *GPU) drawGPU(tex gpucontext.Texture, tr geom.Transform) bool {
	if g.drawer == nil {
		return false
	}
	if !isTranslation(tr) {
		if !g.warnedTransform {
			g.warnedTransform = true
			ggmap.Logger().Warn("surface: texture drawer cannot scale or rotate, tiles drawn in memory only")
		}
		return false
	}
	if err := g.drawer.DrawTexture(tex, float32(tr.C), float32(tr.F)); err != nil {
		ggmap.Logger().Warn("surface: draw texture", "err", err)
		return false
	}
	return true
}

// isTranslation reports whether tr only moves points.
func isTranslation(tr geom.Transform) bool {
	const eps = 1e-9
	return math.Abs(tr.A-1) < eps && math.Abs(tr.E-1) < eps &&
		math.Abs(tr.B) < eps && math.Abs(tr.D) < eps
}

// OnContextLost registers fn to run when the context is lost, before the
// texture cache is cleared.
func (g *GPU) OnContextLost(fn func()) (unlisten func()) {
	id := g.next
	g.next++
	g.lossListeners[id] = fn
	return func() { delete(g.lossListeners, id) }
}

// Lost reports whether the context is lost.
func (g *GPU) Lost() bool { return g.lost }

// HandleContextLost resets the surface after a context loss.
func (g *GPU) HandleContextLost() {
	if g.lost {
		return
	}
	g.lost = true
	for _, fn := range g.lossListeners {
		fn()
	}
	g.loader.HandleContextLost()
	g.module = nil
	g.stats.ContextLost()
	ggmap.Logger().Warn("surface: GPU context lost")
}

// HandleContextRestored rebuilds GPU state and requests a repaint.
func (g *GPU) HandleContextRestored() {
	if !g.lost {
		return
	}
	g.lost = false
	g.loader.HandleContextRestored()
	g.initProgram()
	ggmap.Logger().Info("surface: GPU context restored")
	if g.requestRender != nil {
		g.requestRender()
	}
}

// initProgram compiles the tile program and, with a HAL device, creates
// its shader module. Failures are logged; tiles still draw through the
// texture drawer.
func (g *GPU) initProgram() {
	if g.program == nil {
		code, err := compileWGSL(tileShaderSource)
		if err != nil {
			ggmap.Logger().Warn("surface: tile program", "err", err)
			return
		}
		g.program = code
	}
	if g.device == nil {
		return
	}
	m, err := g.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "ggmap_tile",
		Source: hal.ShaderSource{SPIRV: g.program},
	})
	if err != nil {
		ggmap.Logger().Warn("surface: tile shader module", "err", err)
		return
	}
	g.module = m
}

// Program returns the compiled tile program as SPIR-V words.
func (g *GPU) Program() []uint32 { return g.program }

func (g *GPU) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	g.loader.Close()
	if g.device != nil && g.module != nil && !g.lost {
		g.device.DestroyShaderModule(g.module)
	}
	g.module = nil
	return nil
}

// compileWGSL compiles WGSL to little-endian SPIR-V words.
func compileWGSL(src string) ([]uint32, error) {
	b, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("surface: failed to compile shader: %w", err)
	}
	code := make([]uint32, len(b)/4)
	for i := range code {
		code[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return code, nil
}
