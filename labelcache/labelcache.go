// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package labelcache rasterizes text labels and keeps them for reuse.
//
// A Cache is owned by one map compositor. It is created with the
// compositor, expired after every frame and cleared when the font changes;
// clear listeners let renderers rebuild whatever referenced old labels.
package labelcache

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/internal/lru"
	"github.com/gogpu/ggmap/metrics"
)

// ErrNilFont is returned by SetFont for a nil font.
var ErrNilFont = errors.New("labelcache: nil font")

// DefaultSize is the font size used when a label asks for none.
const DefaultSize = 12

const padding = 2

type key struct {
	text  string
	size  float64
	color color.RGBA
	ratio float64
}

type entry struct {
	img  *image.RGBA
	used time.Time
}

// Cache holds rasterized labels.
//
// Cache is not safe for concurrent use.
type Cache struct {
	font    *opentype.Font
	faces   map[float64]font.Face
	entries *lru.Cache[key, *entry]
	ttl     time.Duration
	now     func() time.Time
	stats   *metrics.Collectors

	next      int
	listeners map[int]func()
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long an unused label is kept. Default one minute.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithMaxEntries bounds the number of labels. Default 1024.
func WithMaxEntries(n int) Option {
	return func(c *Cache) { c.entries = lru.New[key, *entry](n) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithFont sets the initial font. Default Go Regular.
func WithFont(f *opentype.Font) Option {
	return func(c *Cache) { c.font = f }
}

// WithMetrics records the cache size.
func WithMetrics(m *metrics.Collectors) Option {
	return func(c *Cache) { c.stats = m }
}

// New creates an empty cache.
func New(opts ...Option) (*Cache, error) {
	c := &Cache{
		faces:     make(map[float64]font.Face),
		ttl:       time.Minute,
		now:       time.Now,
		listeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.entries == nil {
		c.entries = lru.New[key, *entry](1024)
	}
	if c.font == nil {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("labelcache: parse default font: %w", err)
		}
		c.font = f
	}
	return c, nil
}

// Len returns the number of cached labels.
func (c *Cache) Len() int { return c.entries.Len() }

// Label returns text rasterized at size CSS pixels for pixelRatio.
// It returns nil for empty text or when the face cannot be created.
func (c *Cache) Label(text string, size float64, col color.RGBA, pixelRatio float64) *image.RGBA {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultSize
	}
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	k := key{text: text, size: size, color: col, ratio: pixelRatio}
	if e, ok := c.entries.Get(k); ok {
		e.used = c.now()
		return e.img
	}

	face, err := c.face(size * pixelRatio)
	if err != nil {
		ggmap.Logger().Warn("labelcache: face", "size", size, "err", err)
		return nil
	}
	img := rasterize(face, text, col)
	c.entries.Set(k, &entry{img: img, used: c.now()})
	c.stats.SetLabelCacheSize(c.entries.Len())
	return img
}

func (c *Cache) face(px float64) (font.Face, error) {
	if f, ok := c.faces[px]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	c.faces[px] = f
	return f, nil
}

func rasterize(face font.Face, text string, col color.RGBA) *image.RGBA {
	m := face.Metrics()
	adv := font.MeasureString(face, text)
	w := adv.Ceil() + 2*padding
	h := (m.Ascent + m.Descent).Ceil() + 2*padding
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(padding), Y: fixed.I(padding) + m.Ascent},
	}
	d.DrawString(text)
	return img
}

// SetFont replaces the font and clears the cache.
func (c *Cache) SetFont(f *opentype.Font) error {
	if f == nil {
		return ErrNilFont
	}
	c.closeFaces()
	c.font = f
	c.Clear()
	return nil
}

// Clear drops every label and notifies clear listeners.
func (c *Cache) Clear() {
	c.entries.Clear()
	c.stats.SetLabelCacheSize(0)
	for _, fn := range c.listeners {
		fn()
	}
}

// OnClear registers fn to run after every Clear.
func (c *Cache) OnClear(fn func()) (unlisten func()) {
	id := c.next
	c.next++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}

// Expire removes labels unused for longer than the TTL and returns how many
// were removed.
func (c *Cache) Expire() int {
	cutoff := c.now().Add(-c.ttl)
	var stale []key
	c.entries.ForEach(func(k key, e *entry) bool {
		if e.used.Before(cutoff) {
			stale = append(stale, k)
		}
		return true
	})
	for _, k := range stale {
		c.entries.Remove(k)
	}
	if len(stale) > 0 {
		c.stats.SetLabelCacheSize(c.entries.Len())
	}
	return len(stale)
}

// Close releases the font faces.
func (c *Cache) Close() error {
	c.closeFaces()
	c.entries.Clear()
	return nil
}

func (c *Cache) closeFaces() {
	for px, f := range c.faces {
		_ = f.Close()
		delete(c.faces, px)
	}
}
