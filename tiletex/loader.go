// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tiletex

import (
	"math"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/internal/pqueue"
	"github.com/gogpu/ggmap/metrics"
	"github.com/gogpu/ggmap/source"
)

// Element is a tile waiting for upload.
type Element struct {
	Tile       *source.Tile
	Center     geom.Coordinate
	Resolution float64
	Size       [2]int
	Gutter     int
}

// Key returns the tile identity.
func (e Element) Key() string { return e.Tile.Key() }

// Priority returns the drain cost of e for a focus coordinate.
func Priority(e Element, focus geom.Coordinate) float64 {
	if e.Resolution <= 0 || math.IsNaN(focus[0]) || math.IsNaN(focus[1]) {
		return pqueue.Drop
	}
	return 65536*math.Log(e.Resolution) + geom.Distance(e.Center, focus)/e.Resolution
}

// Loader owns the texture cache and the upload queue.
//
// Loader is not safe for concurrent use.
type Loader struct {
	cache    *Cache
	queue    *pqueue.Queue[Element]
	uploader Uploader
	focus    geom.Coordinate
	hasFocus bool
	lost     bool
	stats    *metrics.Collectors
}

// Option configures a Loader.
type Option func(*Loader)

// WithCacheSize sets the texture cache bound.
func WithCacheSize(n int) Option {
	return func(l *Loader) { l.cache = NewCache(n) }
}

// WithMetrics records uploads, failures, evictions and queue depth.
func WithMetrics(m *metrics.Collectors) Option {
	return func(l *Loader) { l.stats = m }
}

// NewLoader creates a loader uploading with u.
func NewLoader(u Uploader, opts ...Option) (*Loader, error) {
	if u == nil {
		return nil, ErrNilUploader
	}
	l := &Loader{uploader: u}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = NewCache(DefaultCacheSize)
	}
	l.cache.onEvict = func(string) { l.stats.TextureEvicted() }
	l.queue = pqueue.New(l.priority, Element.Key)
	return l, nil
}

// priority ranks by resolution alone until a focus is known.
func (l *Loader) priority(e Element) float64 {
	if !l.hasFocus {
		return Priority(e, e.Center)
	}
	return Priority(e, l.focus)
}

// SetFocus sets the coordinate queued tiles are ranked against. A NaN
// coordinate clears the focus.
func (l *Loader) SetFocus(focus geom.Coordinate) {
	l.focus = focus
	l.hasFocus = !math.IsNaN(focus[0]) && !math.IsNaN(focus[1])
}

// Cache returns the texture cache. Callers may query it but must not
// mutate entries.
func (l *Loader) Cache() *Cache { return l.cache }

// IsLoaded reports whether the tile with key has a texture. A hit is a use.
// It is always false while the context is lost.
func (l *Loader) IsLoaded(key string) bool {
	if l.lost {
		return false
	}
	return l.cache.Contains(key)
}

// Texture returns the texture of key. A hit is a use.
func (l *Loader) Texture(key string) (Entry, bool) {
	if l.lost {
		return Entry{}, false
	}
	return l.cache.Get(key)
}

// Enqueue adds e to the upload queue, replacing a queued element with the
// same tile key.
func (l *Loader) Enqueue(e Element) {
	if e.Tile == nil {
		return
	}
	l.queue.Enqueue(e)
	l.stats.SetTextureQueue(l.queue.Len())
}

// Queued reports whether the tile with key waits for upload.
func (l *Loader) Queued(key string) bool { return l.queue.Contains(key) }

// QueueLen returns the number of pending uploads.
func (l *Loader) QueueLen() int { return l.queue.Len() }

// DrainOne recomputes every priority for focus, dequeues the cheapest
// element and uploads it. At most one texture is uploaded per call. It
// reports whether an upload happened.
func (l *Loader) DrainOne(focus geom.Coordinate) bool {
	if l.lost || l.queue.IsEmpty() {
		return false
	}
	l.SetFocus(focus)
	l.queue.Reprioritize()
	defer func() { l.stats.SetTextureQueue(l.queue.Len()) }()

	e, ok := l.queue.Dequeue()
	if !ok {
		return false
	}
	key := e.Key()
	if l.cache.Contains(key) {
		return false
	}
	entry, err := l.uploader.Upload(e.Tile.Image(), e.Gutter)
	if err != nil {
		ggmap.Logger().Warn("tiletex: upload failed", "tile", key, "err", err)
		l.stats.UploadFailed()
		return false
	}
	l.cache.Set(key, entry)
	l.stats.TextureUploaded()
	ggmap.Logger().Debug("tiletex: uploaded", "tile", key, "queued", l.queue.Len())
	return true
}

// HandleContextLost forgets every texture and pending upload. The handles
// are not destroyed since they died with the context.
func (l *Loader) HandleContextLost() {
	l.lost = true
	l.cache.drop()
	l.queue.Clear()
	l.stats.SetTextureQueue(0)
}

// HandleContextRestored resumes uploads.
func (l *Loader) HandleContextRestored() {
	l.lost = false
}

// Lost reports whether the context is lost.
func (l *Loader) Lost() bool { return l.lost }

// Close destroys every texture and drops the queue.
func (l *Loader) Close() {
	l.cache.Clear()
	l.queue.Clear()
}
