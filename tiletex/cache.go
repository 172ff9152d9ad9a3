// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tiletex

import (
	"image"

	"github.com/gogpu/ggmap/internal/lru"
)

// DefaultCacheSize is the default number of cached textures.
const DefaultCacheSize = 1024

// Entry is an uploaded tile texture.
type Entry struct {
	// Handle is the texture. GPU uploads store a gpucontext.Texture,
	// software uploads an *image.RGBA.
	Handle any
	// Pixels is the uploaded image, kept for GPU handles so the tile can
	// also be drawn in memory.
	Pixels *image.RGBA
	Width  int
	Height int
	Gutter int
}

type destroyer interface {
	Destroy()
}

func (e Entry) destroy() {
	if d, ok := e.Handle.(destroyer); ok {
		d.Destroy()
	}
}

// Cache is a bounded LRU of tile textures keyed by tile identity.
// Evicted and replaced textures are destroyed when their handle supports it.
type Cache struct {
	lru     *lru.Cache[string, Entry]
	onEvict func(key string)
}

// NewCache creates a cache holding at most size textures.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c := &Cache{lru: lru.New[string, Entry](size)}
	c.lru.OnEvict(func(key string, e Entry) {
		e.destroy()
		if c.onEvict != nil {
			c.onEvict(key)
		}
	})
	return c
}

// Len returns the number of cached textures.
func (c *Cache) Len() int { return c.lru.Len() }

// Capacity returns the entry bound.
func (c *Cache) Capacity() int { return c.lru.Capacity() }

// Contains reports whether key has a texture. A hit is a use.
func (c *Cache) Contains(key string) bool { return c.lru.Contains(key) }

// Get returns the texture of key. A hit is a use.
func (c *Cache) Get(key string) (Entry, bool) { return c.lru.Get(key) }

// Set stores a texture, evicting the least recently used one when full.
func (c *Cache) Set(key string, e Entry) {
	if old, ok := c.lru.Peek(key); ok && old.Handle != e.Handle {
		old.destroy()
	}
	c.lru.Set(key, e)
}

// Remove destroys and forgets the texture of key.
func (c *Cache) Remove(key string) bool {
	e, ok := c.lru.Peek(key)
	if !ok {
		return false
	}
	e.destroy()
	return c.lru.Remove(key)
}

// Keys returns the cached keys from most to least recently used.
func (c *Cache) Keys() []string { return c.lru.Keys() }

// Clear destroys and forgets every texture.
func (c *Cache) Clear() {
	c.lru.ForEach(func(_ string, e Entry) bool {
		e.destroy()
		return true
	})
	c.lru.Clear()
}

// drop forgets every texture without destroying it. Handles of a lost
// context are already gone.
func (c *Cache) drop() {
	c.lru.Clear()
}
