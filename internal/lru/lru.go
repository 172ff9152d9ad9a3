// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package lru provides a bounded least-recently-used cache built from an
// intrusive doubly linked list and a hash index.
//
// Touch, insert and evict are O(1). The cache is not safe for concurrent
// use; ggmap renders from a single goroutine.
package lru

// node is an entry of the recency list. It stores its key so that the
// evicted tail can be removed from the index in O(1).
type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// Cache is a bounded LRU cache.
// The head of the list is the most recently used entry, the tail the least.
type Cache[K comparable, V any] struct {
	index    map[K]*node[K, V]
	head     *node[K, V]
	tail     *node[K, V]
	capacity int
	onEvict  func(K, V)
}

// New creates a cache that holds at most capacity entries.
// A capacity <= 0 means unbounded.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		index:    make(map[K]*node[K, V]),
		capacity: capacity,
	}
}

// OnEvict registers fn to be called for every entry evicted because the
// cache exceeded its capacity. It is not called by Remove or Clear.
func (c *Cache[K, V]) OnEvict(fn func(K, V)) {
	c.onEvict = fn
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	return len(c.index)
}

// Capacity returns the entry bound (0 = unbounded).
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Contains reports whether key is cached. A hit counts as a use and moves
// the entry to the most recently used position.
func (c *Cache[K, V]) Contains(key K) bool {
	n, ok := c.index[key]
	if ok {
		c.moveToFront(n)
	}
	return ok
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	n, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	return n.value, true
}

// Peek returns the value for key without touching its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	n, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return n.value, true
}

// Set inserts or replaces key. The entry becomes the most recently used.
// When the insertion pushes the cache past its capacity the least recently
// used entries are evicted first.
func (c *Cache[K, V]) Set(key K, value V) {
	if n, ok := c.index[key]; ok {
		n.value = value
		c.moveToFront(n)
		return
	}
	n := &node[K, V]{key: key, value: value}
	c.index[key] = n
	c.pushFront(n)

	for c.capacity > 0 && len(c.index) > c.capacity {
		oldest := c.tail
		c.unlink(oldest)
		delete(c.index, oldest.key)
		if c.onEvict != nil {
			c.onEvict(oldest.key, oldest.value)
		}
	}
}

// Remove deletes key. It reports whether the key was present.
func (c *Cache[K, V]) Remove(key K) bool {
	n, ok := c.index[key]
	if !ok {
		return false
	}
	c.unlink(n)
	delete(c.index, key)
	return true
}

// Oldest returns the least recently used key.
func (c *Cache[K, V]) Oldest() (K, bool) {
	if c.tail == nil {
		var zero K
		return zero, false
	}
	return c.tail.key, true
}

// Keys returns all keys from most to least recently used.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.index))
	for n := c.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// ForEach calls fn for every entry from most to least recently used
// without touching recency. Iteration stops when fn returns false.
func (c *Cache[K, V]) ForEach(fn func(K, V) bool) {
	for n := c.head; n != nil; n = n.next {
		if !fn(n.key, n.value) {
			return
		}
	}
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.index = make(map[K]*node[K, V])
	c.head = nil
	c.tail = nil
}

func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

func (c *Cache[K, V]) moveToFront(n *node[K, V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.pushFront(n)
}

// unlink removes n from the list and clears its links.
func (c *Cache[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}
