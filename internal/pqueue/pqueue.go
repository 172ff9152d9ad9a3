// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pqueue provides a keyed min-priority queue whose priorities are
// computed by a function and can be recomputed wholesale.
//
// Priorities that depend on moving state (for instance the viewport focus)
// go stale between frames, so instead of incremental adjustment the queue
// offers Reprioritize, which recomputes every priority and re-heapifies.
package pqueue

import (
	"container/heap"
	"math"
)

// Drop is the priority that removes an element from the queue.
var Drop = math.Inf(1)

// Queue is a min-heap of elements keyed by a string.
// No two elements share a key: enqueueing an existing key replaces it.
type Queue[T any] struct {
	priority func(T) float64
	key      func(T) string
	h        itemHeap[T]
}

type item[T any] struct {
	elem     T
	key      string
	priority float64
}

// New creates a queue. priority returns the cost of an element (lower
// dequeues first); key returns its identity.
func New[T any](priority func(T) float64, key func(T) string) *Queue[T] {
	return &Queue[T]{
		priority: priority,
		key:      key,
		h:        itemHeap[T]{index: make(map[string]int)},
	}
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	return len(q.h.items)
}

// IsEmpty reports whether the queue is empty.
func (q *Queue[T]) IsEmpty() bool {
	return len(q.h.items) == 0
}

// Contains reports whether an element with key is queued.
func (q *Queue[T]) Contains(key string) bool {
	_, ok := q.h.index[key]
	return ok
}

// Enqueue inserts e, replacing any queued element with the same key.
// It reports false when e was dropped because its priority is Drop.
func (q *Queue[T]) Enqueue(e T) bool {
	k := q.key(e)
	p := q.priority(e)
	if i, ok := q.h.index[k]; ok {
		if p == Drop {
			heap.Remove(&q.h, i)
			return false
		}
		q.h.items[i].elem = e
		q.h.items[i].priority = p
		heap.Fix(&q.h, i)
		return true
	}
	if p == Drop {
		return false
	}
	heap.Push(&q.h, item[T]{elem: e, key: k, priority: p})
	return true
}

// Peek returns the lowest-priority element without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if len(q.h.items) == 0 {
		var zero T
		return zero, false
	}
	return q.h.items[0].elem, true
}

// Dequeue removes and returns the lowest-priority element.
func (q *Queue[T]) Dequeue() (T, bool) {
	if len(q.h.items) == 0 {
		var zero T
		return zero, false
	}
	it := heap.Pop(&q.h).(item[T])
	return it.elem, true
}

// Remove deletes the element with key. It reports whether it was queued.
func (q *Queue[T]) Remove(key string) bool {
	i, ok := q.h.index[key]
	if !ok {
		return false
	}
	heap.Remove(&q.h, i)
	return true
}

// Reprioritize recomputes every priority, drops elements whose priority
// became Drop and restores the heap order.
func (q *Queue[T]) Reprioritize() {
	kept := q.h.items[:0]
	for _, it := range q.h.items {
		it.priority = q.priority(it.elem)
		if it.priority == Drop {
			delete(q.h.index, it.key)
			continue
		}
		kept = append(kept, it)
	}
	clear(q.h.items[len(kept):])
	q.h.items = kept
	for i, it := range q.h.items {
		q.h.index[it.key] = i
	}
	heap.Init(&q.h)
}

// Clear removes every element.
func (q *Queue[T]) Clear() {
	q.h.items = nil
	q.h.index = make(map[string]int)
}

// itemHeap implements heap.Interface and keeps the key index current.
type itemHeap[T any] struct {
	items []item[T]
	index map[string]int
}

func (h *itemHeap[T]) Len() int { return len(h.items) }

func (h *itemHeap[T]) Less(i, j int) bool {
	return h.items[i].priority < h.items[j].priority
}

func (h *itemHeap[T]) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.index[h.items[i].key] = i
	h.index[h.items[j].key] = j
}

func (h *itemHeap[T]) Push(x any) {
	it := x.(item[T])
	h.index[it.key] = len(h.items)
	h.items = append(h.items, it)
}

func (h *itemHeap[T]) Pop() any {
	n := len(h.items)
	it := h.items[n-1]
	var zero item[T]
	h.items[n-1] = zero
	h.items = h.items[:n-1]
	delete(h.index, it.key)
	return it
}
