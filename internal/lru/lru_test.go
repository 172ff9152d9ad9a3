// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lru

import (
	"slices"
	"strconv"
	"testing"
)

func TestNew(t *testing.T) {
	c := New[string, int](10)
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if c.Capacity() != 10 {
		t.Errorf("Capacity() = %d, want 10", c.Capacity())
	}
	if _, ok := c.Oldest(); ok {
		t.Error("Oldest() on empty cache should report false")
	}
}

func TestGetSet(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)
	c.Set("a", 2)

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after replacing a key", c.Len())
	}
	v, ok := c.Get("a")
	if !ok || v != 2 {
		t.Errorf("Get(a) = %d, %v; want 2, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	const n = 4
	c := New[string, int](n)
	var evicted []string
	c.OnEvict(func(k string, _ int) { evicted = append(evicted, k) })

	for i := 0; i < n; i++ {
		c.Set(strconv.Itoa(i), i)
	}
	c.Set("new", 100)

	if c.Len() != n {
		t.Errorf("Len() = %d, want %d", c.Len(), n)
	}
	if !slices.Equal(evicted, []string{"0"}) {
		t.Errorf("evicted = %v, want [0]", evicted)
	}
	if _, ok := c.Peek("0"); ok {
		t.Error("oldest entry should have been evicted")
	}
}

func TestContainsTouchesRecency(t *testing.T) {
	c := New[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if !c.Contains("a") {
		t.Fatal("Contains(a) = false")
	}
	c.Set("d", 4)

	if _, ok := c.Peek("b"); ok {
		t.Error("b should be evicted after a was touched")
	}
	if _, ok := c.Peek("a"); !ok {
		t.Error("a should survive eviction after being touched")
	}
	if got := c.Keys(); !slices.Equal(got, []string{"d", "a", "c"}) {
		t.Errorf("Keys() = %v, want [d a c]", got)
	}
}

func TestPeekDoesNotTouch(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Peek("a")
	c.Set("c", 3)
	if _, ok := c.Peek("a"); ok {
		t.Error("Peek must not update recency")
	}
}

func TestRemoveAndClear(t *testing.T) {
	c := New[int, int](0)
	for i := 0; i < 100; i++ {
		c.Set(i, i)
	}
	if c.Len() != 100 {
		t.Errorf("unbounded cache Len() = %d, want 100", c.Len())
	}
	if !c.Remove(50) {
		t.Error("Remove(50) = false, want true")
	}
	if c.Remove(50) {
		t.Error("second Remove(50) = true, want false")
	}
	if k, _ := c.Oldest(); k != 0 {
		t.Errorf("Oldest() = %d, want 0", k)
	}

	c.Clear()
	if c.Len() != 0 || len(c.Keys()) != 0 {
		t.Error("Clear() should empty the cache")
	}
	c.Set(1, 1)
	if c.Len() != 1 {
		t.Error("cache should be usable after Clear()")
	}
}

func TestForEachStops(t *testing.T) {
	c := New[int, int](0)
	for i := 0; i < 5; i++ {
		c.Set(i, i)
	}
	visited := 0
	c.ForEach(func(int, int) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Errorf("visited = %d, want 2", visited)
	}
}

func BenchmarkSetEvict(b *testing.B) {
	c := New[int, int](1024)
	for i := 0; b.Loop(); i++ {
		c.Set(i, i)
	}
}
