// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package renderer

import (
	"slices"

	"github.com/gogpu/ggmap/frame"
	"github.com/gogpu/ggmap/replay"
	"github.com/gogpu/ggmap/surface"
)

// EventType identifies a compose event.
type EventType uint8

const (
	// EventPreCompose fires after the surfaces are cleared, before any
	// layer is drawn.
	EventPreCompose EventType = iota

	// EventPostCompose fires after every layer is drawn.
	EventPostCompose
)

func (t EventType) String() string {
	switch t {
	case EventPreCompose:
		return "precompose"
	case EventPostCompose:
		return "postcompose"
	default:
		return "unknown"
	}
}

// ComposeEvent is passed to compose listeners. Immediate draws onto the
// overlay surface with the frame transform.
type ComposeEvent struct {
	Type      EventType
	Frame     *frame.State
	Immediate *replay.Immediate
	Surface   surface.Surface
}

// listeners is an ordered set of compose listeners.
type listeners struct {
	next  int
	fns   map[int]func(*ComposeEvent)
	order []int
}

func (l *listeners) add(fn func(*ComposeEvent)) func() {
	if l.fns == nil {
		l.fns = make(map[int]func(*ComposeEvent))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	l.order = append(l.order, id)
	return func() {
		delete(l.fns, id)
		l.order = slices.DeleteFunc(l.order, func(v int) bool { return v == id })
	}
}

func (l *listeners) empty() bool { return len(l.fns) == 0 }

func (l *listeners) dispatch(e *ComposeEvent) {
	for _, id := range append([]int(nil), l.order...) {
		if fn, ok := l.fns[id]; ok {
			fn(e)
		}
	}
}
