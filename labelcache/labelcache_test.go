// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package labelcache

import (
	"image/color"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

var black = color.RGBA{0, 0, 0, 255}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestLabelIsCached(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	a := c.Label("Berlin", 12, black, 1)
	if a == nil {
		t.Fatal("Label() = nil")
	}
	if b := a.Bounds(); b.Dx() <= 2*padding || b.Dy() <= 2*padding {
		t.Errorf("label bounds = %v", b)
	}
	if c.Label("Berlin", 12, black, 1) != a {
		t.Error("second Label() should hit the cache")
	}
	if c.Label("Berlin", 12, black, 2) == a {
		t.Error("pixel ratio must be part of the key")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if c.Label("", 12, black, 1) != nil {
		t.Error("empty text should produce no label")
	}
}

func TestLabelHasInk(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatal(err)
	}
	img := c.Label("W", 20, black, 1)
	ink := false
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			ink = true
			break
		}
	}
	if !ink {
		t.Error("label has no opaque pixels")
	}
}

func TestExpire(t *testing.T) {
	clk := &clock{t: time.Unix(1000, 0)}
	c, err := New(WithTTL(time.Second), WithClock(clk.now))
	if err != nil {
		t.Fatal(err)
	}
	c.Label("old", 12, black, 1)
	clk.t = clk.t.Add(800 * time.Millisecond)
	c.Label("new", 12, black, 1)
	clk.t = clk.t.Add(500 * time.Millisecond)

	if n := c.Expire(); n != 1 {
		t.Errorf("Expire() = %d, want 1", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestSetFontClearsAndNotifies(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatal(err)
	}
	c.Label("a", 12, black, 1)

	cleared := 0
	unlisten := c.OnClear(func() { cleared++ })

	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetFont(bold); err != nil {
		t.Fatalf("SetFont() error = %v", err)
	}
	if c.Len() != 0 || cleared != 1 {
		t.Errorf("after SetFont: Len %d, cleared %d", c.Len(), cleared)
	}
	if err := c.SetFont(nil); err != ErrNilFont {
		t.Errorf("SetFont(nil) = %v, want ErrNilFont", err)
	}

	unlisten()
	c.Clear()
	if cleared != 1 {
		t.Error("listener called after unlisten")
	}
}
