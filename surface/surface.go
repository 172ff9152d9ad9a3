// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"

	"github.com/gogpu/ggmap/geom"
)

// Kind tags the backend of a surface.
type Kind uint8

const (
	KindRaster Kind = iota
	KindGPU
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRaster:
		return "raster"
	case KindGPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// Surface is one backing store owned by one layer renderer.
//
// Surfaces are NOT thread-safe.
type Surface interface {
	Kind() Kind

	Show()
	Hide()
	Visible() bool

	// Clear resizes the backing store to width x height device pixels,
	// which clears it, or clears it in place when the size is unchanged.
	Clear(width, height int)

	// Save pushes the base transform.
	Save()

	// Restore pops the base transform saved last.
	Restore()

	// Rotate rotates the base transform by angle around (cx, cy).
	Rotate(angle, cx, cy float64)

	// Transform returns the base transform that renderers compose with
	// their own pixel transform.
	Transform() geom.Transform

	SetOpacity(v float64)
	Opacity() float64

	// Size returns the backing store size in device pixels.
	Size() (width, height int)

	// Image returns the surface contents for composition.
	Image() *image.RGBA

	// Close releases the surface. Close is idempotent.
	Close() error
}

// Options configure a new surface.
type Options struct {
	Width  int
	Height int
}

// base implements the bookkeeping shared by every surface kind.
type base struct {
	visible   bool
	opacity   float64
	transform geom.Transform
	stack     []geom.Transform
	closed    bool
}

func newBase() base {
	return base{visible: true, opacity: 1, transform: geom.Identity()}
}

func (b *base) Show()            { b.visible = true }
func (b *base) Hide()            { b.visible = false }
func (b *base) Visible() bool    { return b.visible }
func (b *base) Opacity() float64 { return b.opacity }

func (b *base) SetOpacity(v float64) {
	b.opacity = min(max(v, 0), 1)
}

func (b *base) Save() {
	b.stack = append(b.stack, b.transform)
}

func (b *base) Restore() {
	if len(b.stack) == 0 {
		b.transform = geom.Identity()
		return
	}
	b.transform = b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *base) Rotate(angle, cx, cy float64) {
	b.transform = geom.RotateAt(angle, cx, cy).Multiply(b.transform)
}

func (b *base) Transform() geom.Transform { return b.transform }

// resize returns img unchanged and cleared when it already has the size,
// else a new image, which is cleared by construction.
func resize(img *image.RGBA, width, height int) *image.RGBA {
	width, height = max(width, 1), max(height, 1)
	if img != nil && img.Rect.Dx() == width && img.Rect.Dy() == height {
		clear(img.Pix)
		return img
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}
