// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package feature

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// ImageState is the load state of an image style.
type ImageState uint8

const (
	ImageIdle ImageState = iota
	ImageLoading
	ImageLoaded
	ImageError
)

// ImageStyle is a point symbol that may need to load before it can be drawn.
type ImageStyle interface {
	State() ImageState

	// Load starts loading an idle image. It never blocks.
	Load()

	// OnChange registers fn to run when the state changes.
	OnChange(fn func()) (unlisten func())

	// Image returns the symbol rasterized for pixelRatio, or nil when the
	// image is not loaded.
	Image(pixelRatio float64) image.Image

	// Anchor is the symbol position, in CSS pixels from its top-left
	// corner, placed on the geometry.
	Anchor() [2]float64

	// Size is the symbol size in CSS pixels.
	Size() [2]float64
}

// Fetcher starts loading an icon. It must eventually call Icon.Resolve on
// the goroutine that renders frames.
type Fetcher func(icon *Icon)

// Icon is an image symbol loaded on demand.
type Icon struct {
	Src string

	fetch     Fetcher
	state     ImageState
	img       image.Image
	anchor    [2]float64
	hasAnchor bool
	listeners listenerSet
}

// NewIcon creates an idle icon. fetch is invoked on the first Load.
func NewIcon(src string, fetch Fetcher) *Icon {
	return &Icon{Src: src, fetch: fetch}
}

// NewLoadedIcon creates an icon that is already loaded.
func NewLoadedIcon(img image.Image) *Icon {
	return &Icon{state: ImageLoaded, img: img}
}

// SetAnchor sets the anchor in CSS pixels. The default is the image center.
func (i *Icon) SetAnchor(x, y float64) {
	i.anchor = [2]float64{x, y}
	i.hasAnchor = true
}

func (i *Icon) State() ImageState { return i.state }

func (i *Icon) Load() {
	if i.state != ImageIdle {
		return
	}
	i.state = ImageLoading
	i.listeners.notify()
	if i.fetch != nil {
		i.fetch(i)
	}
}

// Resolve completes a load started by Load.
func (i *Icon) Resolve(img image.Image, err error) {
	if err != nil || img == nil {
		i.state = ImageError
	} else {
		i.img = img
		i.state = ImageLoaded
	}
	i.listeners.notify()
}

func (i *Icon) OnChange(fn func()) func() { return i.listeners.add(fn) }

func (i *Icon) Image(float64) image.Image {
	if i.state != ImageLoaded {
		return nil
	}
	return i.img
}

func (i *Icon) Anchor() [2]float64 {
	if i.hasAnchor {
		return i.anchor
	}
	s := i.Size()
	return [2]float64{s[0] / 2, s[1] / 2}
}

func (i *Icon) Size() [2]float64 {
	if i.img == nil {
		return [2]float64{}
	}
	b := i.img.Bounds()
	return [2]float64{float64(b.Dx()), float64(b.Dy())}
}

// Circle is a filled and stroked circle symbol. It is always loaded.
type Circle struct {
	Radius float64
	Fill   *Fill
	Stroke *Stroke

	cached      *image.RGBA
	cachedRatio float64
}

func (c *Circle) State() ImageState      { return ImageLoaded }
func (c *Circle) Load()                  {}
func (c *Circle) OnChange(func()) func() { return func() {} }

func (c *Circle) Anchor() [2]float64 {
	s := c.Size()
	return [2]float64{s[0] / 2, s[1] / 2}
}

func (c *Circle) Size() [2]float64 {
	d := 2 * (c.Radius + c.strokeWidth())
	return [2]float64{d, d}
}

func (c *Circle) strokeWidth() float64 {
	if c.Stroke == nil {
		return 0
	}
	return c.Stroke.Width
}

// Image rasterizes the circle at pixelRatio. The result is cached per ratio.
func (c *Circle) Image(pixelRatio float64) image.Image {
	if c.cached != nil && c.cachedRatio == pixelRatio {
		return c.cached
	}
	size := c.Size()
	n := int(math.Ceil(size[0] * pixelRatio))
	if n <= 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	center := float32(n) / 2
	sw := c.strokeWidth() * pixelRatio
	r := c.Radius * pixelRatio

	if c.Stroke != nil && sw > 0 {
		paintDisc(img, center, r+sw/2, c.Stroke.Color)
		if c.Fill != nil {
			paintDisc(img, center, r-sw/2, c.Fill.Color)
		} else {
			clearDisc(img, center, r-sw/2)
		}
	} else if c.Fill != nil {
		paintDisc(img, center, r, c.Fill.Color)
	}
	c.cached, c.cachedRatio = img, pixelRatio
	return img
}

func discRasterizer(size int, center float32, radius float64) *vector.Rasterizer {
	z := vector.NewRasterizer(size, size)
	const segments = 48
	for i := range segments + 1 {
		a := 2 * math.Pi * float64(i) / segments
		x := center + float32(radius*math.Cos(a))
		y := center + float32(radius*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	return z
}

func paintDisc(img *image.RGBA, center float32, radius float64, col color.RGBA) {
	if radius <= 0 {
		return
	}
	z := discRasterizer(img.Bounds().Dx(), center, radius)
	z.DrawOp = draw.Over
	z.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{})
}

func clearDisc(img *image.RGBA, center float32, radius float64) {
	if radius <= 0 {
		return
	}
	z := discRasterizer(img.Bounds().Dx(), center, radius)
	mask := image.NewAlpha(img.Bounds())
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	draw.DrawMask(img, img.Bounds(), image.Transparent, image.Point{}, mask, image.Point{}, draw.Src)
}
