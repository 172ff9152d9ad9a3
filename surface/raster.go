// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"

	"github.com/gogpu/ggmap/geom"
)

// Raster is a CPU surface backed by an *image.RGBA.
//
// Fills and strokes are rasterized with golang.org/x/image/vector; images
// are placed with golang.org/x/image/draw. All coordinates are device
// pixels.
type Raster struct {
	base
	img     *image.RGBA
	clip    image.Rectangle
	hasClip bool
	filter  xdraw.Transformer
}

// NewRaster creates a cleared raster surface.
func NewRaster(width, height int) *Raster {
	return &Raster{
		base:   newBase(),
		img:    resize(nil, width, height),
		filter: xdraw.ApproxBiLinear,
	}
}

func (r *Raster) Kind() Kind { return KindRaster }

func (r *Raster) Clear(width, height int) {
	r.img = resize(r.img, width, height)
}

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Close() error {
	r.closed = true
	return nil
}

// SetClip restricts drawing to rect.
func (r *Raster) SetClip(rect image.Rectangle) {
	r.clip = rect
	r.hasClip = true
}

// ClearClip removes the clip.
func (r *Raster) ClearClip() {
	r.hasClip = false
}

// target returns the drawable region, a sub-image sharing pixels and
// coordinates with the backing store.
func (r *Raster) target() *image.RGBA {
	if !r.hasClip {
		return r.img
	}
	return r.img.SubImage(r.clip).(*image.RGBA)
}

// FillPolygon fills rings with c. Rings of opposite orientation cut holes.
func (r *Raster) FillPolygon(rings [][]geom.Coordinate, c color.RGBA) {
	w, h := r.Size()
	z := vector.NewRasterizer(w, h)
	for _, ring := range rings {
		addRing(z, ring)
	}
	r.paint(z, c)
}

// StrokeLine strokes a polyline with round joins and caps.
func (r *Raster) StrokeLine(coords []geom.Coordinate, closed bool, width float64, c color.RGBA) {
	if len(coords) == 0 || width <= 0 {
		return
	}
	w, h := r.Size()
	z := vector.NewRasterizer(w, h)
	hw := width / 2
	n := len(coords)
	segments := n - 1
	if closed {
		segments = n
	}
	for i := range segments {
		p, q := coords[i], coords[(i+1)%n]
		dx, dy := q[0]-p[0], q[1]-p[1]
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		addRing(z, []geom.Coordinate{
			{p[0] + nx, p[1] + ny},
			{q[0] + nx, q[1] + ny},
			{q[0] - nx, q[1] - ny},
			{p[0] - nx, p[1] - ny},
		})
	}
	for _, p := range coords {
		addRing(z, disc(p, hw))
	}
	r.paint(z, c)
}

// DrawImage draws img mapped by tr, which takes image pixels to surface
// pixels.
func (r *Raster) DrawImage(img image.Image, tr geom.Transform, opacity float64) {
	if img == nil || opacity <= 0 {
		return
	}
	dst := r.target()
	var mask image.Image
	if opacity < 1 {
		mask = image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 255))})
	}
	sb := img.Bounds()
	if isIntegerTranslation(tr) {
		dp := image.Pt(int(tr.C), int(tr.F))
		dr := image.Rectangle{Min: dp.Add(sb.Min), Max: dp.Add(sb.Max)}
		draw.DrawMask(dst, dr, img, sb.Min, mask, image.Point{}, draw.Over)
		return
	}
	r.filter.Transform(dst, f64.Aff3{tr.A, tr.B, tr.C, tr.D, tr.E, tr.F}, img, sb, xdraw.Over, &xdraw.Options{SrcMask: mask})
}

func (r *Raster) paint(z *vector.Rasterizer, c color.RGBA) {
	mask := image.NewAlpha(r.img.Bounds())
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	dst := r.target()
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, mask, dst.Bounds().Min, draw.Over)
}

func addRing(z *vector.Rasterizer, ring []geom.Coordinate) {
	if len(ring) < 3 {
		return
	}
	z.MoveTo(float32(ring[0][0]), float32(ring[0][1]))
	for _, p := range ring[1:] {
		z.LineTo(float32(p[0]), float32(p[1]))
	}
	z.ClosePath()
}

// disc approximates a circle with the same orientation as the stroke
// segment quads so overlapping pieces add up instead of cancelling.
func disc(c geom.Coordinate, radius float64) []geom.Coordinate {
	const segments = 16
	ring := make([]geom.Coordinate, segments)
	for i := range ring {
		a := -2 * math.Pi * float64(i) / segments
		ring[i] = geom.Coordinate{c[0] + radius*math.Cos(a), c[1] + radius*math.Sin(a)}
	}
	return ring
}

func isIntegerTranslation(t geom.Transform) bool {
	return t.A == 1 && t.B == 0 && t.D == 0 && t.E == 1 &&
		t.C == math.Trunc(t.C) && t.F == math.Trunc(t.F)
}
