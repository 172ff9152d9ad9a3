// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package replay

import (
	"image"
	"math"
	"slices"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/labelcache"
)

// CommandType identifies a drawing command. Within a z-index bucket
// commands replay in CommandType order.
type CommandType uint8

const (
	CmdPolygon CommandType = iota // polygon fill and outline
	CmdLine                       // line stroke
	CmdImage                      // point symbol
	CmdText                       // label
)

var commandTypeNames = [...]string{
	CmdPolygon: "Polygon",
	CmdLine:    "Line",
	CmdImage:   "Image",
	CmdText:    "Text",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// command is one recorded drawing operation in map units.
type command struct {
	typ     CommandType
	feature *feature.Feature

	// rings holds the rings of one polygon, outer ring first, or the single
	// path of a line.
	rings  [][]geom.Coordinate
	fill   *feature.Fill
	stroke *feature.Stroke

	// Image and text commands draw img with its anchor pixel on at.
	at     geom.Coordinate
	img    image.Image
	anchor [2]float64 // device pixels
	scale  [2]float64
	size   [2]float64 // CSS pixels
}

// builder turns a styled geometry into commands.
type builder struct {
	pixelRatio float64
	labels     *labelcache.Cache
}

func (b builder) build(cmds []command, f *feature.Feature, g feature.Geometry, s *feature.Style) []command {
	switch g := g.(type) {
	case feature.Point:
		if cmd, ok := b.image(f, g.Coord, s.Image); ok {
			cmds = append(cmds, cmd)
		}
	case feature.LineString:
		if s.Stroke != nil && len(g.Coords) >= 2 {
			cmds = append(cmds, command{
				typ:     CmdLine,
				feature: f,
				rings:   [][]geom.Coordinate{g.Coords},
				stroke:  s.Stroke,
			})
		}
	case feature.Polygon:
		cmds = b.polygon(cmds, f, g, s)
	case feature.MultiPolygon:
		for _, p := range g.Polygons {
			cmds = b.polygon(cmds, f, p, s)
		}
	default:
		return cmds
	}
	if cmd, ok := b.text(f, g, s.Text); ok {
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (b builder) polygon(cmds []command, f *feature.Feature, p feature.Polygon, s *feature.Style) []command {
	if (s.Fill == nil && s.Stroke == nil) || len(p.Rings) == 0 {
		return cmds
	}
	return append(cmds, command{
		typ:     CmdPolygon,
		feature: f,
		rings:   orient(p.Rings),
		fill:    s.Fill,
		stroke:  s.Stroke,
	})
}

// orient returns rings with the outer ring counter-clockwise and holes
// clockwise, copying only the rings that need reversing.
func orient(rings [][]geom.Coordinate) [][]geom.Coordinate {
	out := make([][]geom.Coordinate, len(rings))
	for i, r := range rings {
		outer := i == 0
		if ccw := feature.SignedArea(r) > 0; ccw == outer {
			out[i] = r
			continue
		}
		rev := slices.Clone(r)
		slices.Reverse(rev)
		out[i] = rev
	}
	return out
}

func (b builder) image(f *feature.Feature, at geom.Coordinate, is feature.ImageStyle) (command, bool) {
	if is == nil || is.State() != feature.ImageLoaded {
		return command{}, false
	}
	img := is.Image(b.pixelRatio)
	if img == nil {
		return command{}, false
	}
	size := is.Size()
	anchor := is.Anchor()
	bounds := img.Bounds()
	scale := [2]float64{1, 1}
	if size[0] > 0 && size[1] > 0 {
		scale = [2]float64{
			unit(size[0] * b.pixelRatio / float64(bounds.Dx())),
			unit(size[1] * b.pixelRatio / float64(bounds.Dy())),
		}
	}
	return command{
		typ:     CmdImage,
		feature: f,
		at:      at,
		img:     img,
		anchor:  [2]float64{anchor[0] * b.pixelRatio, anchor[1] * b.pixelRatio},
		scale:   scale,
		size:    size,
	}, true
}

// unit snaps scale factors within rounding of 1 to exactly 1.
func unit(v float64) float64 {
	if math.Abs(v-1) < 1e-9 {
		return 1
	}
	return v
}

func (b builder) text(f *feature.Feature, g feature.Geometry, t *feature.Text) (command, bool) {
	if t == nil || t.Text == "" || b.labels == nil || g.Extent().IsEmpty() {
		return command{}, false
	}
	img := b.labels.Label(t.Text, t.Size, t.Color, b.pixelRatio)
	if img == nil {
		return command{}, false
	}
	w, h := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	return command{
		typ:     CmdText,
		feature: f,
		at:      labelPoint(g),
		img:     img,
		anchor:  [2]float64{w/2 - t.OffsetX*b.pixelRatio, h/2 - t.OffsetY*b.pixelRatio},
		scale:   [2]float64{1, 1},
		size:    [2]float64{w / b.pixelRatio, h / b.pixelRatio},
	}, true
}

// labelPoint is where a geometry's label goes: the point itself, the
// middle of a line by length, or the center of a polygon's outer ring.
func labelPoint(g feature.Geometry) geom.Coordinate {
	switch g := g.(type) {
	case feature.Point:
		return g.Coord
	case feature.LineString:
		return alongLine(g.Coords, 0.5)
	case feature.MultiPolygon:
		if len(g.Polygons) > 0 {
			return g.Polygons[0].Extent().Center()
		}
	}
	return g.Extent().Center()
}

func alongLine(coords []geom.Coordinate, fraction float64) geom.Coordinate {
	if len(coords) == 0 {
		return geom.Coordinate{}
	}
	var total float64
	for i := 1; i < len(coords); i++ {
		total += geom.Distance(coords[i-1], coords[i])
	}
	target := total * fraction
	for i := 1; i < len(coords); i++ {
		d := geom.Distance(coords[i-1], coords[i])
		if d > 0 && target <= d {
			t := target / d
			p, q := coords[i-1], coords[i]
			return geom.Coordinate{p[0] + (q[0]-p[0])*t, p[1] + (q[1]-p[1])*t}
		}
		target -= d
	}
	return coords[len(coords)-1]
}

// draw plays cmd onto c. tr maps map units to device pixels.
func (cmd *command) draw(c Canvas, tr geom.Transform, pixelRatio float64, snap bool) {
	switch cmd.typ {
	case CmdPolygon:
		rings := transformRings(cmd.rings, tr)
		if cmd.fill != nil {
			c.FillPolygon(rings, cmd.fill.Color)
		}
		if cmd.stroke != nil {
			for _, r := range rings {
				c.StrokeLine(r, true, cmd.stroke.Width*pixelRatio, cmd.stroke.Color)
			}
		}
	case CmdLine:
		c.StrokeLine(transformCoords(cmd.rings[0], tr), false, cmd.stroke.Width*pixelRatio, cmd.stroke.Color)
	case CmdImage, CmdText:
		p := tr.Apply(cmd.at)
		x, y := p[0]-cmd.anchor[0], p[1]-cmd.anchor[1]
		if snap {
			x, y = math.Round(x), math.Round(y)
		}
		m := geom.Translate(x, y).Multiply(geom.Scale(cmd.scale[0], cmd.scale[1]))
		c.DrawImage(cmd.img, m, 1)
	}
}

func transformCoords(coords []geom.Coordinate, tr geom.Transform) []geom.Coordinate {
	out := make([]geom.Coordinate, len(coords))
	for i, p := range coords {
		out[i] = tr.Apply(p)
	}
	return out
}

func transformRings(rings [][]geom.Coordinate, tr geom.Transform) [][]geom.Coordinate {
	out := make([][]geom.Coordinate, len(rings))
	for i, r := range rings {
		out[i] = transformCoords(r, tr)
	}
	return out
}

func sortCommands(cmds []command) {
	slices.SortStableFunc(cmds, func(a, b command) int {
		return int(a.typ) - int(b.typ)
	})
}
