// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package replay

import (
	"errors"
	"image/color"
	"slices"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/labelcache"
)

// ErrFinished is returned when adding to a finished group.
var ErrFinished = errors.New("replay: group is finished")

// Group is the recorded drawing of one vector layer for one resolution.
// It is immutable once finished.
type Group struct {
	maxExtent  geom.Extent
	resolution float64
	pixelRatio float64
	overlaps   bool
	builder    builder

	buckets  map[int][]command
	zIndices []int
	finished bool
}

// NewGroup creates an empty group. Geometries outside maxExtent are not
// recorded. When overlaps is false, adjacent fills of the same color are
// merged into a single fill on replay. labels rasterizes text; a nil cache
// drops text.
func NewGroup(maxExtent geom.Extent, resolution, pixelRatio float64, overlaps bool, labels *labelcache.Cache) *Group {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	return &Group{
		maxExtent:  maxExtent,
		resolution: resolution,
		pixelRatio: pixelRatio,
		overlaps:   overlaps,
		builder:    builder{pixelRatio: pixelRatio, labels: labels},
		buckets:    make(map[int][]command),
	}
}

func (g *Group) Resolution() float64    { return g.resolution }
func (g *Group) PixelRatio() float64    { return g.pixelRatio }
func (g *Group) MaxExtent() geom.Extent { return g.maxExtent }

// AddFeature records f drawn with style. The style geometry, or else the
// feature geometry, is simplified with squaredTolerance first. Point
// symbols whose image is not loaded are left out.
func (g *Group) AddFeature(f *feature.Feature, style *feature.Style, squaredTolerance float64) error {
	if g.finished {
		return ErrFinished
	}
	if style == nil {
		return nil
	}
	geometry := style.GeometryFor(f)
	if geometry == nil || !geometry.Extent().Intersects(g.maxExtent) {
		return nil
	}
	geometry = geometry.Simplify(squaredTolerance)
	z := style.ZIndex
	if _, ok := g.buckets[z]; !ok {
		g.zIndices = append(g.zIndices, z)
	}
	g.buckets[z] = g.builder.build(g.buckets[z], f, geometry, style)
	return nil
}

// Finish orders the recorded commands. It is idempotent.
func (g *Group) Finish() {
	if g.finished {
		return
	}
	g.finished = true
	slices.Sort(g.zIndices)
	for _, cmds := range g.buckets {
		sortCommands(cmds)
	}
}

func (g *Group) Finished() bool { return g.finished }

// Len returns the number of recorded commands.
func (g *Group) Len() int {
	n := 0
	for _, cmds := range g.buckets {
		n += len(cmds)
	}
	return n
}

// IsEmpty reports whether nothing was recorded.
func (g *Group) IsEmpty() bool { return g.Len() == 0 }

// Replay draws the group onto c. tr maps map units to device pixels.
// Features whose uid is in skipped are not drawn. With snap, symbols and
// labels are placed on whole pixels.
func (g *Group) Replay(c Canvas, tr geom.Transform, skipped map[string]bool, snap bool) {
	for _, z := range g.zIndices {
		var batch fillBatch
		for i := range g.buckets[z] {
			cmd := &g.buckets[z][i]
			if skipped[cmd.feature.UID()] {
				continue
			}
			if !g.overlaps && batchable(cmd) {
				if len(batch.rings) > 0 && batch.color != cmd.fill.Color {
					batch.flush(c)
				}
				batch.color = cmd.fill.Color
				batch.rings = append(batch.rings, transformRings(cmd.rings, tr)...)
				continue
			}
			batch.flush(c)
			cmd.draw(c, tr, g.pixelRatio, snap)
		}
		batch.flush(c)
	}
}

// fillBatch merges consecutive unstroked fills of one color.
type fillBatch struct {
	rings [][]geom.Coordinate
	color color.RGBA
}

func batchable(cmd *command) bool {
	return cmd.typ == CmdPolygon && cmd.fill != nil && cmd.stroke == nil
}

func (b *fillBatch) flush(c Canvas) {
	if len(b.rings) == 0 {
		return
	}
	c.FillPolygon(b.rings, b.color)
	b.rings = nil
}
