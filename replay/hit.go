// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package replay

import (
	"math"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
)

// ForEachFeatureAtCoordinate calls cb for every recorded feature drawn at
// coord, topmost first, until cb returns a non-nil value, which is then
// returned. hitTolerance is in CSS pixels. A feature drawn by several
// commands may be reported more than once.
func (g *Group) ForEachFeatureAtCoordinate(coord geom.Coordinate, resolution, rotation, hitTolerance float64,
	skipped map[string]bool, cb func(*feature.Feature) any) any {
	if resolution <= 0 {
		return nil
	}
	h := hitTest{
		coord:      coord,
		resolution: resolution,
		tolerance:  hitTolerance,
		pixelRatio: g.pixelRatio,
		toPixels:   geom.Scale(1/resolution, -1/resolution).Multiply(geom.Rotate(-rotation)),
	}
	for i := len(g.zIndices) - 1; i >= 0; i-- {
		cmds := g.buckets[g.zIndices[i]]
		for j := len(cmds) - 1; j >= 0; j-- {
			cmd := &cmds[j]
			if skipped[cmd.feature.UID()] || !h.hits(cmd) {
				continue
			}
			if r := cb(cmd.feature); r != nil {
				return r
			}
		}
	}
	return nil
}

type hitTest struct {
	coord      geom.Coordinate
	resolution float64
	tolerance  float64 // CSS pixels
	pixelRatio float64

	// toPixels maps a map-unit offset to a CSS pixel offset on screen.
	toPixels geom.Transform
}

func (h hitTest) hits(cmd *command) bool {
	tol := h.tolerance * h.resolution
	switch cmd.typ {
	case CmdPolygon:
		if cmd.fill != nil && (insideRings(h.coord, cmd.rings) || ringsDistance(h.coord, cmd.rings, true) <= tol) {
			return true
		}
		if cmd.stroke != nil {
			return ringsDistance(h.coord, cmd.rings, true) <= tol+cmd.stroke.Width/2*h.resolution
		}
	case CmdLine:
		return ringsDistance(h.coord, cmd.rings, false) <= tol+cmd.stroke.Width/2*h.resolution
	case CmdImage, CmdText:
		d := h.toPixels.Apply(geom.Coordinate{h.coord[0] - cmd.at[0], h.coord[1] - cmd.at[1]})
		ax, ay := cmd.anchor[0]/h.pixelRatio, cmd.anchor[1]/h.pixelRatio
		return d[0] >= -ax-h.tolerance && d[0] <= cmd.size[0]-ax+h.tolerance &&
			d[1] >= -ay-h.tolerance && d[1] <= cmd.size[1]-ay+h.tolerance
	}
	return false
}

// insideRings applies the even-odd rule over all rings.
func insideRings(c geom.Coordinate, rings [][]geom.Coordinate) bool {
	inside := false
	for _, r := range rings {
		n := len(r)
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			pi, pj := r[i], r[j]
			if (pi[1] > c[1]) != (pj[1] > c[1]) &&
				c[0] < (pj[0]-pi[0])*(c[1]-pi[1])/(pj[1]-pi[1])+pi[0] {
				inside = !inside
			}
		}
	}
	return inside
}

// ringsDistance returns the smallest distance from c to any segment.
func ringsDistance(c geom.Coordinate, rings [][]geom.Coordinate, closed bool) float64 {
	best := math.Inf(1)
	for _, r := range rings {
		n := len(r)
		if n == 1 {
			best = min(best, geom.Distance(c, r[0]))
		}
		segments := n - 1
		if closed && n > 2 {
			segments = n
		}
		for i := range segments {
			best = min(best, segmentDistance(c, r[i], r[(i+1)%n]))
		}
	}
	return best
}

func segmentDistance(c, p, q geom.Coordinate) float64 {
	dx, dy := q[0]-p[0], q[1]-p[1]
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return geom.Distance(c, p)
	}
	t := ((c[0]-p[0])*dx + (c[1]-p[1])*dy) / l2
	t = max(0, min(1, t))
	return geom.Distance(c, geom.Coordinate{p[0] + t*dx, p[1] + t*dy})
}
