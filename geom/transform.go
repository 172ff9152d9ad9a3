// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import "math"

// Transform is a 2D affine transformation in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// which maps (x, y) to (A*x + B*y + C, D*x + E*y + F).
type Transform struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, E: 1}
}

// Translate returns a translation transform.
func Translate(x, y float64) Transform {
	return Transform{A: 1, C: x, E: 1, F: y}
}

// Scale returns a scaling transform.
func Scale(x, y float64) Transform {
	return Transform{A: x, E: y}
}

// Rotate returns a rotation transform (angle in radians).
func Rotate(angle float64) Transform {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Transform{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// RotateAt returns a rotation by angle around (cx, cy).
func RotateAt(angle, cx, cy float64) Transform {
	return Translate(cx, cy).Multiply(Rotate(angle)).Multiply(Translate(-cx, -cy))
}

// Compose builds translate(dx1, dy1) * scale(sx, sy) * rotate(angle) *
// translate(dx2, dy2) in a single step.
//
// With dx1/dy1 the half viewport size in pixels, sx = pixelRatio/resolution,
// sy = -sx, angle = -rotation and dx2/dy2 the negated view center, the
// result maps map coordinates to viewport pixels.
func Compose(dx1, dy1, sx, sy, angle, dx2, dy2 float64) Transform {
	sin := math.Sin(angle)
	cos := math.Cos(angle)
	return Transform{
		A: sx * cos, B: -sx * sin, C: dx2*sx*cos - dy2*sx*sin + dx1,
		D: sy * sin, E: sy * cos, F: dx2*sy*sin + dy2*sy*cos + dy1,
	}
}

// Multiply returns t * o: o is applied first, then t.
func (t Transform) Multiply(o Transform) Transform {
	return Transform{
		A: t.A*o.A + t.B*o.D,
		B: t.A*o.B + t.B*o.E,
		C: t.A*o.C + t.B*o.F + t.C,
		D: t.D*o.A + t.E*o.D,
		E: t.D*o.B + t.E*o.E,
		F: t.D*o.C + t.E*o.F + t.F,
	}
}

// Apply maps a coordinate.
func (t Transform) Apply(c Coordinate) Coordinate {
	return Coordinate{
		t.A*c[0] + t.B*c[1] + t.C,
		t.D*c[0] + t.E*c[1] + t.F,
	}
}

// Determinant returns the determinant of the linear part.
func (t Transform) Determinant() float64 {
	return t.A*t.E - t.B*t.D
}

// Invert returns the inverse transform and whether it exists.
func (t Transform) Invert() (Transform, bool) {
	det := t.Determinant()
	if det == 0 {
		return Transform{}, false
	}
	inv := 1 / det
	return Transform{
		A: t.E * inv,
		B: -t.B * inv,
		C: (t.B*t.F - t.E*t.C) * inv,
		D: -t.D * inv,
		E: t.A * inv,
		F: (t.D*t.C - t.A*t.F) * inv,
	}, true
}

// IsIdentity reports whether t is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}
