// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: geom/rect.go
// Summary: Float64 geometry primitives for keyboard layouts.

package geom

import "math"

// Point is a position in logical layout units.
type Point struct {
	X, Y float64
}

// Size is a width/height pair in logical layout units.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle in logical layout units.
// X and Y are the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// NewRect creates a Rect from a top-left corner and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Position returns the top-left corner.
func (r Rect) Position() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the point lies inside the rectangle.
// The left and top edges are inside, the right and bottom edges are not.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Offset returns r moved by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Deflate returns r shrunk by dx on the left and right and dy on the top
// and bottom. Width and height clamp at zero; a margin larger than half
// the dimension never inverts the rectangle.
func (r Rect) Deflate(dx, dy float64) Rect {
	return Rect{
		X: r.X + dx,
		Y: r.Y + dy,
		W: math.Max(0, r.W-2*dx),
		H: math.Max(0, r.H-2*dy),
	}
}

// Inflate returns r grown by dx on the left and right and dy on the top
// and bottom. Negative amounts shrink and clamp like Deflate.
func (r Rect) Inflate(dx, dy float64) Rect {
	return r.Deflate(-dx, -dy)
}

// Intersect returns the overlap of two rectangles, or the zero Rect when
// they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x := math.Max(r.X, other.X)
	y := math.Max(r.Y, other.Y)
	right := math.Min(r.Right(), other.Right())
	bottom := math.Min(r.Bottom(), other.Bottom())
	if right <= x || bottom <= y {
		return Rect{}
	}
	return Rect{X: x, Y: y, W: right - x, H: bottom - y}
}

// Union returns the smallest rectangle containing both rectangles.
// If either is empty the other is returned.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	x := math.Min(r.X, other.X)
	y := math.Min(r.Y, other.Y)
	right := math.Max(r.Right(), other.Right())
	bottom := math.Max(r.Bottom(), other.Bottom())
	return Rect{X: x, Y: y, W: right - x, H: bottom - y}
}

// Align positions a box of the given size inside r. The fractions select
// the position per axis: 0 flush left/top, 0.5 centered, 1 flush
// right/bottom. A box larger than r overflows symmetrically to the
// fraction.
func (r Rect) Align(inner Size, xFrac, yFrac float64) Rect {
	return Rect{
		X: r.X + xFrac*(r.W-inner.W),
		Y: r.Y + yFrac*(r.H-inner.H),
		W: inner.W,
		H: inner.H,
	}
}
