// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/board/transform.go
// Summary: Board-space to terminal-cell coordinate mapping.

package board

import (
	"math"

	"github.com/framegrace/keytile/geom"
)

// cellAspect is how much taller than wide a terminal cell is. One board
// unit covers cellAspect times as many columns as rows so the board
// keeps its shape on screen.
const cellAspect = 2.0

// Transform maps board-space coordinates onto terminal cells. The zero
// value maps everything to the origin and reports Valid() == false.
type Transform struct {
	scale      float64
	originX    float64
	originY    float64
	offX, offY float64
}

// Fit computes the transform that letterboxes bounds into a cols x rows
// cell grid, keeping margin cells free on each side.
func Fit(bounds geom.Rect, cols, rows int, margin geom.Size) Transform {
	if bounds.IsEmpty() || cols <= 0 || rows <= 0 {
		return Transform{}
	}
	usableW := float64(cols) - 2*margin.W
	usableH := float64(rows) - 2*margin.H
	if usableW <= 0 || usableH <= 0 {
		return Transform{}
	}

	scale := usableH / bounds.H
	if byWidth := usableW / (bounds.W * cellAspect); byWidth < scale {
		scale = byWidth
	}
	if scale <= 0 {
		return Transform{}
	}

	return Transform{
		scale:   scale,
		originX: bounds.X,
		originY: bounds.Y,
		offX:    (float64(cols) - bounds.W*scale*cellAspect) / 2,
		offY:    (float64(rows) - bounds.H*scale) / 2,
	}
}

// Valid reports whether the transform maps onto at least one cell.
func (t Transform) Valid() bool {
	return t.scale > 0
}

// Scale returns rows of cells per board unit.
func (t Transform) Scale() float64 {
	return t.scale
}

func (t Transform) cellX(x float64) float64 {
	return (x-t.originX)*t.scale*cellAspect + t.offX
}

func (t Transform) cellY(y float64) float64 {
	return (y-t.originY)*t.scale + t.offY
}

// Cell returns the cell a board-space point lands in.
func (t Transform) Cell(p geom.Point) (int, int) {
	return int(math.Round(t.cellX(p.X))), int(math.Round(t.cellY(p.Y)))
}

// CellRect returns the cell rectangle covering r. Edges are rounded so
// keys sharing a board-space edge share a cell edge and never overlap.
func (t Transform) CellRect(r geom.Rect) (x, y, w, h int) {
	x0 := int(math.Round(t.cellX(r.X)))
	y0 := int(math.Round(t.cellY(r.Y)))
	x1 := int(math.Round(t.cellX(r.Right())))
	y1 := int(math.Round(t.cellY(r.Bottom())))
	return x0, y0, x1 - x0, y1 - y0
}

// Board maps a cell back to board space, at the cell's center. Used for
// pointer hit-testing.
func (t Transform) Board(x, y int) geom.Point {
	if !t.Valid() {
		return geom.Point{}
	}
	return geom.Point{
		X: (float64(x)+0.5-t.offX)/(t.scale*cellAspect) + t.originX,
		Y: (float64(y)+0.5-t.offY)/t.scale + t.originY,
	}
}
