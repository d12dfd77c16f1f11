// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/board/view.go
// Summary: Paints a keyboard layout onto a terminal cell grid.

package board

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/keytile/geom"
	"github.com/framegrace/keytile/key"
	"github.com/framegrace/keytile/layout"
	"github.com/framegrace/keytile/theme"
)

// Surface is the cell grid a View paints onto. tcell.Screen satisfies
// it; tests use an in-memory grid.
type Surface interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Size() (int, int)
}

// View renders one board layer onto a Surface. It owns the board-to-
// cell transform, which is refit to the surface size on every Draw, so
// resizes need no extra handling.
type View struct {
	board  *layout.Board
	scheme *theme.Scheme
	style  theme.Style
	layer  int
	margin geom.Size

	tf     Transform
	styles map[styleKey]tcell.Style
}

// NewView creates a view of a board under a theme.
func NewView(b *layout.Board, scheme *theme.Scheme, style theme.Style) *View {
	return &View{
		board:  b,
		scheme: scheme,
		style:  style,
		styles: make(map[styleKey]tcell.Style),
	}
}

// Board returns the board being rendered.
func (v *View) Board() *layout.Board {
	return v.board
}

// Style returns the active style constants.
func (v *View) Style() theme.Style {
	return v.style
}

// SetTheme swaps the color scheme and style. Styles derived from the
// old theme are dropped, as are the per-key color caches.
func (v *View) SetTheme(scheme *theme.Scheme, style theme.Style) {
	v.scheme = scheme
	v.style = style
	v.styles = make(map[styleKey]tcell.Style)
	v.board.ClearColorCaches()
}

// Layer returns the visible layer.
func (v *View) Layer() int {
	return v.layer
}

// SetLayer switches the visible layer, clamped to the board's layers.
func (v *View) SetLayer(n int) {
	if n < 0 {
		n = 0
	}
	if count := v.board.LayerCount(); n >= count && count > 0 {
		n = count - 1
	}
	v.layer = n
}

// SetMargin sets the free cells kept around the board.
func (v *View) SetMargin(m geom.Size) {
	v.margin = m
}

// Transform returns the transform of the last Draw.
func (v *View) Transform() Transform {
	return v.tf
}

// Draw fits the board to the surface and paints the visible layer.
func (v *View) Draw(s Surface) {
	cols, rows := s.Size()
	v.tf = Fit(v.board.Bounds(), cols, rows, v.margin)
	if !v.tf.Valid() {
		return
	}
	for _, k := range v.board.OnLayer(v.layer) {
		v.drawKey(s, k)
	}
}

// KeyAt hit-tests a cell against the visible layer. Keys are hit on
// their fullsize rect, so the gaps the key-size shrink opens up still
// belong to the key.
func (v *View) KeyAt(x, y int) *key.Key {
	if !v.tf.Valid() {
		return nil
	}
	p := v.tf.Board(x, y)
	for _, k := range v.board.OnLayer(v.layer) {
		if k.FullsizeRect().Contains(p) {
			return k
		}
	}
	return nil
}

func (v *View) drawKey(s Surface, k *key.Key) {
	x, y, w, h := v.tf.CellRect(k.Rect(v.style))
	if w < 1 || h < 1 {
		return
	}

	fill := toColor(k.Color(key.RoleFill, v.colorScheme()))
	stroke := toColor(k.Color(key.RoleStroke, v.colorScheme()))
	labelColor := toColor(k.Color(key.RoleLabel, v.colorScheme()))

	fillStyle := v.getStyle(labelColor, fill, k.Locked)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			s.SetContent(x+col, y+row, ' ', nil, fillStyle)
		}
	}

	lod := levelOfDetail(w, h)
	innerX, innerY, innerW, innerH := x, y, w, h
	if lod == key.LODFull {
		v.drawBorder(s, x, y, w, h, v.getStyle(stroke, fill, false))
		innerX, innerY, innerW, innerH = x+1, y+1, w-2, h-2
	}
	v.drawLabel(s, k, fillStyle, lod, innerX, innerY, innerW, innerH)
}

func (v *View) drawLabel(s Surface, k *key.Key, st tcell.Style, lod key.LOD, x, y, w, h int) {
	text := k.Label
	if text == "" || w < 1 || h < 1 {
		return
	}
	if lod == key.LODMinimal {
		// Too small to lay out; show what fits from the left edge.
		text = runewidth.Truncate(text, w, "")
		drawString(s, x, y, text, st)
		return
	}
	if runewidth.StringWidth(text) > w {
		text = runewidth.Truncate(text, w, "")
	}
	lx := x + int(math.Round(k.LabelXAlign*float64(w-runewidth.StringWidth(text))))
	ly := y + int(math.Round(k.LabelYAlign*float64(h-1)))
	drawString(s, lx, ly, text, st)
}

func (v *View) drawBorder(s Surface, x, y, w, h int, st tcell.Style) {
	if w < 2 || h < 2 {
		return
	}
	for col := x + 1; col < x+w-1; col++ {
		s.SetContent(col, y, tcell.RuneHLine, nil, st)
		s.SetContent(col, y+h-1, tcell.RuneHLine, nil, st)
	}
	for row := y + 1; row < y+h-1; row++ {
		s.SetContent(x, row, tcell.RuneVLine, nil, st)
		s.SetContent(x+w-1, row, tcell.RuneVLine, nil, st)
	}
	s.SetContent(x, y, tcell.RuneULCorner, nil, st)
	s.SetContent(x+w-1, y, tcell.RuneURCorner, nil, st)
	s.SetContent(x, y+h-1, tcell.RuneLLCorner, nil, st)
	s.SetContent(x+w-1, y+h-1, tcell.RuneLRCorner, nil, st)
}

func (v *View) colorScheme() key.ColorScheme {
	if v.scheme == nil {
		return nil
	}
	return v.scheme
}

func drawString(s Surface, x, y int, text string, st tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, st)
		x += runewidth.RuneWidth(r)
	}
}

// levelOfDetail picks how much decoration fits a key's cell box: full
// detail gets a border, reduced drops it, minimal gives up on label
// layout too.
func levelOfDetail(w, h int) key.LOD {
	switch {
	case h >= 3 && w >= 4:
		return key.LODFull
	case h >= 2 && w >= 2:
		return key.LODReduced
	default:
		return key.LODMinimal
	}
}
