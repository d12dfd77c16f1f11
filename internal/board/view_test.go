// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package board

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/keytile/geom"
	"github.com/framegrace/keytile/layout"
	"github.com/framegrace/keytile/theme"
)

const testBoard = `{
	"name": "test",
	"key_width": 10,
	"key_height": 10,
	"keys": [
		{"id": "A", "x": 0, "y": 0, "layer": 0, "labels": {"0": "a", "1": "A"}, "type": "char"},
		{"id": "B", "x": 10, "y": 0, "layer": 0, "labels": {"0": "b"}, "type": "char"},
		{"id": "layer1", "x": 20, "y": 0, "labels": {"0": "123"}, "type": "button"},
		{"id": "Z", "x": 0, "y": 0, "layer": 1, "labels": {"0": "z"}, "type": "char"}
	]
}`

const redTheme = `
name = "red"
key_style = "flat"
key_size = 100

[colors.fill]
base = "#ff0000"

[colors.stroke]
base = "#00ff00"

[colors.label]
base = "#ffffff"
`

const blueTheme = `
name = "blue"
key_style = "flat"
key_size = 100

[colors.fill]
base = "#0000ff"

[colors.stroke]
base = "#00ff00"

[colors.label]
base = "#ffffff"
`

type fakeSurface struct {
	w, h   int
	runes  map[[2]int]rune
	styles map[[2]int]tcell.Style
}

func newFakeSurface(w, h int) *fakeSurface {
	return &fakeSurface{
		w:      w,
		h:      h,
		runes:  make(map[[2]int]rune),
		styles: make(map[[2]int]tcell.Style),
	}
}

func (f *fakeSurface) SetContent(x, y int, mainc rune, _ []rune, style tcell.Style) {
	f.runes[[2]int{x, y}] = mainc
	f.styles[[2]int{x, y}] = style
}

func (f *fakeSurface) Size() (int, int) {
	return f.w, f.h
}

func (f *fakeSurface) contains(r rune) bool {
	for _, got := range f.runes {
		if got == r {
			return true
		}
	}
	return false
}

func testView(t *testing.T, src, themeSrc string) *View {
	t.Helper()
	scheme, style, err := theme.Parse([]byte(themeSrc))
	if err != nil {
		t.Fatalf("parse theme: %v", err)
	}
	b, err := layout.Parse([]byte(src), style)
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	b.ConfigureLabels(0)
	return NewView(b, scheme, style)
}

func TestDrawPaintsVisibleLayer(t *testing.T) {
	v := testView(t, testBoard, redTheme)

	s := newFakeSurface(60, 10)
	v.Draw(s)
	if !s.contains('a') || !s.contains('b') || !s.contains('1') {
		t.Fatalf("expected layer 0 labels to be painted")
	}
	if s.contains('z') {
		t.Fatalf("did not expect layer 1 key on layer 0")
	}

	v.SetLayer(1)
	s = newFakeSurface(60, 10)
	v.Draw(s)
	if !s.contains('z') {
		t.Fatalf("expected layer 1 key after SetLayer")
	}
	if s.contains('b') {
		t.Fatalf("did not expect layer 0 key on layer 1")
	}
	// The layer button lives on every layer.
	if !s.contains('1') {
		t.Fatalf("expected layer button on layer 1")
	}
}

func TestDrawBorderAtFullDetail(t *testing.T) {
	v := testView(t, testBoard, redTheme)

	// Scale 1: key A covers cells (0,0)-(19,9), full detail.
	s := newFakeSurface(60, 10)
	v.Draw(s)

	if got := s.runes[[2]int{0, 0}]; got != tcell.RuneULCorner {
		t.Fatalf("top-left = %q, want corner", got)
	}
	if got := s.runes[[2]int{19, 9}]; got != tcell.RuneLRCorner {
		t.Fatalf("bottom-right = %q, want corner", got)
	}
	if got := s.runes[[2]int{10, 0}]; got != tcell.RuneHLine {
		t.Fatalf("top edge = %q, want horizontal line", got)
	}
	if got := s.runes[[2]int{0, 5}]; got != tcell.RuneVLine {
		t.Fatalf("left edge = %q, want vertical line", got)
	}
}

func TestDrawFillUsesThemeColor(t *testing.T) {
	v := testView(t, testBoard, redTheme)

	s := newFakeSurface(60, 10)
	v.Draw(s)

	_, bg, _ := s.styles[[2]int{2, 2}].Decompose()
	if want := tcell.NewRGBColor(255, 0, 0); bg != want {
		t.Fatalf("fill bg = %v, want %v", bg, want)
	}

	scheme, style, err := theme.Parse([]byte(blueTheme))
	if err != nil {
		t.Fatalf("parse theme: %v", err)
	}
	v.SetTheme(scheme, style)

	s = newFakeSurface(60, 10)
	v.Draw(s)
	_, bg, _ = s.styles[[2]int{2, 2}].Decompose()
	if want := tcell.NewRGBColor(0, 0, 255); bg != want {
		t.Fatalf("fill bg after SetTheme = %v, want %v", bg, want)
	}
}

func TestDrawTruncatesAtMinimalDetail(t *testing.T) {
	v := testView(t, `{
		"name": "one",
		"key_width": 10,
		"key_height": 10,
		"keys": [{"id": "F10", "x": 0, "y": 0, "labels": {"0": "F10"}, "type": "keysym", "code": "F10"}]
	}`, redTheme)

	// One row: the key box is 2x1, room for two of three label cells.
	s := newFakeSurface(12, 1)
	v.Draw(s)
	if got := s.runes[[2]int{5, 0}]; got != 'F' {
		t.Fatalf("cell (5,0) = %q, want 'F'", got)
	}
	if got := s.runes[[2]int{6, 0}]; got != '1' {
		t.Fatalf("cell (6,0) = %q, want '1'", got)
	}
	if s.contains('0') {
		t.Fatalf("expected label to be cut before '0'")
	}
}

func TestDrawSkipsImpossibleFit(t *testing.T) {
	v := testView(t, testBoard, redTheme)

	s := newFakeSurface(0, 0)
	v.Draw(s)
	if len(s.runes) != 0 {
		t.Fatalf("expected nothing painted on empty surface")
	}
	if got := v.KeyAt(0, 0); got != nil {
		t.Fatalf("expected no hit without a valid transform, got %v", got.ID)
	}
}

func TestKeyAtHitsFullsizeRect(t *testing.T) {
	v := testView(t, testBoard, redTheme)

	s := newFakeSurface(60, 10)
	v.Draw(s)

	tests := map[string]struct {
		x, y int
		want string
	}{
		"center of A":     {5, 5, "A"},
		"center of B":     {25, 5, "B"},
		"layer button":    {45, 5, "layer1"},
		"bottom right":    {59, 9, "layer1"},
		"top left corner": {0, 0, "A"},
		"between A and B": {19, 5, "A"},
		"first cell of B": {20, 5, "B"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			k := v.KeyAt(tc.x, tc.y)
			if k == nil {
				t.Fatalf("no key at (%d,%d)", tc.x, tc.y)
			}
			if k.ID != tc.want {
				t.Fatalf("key at (%d,%d) = %s, want %s", tc.x, tc.y, k.ID, tc.want)
			}
		})
	}
}

func TestKeyAtHitsShrinkGap(t *testing.T) {
	v := testView(t, testBoard, redTheme)
	scheme, _, err := theme.Parse([]byte(redTheme))
	if err != nil {
		t.Fatalf("parse theme: %v", err)
	}
	style := theme.DefaultStyle()
	style.KeySize = 50
	v.SetTheme(scheme, style)

	s := newFakeSurface(60, 10)
	v.Draw(s)

	// Cell (1,0) is in the gap the shrink opened, but still over the
	// key's nominal footprint.
	k := v.KeyAt(1, 0)
	if k == nil || k.ID != "A" {
		t.Fatalf("expected shrink gap to hit A, got %v", k)
	}
}

func TestSetLayerClamps(t *testing.T) {
	v := testView(t, testBoard, redTheme)

	v.SetLayer(99)
	if got := v.Layer(); got != 1 {
		t.Fatalf("layer = %d, want clamp to 1", got)
	}
	v.SetLayer(-3)
	if got := v.Layer(); got != 0 {
		t.Fatalf("layer = %d, want clamp to 0", got)
	}
}

func TestWideRuneAdvances(t *testing.T) {
	v := testView(t, `{
		"name": "cjk",
		"key_width": 10,
		"key_height": 10,
		"keys": [{"id": "KANA", "x": 0, "y": 0, "labels": {"0": "あ"}, "type": "char"}]
	}`, redTheme)

	s := newFakeSurface(20, 10)
	v.Draw(s)
	if !s.contains('あ') {
		t.Fatalf("expected wide rune painted")
	}
	var at [2]int
	for pos, r := range s.runes {
		if r == 'あ' {
			at = pos
		}
	}
	// The cell after a wide rune keeps the fill; nothing overwrites it.
	if got := s.runes[[2]int{at[0] + 1, at[1]}]; got != ' ' {
		t.Fatalf("cell after wide rune = %q, want fill space", got)
	}
}

func TestGetStyleMemoizes(t *testing.T) {
	v := testView(t, testBoard, redTheme)

	fg := tcell.NewRGBColor(1, 2, 3)
	bg := tcell.NewRGBColor(4, 5, 6)
	first := v.getStyle(fg, bg, true)
	second := v.getStyle(fg, bg, true)
	if first != second {
		t.Fatalf("expected identical style from cache")
	}
	if len(v.styles) != 1 {
		t.Fatalf("style cache size = %d, want 1", len(v.styles))
	}
	v.getStyle(fg, bg, false)
	if len(v.styles) != 2 {
		t.Fatalf("style cache size = %d, want 2", len(v.styles))
	}
}

func TestToColorChannels(t *testing.T) {
	tests := map[string]struct {
		in   theme.RGBA
		want tcell.Color
	}{
		"black":     {theme.RGBA{R: 0, G: 0, B: 0, A: 1}, tcell.NewRGBColor(0, 0, 0)},
		"white":     {theme.RGBA{R: 1, G: 1, B: 1, A: 1}, tcell.NewRGBColor(255, 255, 255)},
		"mid gray":  {theme.RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}, tcell.NewRGBColor(128, 128, 128)},
		"clamp low": {theme.RGBA{R: -0.2, G: 0, B: 0, A: 1}, tcell.NewRGBColor(0, 0, 0)},
		"clamp hi":  {theme.RGBA{R: 1.4, G: 0, B: 0, A: 1}, tcell.NewRGBColor(255, 0, 0)},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := toColor(tc.in); got != tc.want {
				t.Fatalf("toColor(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestMarginShrinksBoard(t *testing.T) {
	v := testView(t, testBoard, redTheme)
	v.SetMargin(geom.Size{W: 2, H: 1})

	s := newFakeSurface(60, 10)
	v.Draw(s)
	for pos := range s.runes {
		if pos[0] < 2 || pos[0] >= 58 || pos[1] < 1 || pos[1] >= 9 {
			t.Fatalf("painted cell %v inside margin", pos)
		}
	}
	if len(s.runes) == 0 {
		t.Fatalf("expected the board painted inside margins")
	}
}
