// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package key

import (
	"math"
	"testing"

	"github.com/framegrace/keytile/geom"
	"github.com/framegrace/keytile/theme"
)

const eps = 1e-9

func rectNear(a, b geom.Rect) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps &&
		math.Abs(a.W-b.W) < eps && math.Abs(a.H-b.H) < eps
}

func styleWith(ks theme.KeyStyle, size float64) theme.Style {
	s := theme.DefaultStyle()
	s.KeyStyle = ks
	s.KeySize = size
	return s
}

func TestKeySizeShrink(t *testing.T) {
	type tc struct {
		nominal geom.Rect
		size    float64
		want    geom.Rect
	}

	tests := map[string]tc{
		"full size is identity": {
			nominal: geom.NewRect(2, 3, 10, 4),
			size:    100,
			want:    geom.NewRect(2, 3, 10, 4),
		},
		"square shrinks evenly": {
			nominal: geom.NewRect(0, 0, 10, 10),
			size:    80,
			want:    geom.NewRect(1, 1, 8, 8),
		},
		// Wide keys copy the height border onto the width.
		"wide key uses height border": {
			nominal: geom.NewRect(0, 0, 40, 10),
			size:    80,
			want:    geom.NewRect(1, 1, 38, 8),
		},
		// Tall keys copy the width border onto the height.
		"tall key uses width border": {
			nominal: geom.NewRect(0, 0, 10, 40),
			size:    80,
			want:    geom.NewRect(1, 1, 8, 38),
		},
		"half size": {
			nominal: geom.NewRect(0, 0, 10, 10),
			size:    50,
			want:    geom.NewRect(2.5, 2.5, 5, 5),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			k := New("AC01", tt.nominal)
			if got := k.Rect(styleWith(theme.KeyStyleFlat, tt.size)); !rectNear(got, tt.want) {
				t.Errorf("Rect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestKeySizeNeverGrows(t *testing.T) {
	nominal := geom.NewRect(1, 2, 12, 5)
	k := New("SPCE", nominal)
	for size := 10.0; size <= 100; size += 10 {
		got := k.Rect(styleWith(theme.KeyStyleFlat, size))
		if got.W > nominal.W+eps || got.H > nominal.H+eps {
			t.Errorf("size %v grew the rect: %+v", size, got)
		}
	}
}

func TestPressedNudge(t *testing.T) {
	type tc struct {
		style   theme.KeyStyle
		pressed bool
		dx, dy  float64
	}

	tests := map[string]tc{
		"gradient pressed": {theme.KeyStyleGradient, true, 0.2, 0.4},
		"dish pressed":     {theme.KeyStyleDish, true, 0.45, 0.9},
		"flat pressed":     {theme.KeyStyleFlat, true, 0, 0},
		"gradient idle":    {theme.KeyStyleGradient, false, 0, 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			nominal := geom.NewRect(5, 5, 10, 10)
			k := New("AC01", nominal)
			k.Pressed = tt.pressed

			got := k.Rect(styleWith(tt.style, 100))
			want := nominal.Offset(tt.dx, tt.dy)
			if !rectNear(got, want) {
				t.Errorf("Rect = %+v, want %+v", got, want)
			}
			// The nudge moves the key without resizing it.
			if got.W != nominal.W || got.H != nominal.H {
				t.Errorf("pressed rect resized: %+v", got)
			}
		})
	}
}

func TestPressedNudgeThenShrink(t *testing.T) {
	// The nudge applies to the fullsize rect, the shrink after it.
	k := New("AC01", geom.NewRect(0, 0, 10, 10))
	k.Pressed = true

	got := k.Rect(styleWith(theme.KeyStyleGradient, 80))
	want := geom.NewRect(0.2, 0.4, 10, 10).Deflate(1, 1)
	if !rectNear(got, want) {
		t.Errorf("Rect = %+v, want %+v", got, want)
	}
}

func TestUnpressedRectIgnoresPress(t *testing.T) {
	k := New("AC01", geom.NewRect(0, 0, 10, 10))
	k.Pressed = true

	style := styleWith(theme.KeyStyleDish, 90)
	got := k.UnpressedRect(style)
	k.Pressed = false
	if want := k.Rect(style); !rectNear(got, want) {
		t.Errorf("UnpressedRect = %+v, want %+v", got, want)
	}
}

func TestLabelRect(t *testing.T) {
	nominal := geom.NewRect(0, 0, 20, 12)
	k := New("RTRN", nominal)

	flat := styleWith(theme.KeyStyleFlat, 100)
	if got, want := k.LabelRect(flat), nominal.Deflate(1, 1); !rectNear(got, want) {
		t.Errorf("flat label rect = %+v, want %+v", got, want)
	}

	dish := styleWith(theme.KeyStyleDish, 100)
	want := nominal.Deflate(2.5, 2.5).Offset(0, -0.8)
	if got := k.LabelRect(dish); !rectNear(got, want) {
		t.Errorf("dish label rect = %+v, want %+v", got, want)
	}

	// The dish and flat label rects differ by exactly the dish
	// border/offset constants versus the label margin.
	flatRect := k.LabelRect(flat)
	dishRect := k.LabelRect(dish)
	if got := flatRect.X - dishRect.X; math.Abs(got-(1-2.5)) > eps {
		t.Errorf("x delta = %v, want %v", got, 1-2.5)
	}
	if got := flatRect.Y - dishRect.Y; math.Abs(got-(1-2.5+0.8)) > eps {
		t.Errorf("y delta = %v, want %v", got, 1-2.5+0.8)
	}
}

func TestLabelRectClamps(t *testing.T) {
	k := New("tiny", geom.NewRect(0, 0, 3, 3))
	got := k.LabelRect(styleWith(theme.KeyStyleDish, 100))
	if got.W < 0 || got.H < 0 {
		t.Errorf("label rect inverted: %+v", got)
	}
	if got.W != 0 || got.H != 0 {
		t.Errorf("label rect of a 3x3 dish key = %+v, want zero size", got)
	}
}

func TestLabelRectIn(t *testing.T) {
	k := New("AC01", geom.NewRect(0, 0, 10, 10))
	style := styleWith(theme.KeyStyleFlat, 100)

	outer := geom.NewRect(50, 50, 8, 8)
	if got, want := k.LabelRectIn(outer, style), outer.Deflate(1, 1); !rectNear(got, want) {
		t.Errorf("LabelRectIn = %+v, want %+v", got, want)
	}
}

func TestDwellProgressRect(t *testing.T) {
	k := New("AC01", geom.NewRect(0, 0, 10, 10))
	style := styleWith(theme.KeyStyleFlat, 100)

	if got, want := k.DwellProgressRect(style), k.LabelRect(style).Inflate(0.5, 0.5); !rectNear(got, want) {
		t.Errorf("DwellProgressRect = %+v, want %+v", got, want)
	}
}

func TestFullsizeRect(t *testing.T) {
	nominal := geom.NewRect(3, 4, 7, 8)
	k := New("AC01", nominal)
	k.Pressed = true
	if got := k.FullsizeRect(); !rectNear(got, nominal) {
		t.Errorf("FullsizeRect = %+v, want %+v", got, nominal)
	}
}

func TestAlignLabel(t *testing.T) {
	k := New("AC01", geom.NewRect(0, 0, 10, 10))

	got := k.AlignLabel(geom.Size{W: 4, H: 2}, geom.Size{W: 10, H: 6})
	if want := (geom.Point{X: 3, Y: 2}); got != want {
		t.Errorf("centered AlignLabel = %+v, want %+v", got, want)
	}

	k.LabelXAlign, k.LabelYAlign = 0, 1
	got = k.AlignLabel(geom.Size{W: 4, H: 2}, geom.Size{W: 10, H: 6})
	if want := (geom.Point{X: 0, Y: 4}); got != want {
		t.Errorf("corner AlignLabel = %+v, want %+v", got, want)
	}

	// Oversized labels overflow with negative offsets.
	k.LabelXAlign, k.LabelYAlign = 0.5, 0.5
	got = k.AlignLabel(geom.Size{W: 12, H: 8}, geom.Size{W: 10, H: 6})
	if want := (geom.Point{X: -1, Y: -1}); got != want {
		t.Errorf("overflow AlignLabel = %+v, want %+v", got, want)
	}
}
