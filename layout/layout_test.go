// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/framegrace/keytile/geom"
	"github.com/framegrace/keytile/key"
	"github.com/framegrace/keytile/theme"
)

const testLayout = `{
  "name": "mini",
  "key_width": 10,
  "key_height": 10,
  "keys": [
    {
      "id": "AD01",
      "x": 0, "y": 0,
      "labels": {"0": "q", "1": "Q", "128": "@"},
      "type": "char", "code": "q"
    },
    {
      "id": "LFSH",
      "x": 0, "y": 10, "w": 15,
      "labels": {"0": "Shift"},
      "type": "keysym", "code": "0xffe1",
      "modifier": "SHIFT",
      "sticky": true, "sticky_behavior": "cycle"
    },
    {
      "id": "NMLK",
      "x": 30, "y": 10,
      "labels": {"0": "Num"},
      "type": "keysym", "code": "0xff7f",
      "modifier": "16",
      "sticky": true, "sticky_behavior": "lock",
      "action": "double-stroke",
      "scannable": false, "scan_priority": 3
    },
    {
      "id": "layer1",
      "x": 15, "y": 10, "w": 12, "h": 6,
      "labels": {"0": "Fn"},
      "type": "button",
      "label_align": [0.5, 1.0]
    },
    {
      "id": "F01",
      "x": 10, "y": 0,
      "labels": {"0": "F1"},
      "type": "keysym", "code": "0xffbe",
      "layer": 1
    }
  ]
}`

func parseTestLayout(t *testing.T) *Board {
	t.Helper()
	board, err := Parse([]byte(testLayout), theme.DefaultStyle())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return board
}

func TestParseBoard(t *testing.T) {
	board := parseTestLayout(t)

	if board.Name != "mini" {
		t.Errorf("Name = %q, want mini", board.Name)
	}
	if len(board.Keys) != 5 {
		t.Fatalf("len(Keys) = %d, want 5", len(board.Keys))
	}

	q := board.Key("AD01")
	if q == nil {
		t.Fatal("AD01 missing")
	}
	if got := q.FullsizeRect(); got != geom.NewRect(0, 0, 10, 10) {
		t.Errorf("AD01 rect = %+v", got)
	}
	if q.Labels[0] != "q" || q.Labels[1] != "Q" || q.Labels[128] != "@" {
		t.Errorf("AD01 labels = %v", q.Labels)
	}
	if q.Type != key.TypeChar || q.Code != "q" {
		t.Errorf("AD01 type/code = %v/%q", q.Type, q.Code)
	}
	if q.Action != key.ActionSingleStroke {
		t.Errorf("AD01 action = %v, want default single-stroke", q.Action)
	}
	if !q.Scannable || !q.Sensitive || q.Layer != -1 {
		t.Errorf("AD01 defaults wrong: scannable=%v sensitive=%v layer=%d", q.Scannable, q.Sensitive, q.Layer)
	}
	if q.LabelXAlign != 0.5 || q.LabelYAlign != 0.5 {
		t.Errorf("AD01 align = (%v, %v)", q.LabelXAlign, q.LabelYAlign)
	}
}

func TestParseModifiers(t *testing.T) {
	board := parseTestLayout(t)

	shift := board.Key("LFSH")
	if shift.Modifier != key.ModShift || !shift.IsModifier() {
		t.Errorf("LFSH modifier = %v", shift.Modifier)
	}
	if !shift.Sticky || shift.StickyBehavior != key.StickyCycle {
		t.Errorf("LFSH sticky = %v/%v", shift.Sticky, shift.StickyBehavior)
	}
	if got := shift.FullsizeRect(); got != geom.NewRect(0, 10, 15, 10) {
		t.Errorf("LFSH rect = %+v (width override, height default)", got)
	}

	num := board.Key("NMLK")
	if num.Modifier != key.ModNumLock {
		t.Errorf("NMLK numeric modifier = %v, want %v", num.Modifier, key.ModNumLock)
	}
	if num.StickyBehavior != key.StickyLockOnly || num.Action != key.ActionDoubleStroke {
		t.Errorf("NMLK behavior = %v/%v", num.StickyBehavior, num.Action)
	}
	if num.Scannable || num.ScanPriority != 3 {
		t.Errorf("NMLK scan = %v/%d", num.Scannable, num.ScanPriority)
	}
}

func TestParseLayers(t *testing.T) {
	board := parseTestLayout(t)

	fn := board.Key("layer1")
	if !fn.IsLayerButton() || fn.LayerIndex() != 1 {
		t.Fatalf("layer1 button wrong")
	}
	if fn.LabelYAlign != 1.0 {
		t.Errorf("layer1 align = %v, want bottom", fn.LabelYAlign)
	}

	if got := board.LayerCount(); got != 2 {
		t.Errorf("LayerCount = %d, want 2", got)
	}

	base := board.OnLayer(0)
	if len(base) != 4 {
		t.Errorf("layer 0 has %d keys, want 4", len(base))
	}
	upper := board.OnLayer(1)
	if len(upper) != 5 {
		t.Errorf("layer 1 has %d keys, want 5", len(upper))
	}
}

func TestBounds(t *testing.T) {
	board := parseTestLayout(t)
	if got := board.Bounds(); got != geom.NewRect(0, 0, 40, 20) {
		t.Errorf("Bounds = %+v, want (0,0,40,20)", got)
	}

	empty, err := Parse([]byte(`{"name": "void"}`), theme.DefaultStyle())
	if err != nil {
		t.Fatalf("Parse empty: %v", err)
	}
	if got := empty.Bounds(); !got.IsEmpty() {
		t.Errorf("empty Bounds = %+v", got)
	}
}

func TestHeldMask(t *testing.T) {
	board := parseTestLayout(t)
	if got := board.HeldMask(); got != 0 {
		t.Fatalf("idle HeldMask = %v", got)
	}

	board.Key("LFSH").Active = true
	board.Key("NMLK").Locked = true
	if got, want := board.HeldMask(), key.ModShift|key.ModNumLock; got != want {
		t.Errorf("HeldMask = %v, want %v", got, want)
	}
}

func TestConfigureLabels(t *testing.T) {
	board := parseTestLayout(t)

	board.ConfigureLabels(0)
	if got := board.Key("AD01").Label; got != "q" {
		t.Errorf("plain label = %q", got)
	}
	board.ConfigureLabels(key.ModShift)
	if got := board.Key("AD01").Label; got != "Q" {
		t.Errorf("shift label = %q", got)
	}
	if got := board.Key("LFSH").Label; got != "Shift" {
		t.Errorf("shift key label = %q", got)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"bad sticky behavior": {
			`{"keys": [{"id": "LFSH", "sticky": true, "sticky_behavior": "stuck"}]}`,
			key.ErrUnknownStickyBehavior,
		},
		"bad action": {
			`{"keys": [{"id": "A", "action": "triple-stroke"}]}`,
			key.ErrUnknownAction,
		},
		"bad type": {
			`{"keys": [{"id": "A", "type": "gesture"}]}`,
			key.ErrUnknownType,
		},
		"bad modifier": {
			`{"keys": [{"id": "A", "modifier": "HYPER"}]}`,
			ErrUnknownModifier,
		},
		"bad label mask": {
			`{"keys": [{"id": "A", "labels": {"shift": "x"}}]}`,
			ErrBadLabelMask,
		},
		"negative width": {
			`{"keys": [{"id": "A", "w": -4}]}`,
			ErrBadGeometry,
		},
		"layer button without index": {
			`{"keys": [{"id": "layerX"}]}`,
			ErrBadLayerID,
		},
	}

	for name, tt := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc), theme.DefaultStyle()); !errors.Is(err, tt.want) {
				t.Errorf("Parse err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Parse([]byte("{"), theme.DefaultStyle()); err == nil {
		t.Error("Parse of truncated JSON succeeded")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mini.json")
	if err := os.WriteFile(path, []byte(testLayout), 0644); err != nil {
		t.Fatalf("write layout: %v", err)
	}

	board, err := Load(path, theme.DefaultStyle())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if board.Name != "mini" {
		t.Errorf("Name = %q", board.Name)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "gone.json"), theme.DefaultStyle()); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

func TestStyleDefaultAlign(t *testing.T) {
	style := theme.DefaultStyle()
	style.LabelAlign = geom.Point{X: 0.25, Y: 0.75}

	board, err := Parse([]byte(`{"keys": [{"id": "A"}]}`), style)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	k := board.Keys[0]
	if k.LabelXAlign != 0.25 || k.LabelYAlign != 0.75 {
		t.Errorf("align = (%v, %v), want style default", k.LabelXAlign, k.LabelYAlign)
	}
}
