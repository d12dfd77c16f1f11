// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: layout/layout.go
// Summary: JSON keyboard layouts and key construction.

package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/framegrace/keytile/geom"
	"github.com/framegrace/keytile/key"
	"github.com/framegrace/keytile/theme"
)

var (
	// ErrUnknownModifier reports a modifier name no bit is assigned to.
	ErrUnknownModifier = errors.New("unknown modifier name")
	// ErrBadLabelMask reports a labels key that is not a decimal mask.
	ErrBadLabelMask = errors.New("bad label mask")
	// ErrBadGeometry reports a key with negative dimensions.
	ErrBadGeometry = errors.New("bad key geometry")
	// ErrBadLayerID reports a layer button whose id carries no index.
	ErrBadLayerID = errors.New("bad layer button id")
)

// boardFile is the on-disk JSON shape of a layout. Key positions are
// logical units; labels are keyed by decimal modifier masks, the same
// masks the resolver sees at runtime.
type boardFile struct {
	Name      string    `json:"name"`
	KeyWidth  float64   `json:"key_width"`
	KeyHeight float64   `json:"key_height"`
	Keys      []keyFile `json:"keys"`
}

type keyFile struct {
	ID             string            `json:"id"`
	X              float64           `json:"x"`
	Y              float64           `json:"y"`
	W              *float64          `json:"w"`
	H              *float64          `json:"h"`
	Labels         map[string]string `json:"labels"`
	Type           string            `json:"type"`
	Code           string            `json:"code"`
	Action         string            `json:"action"`
	Modifier       string            `json:"modifier"`
	Sticky         bool              `json:"sticky"`
	StickyBehavior string            `json:"sticky_behavior"`
	Scannable      *bool             `json:"scannable"`
	ScanPriority   int               `json:"scan_priority"`
	Layer          *int              `json:"layer"`
	LabelAlign     []float64         `json:"label_align"`
	FontSize       float64           `json:"font_size"`
	Image          string            `json:"image"`
	Tooltip        string            `json:"tooltip"`
}

// Board is a loaded keyboard layout: an ordered key list plus lookup
// by stable id.
type Board struct {
	Name string
	Keys []*key.Key

	byID map[string]*key.Key
}

// Load reads and parses a layout file.
func Load(path string, style theme.Style) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	board, err := Parse(data, style)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return board, nil
}

// Parse builds a board from layout JSON. Keys inherit defaults from the
// board header and the style; malformed tokens fail fast with their
// typed error and nothing half-built escapes.
func Parse(data []byte, style theme.Style) (*Board, error) {
	var f boardFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	defW := f.KeyWidth
	if defW == 0 {
		defW = 10
	}
	defH := f.KeyHeight
	if defH == 0 {
		defH = 10
	}

	board := &Board{
		Name: f.Name,
		Keys: make([]*key.Key, 0, len(f.Keys)),
		byID: make(map[string]*key.Key, len(f.Keys)),
	}

	for i, kf := range f.Keys {
		k, err := buildKey(kf, defW, defH, style)
		if err != nil {
			return nil, fmt.Errorf("key %d (%s): %w", i, kf.ID, err)
		}
		board.Keys = append(board.Keys, k)
		if _, dup := board.byID[k.ID]; !dup {
			board.byID[k.ID] = k
		}
	}
	return board, nil
}

func buildKey(kf keyFile, defW, defH float64, style theme.Style) (*key.Key, error) {
	w, h := defW, defH
	if kf.W != nil {
		w = *kf.W
	}
	if kf.H != nil {
		h = *kf.H
	}
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("%w: %vx%v", ErrBadGeometry, w, h)
	}

	k := key.New(kf.ID, geom.NewRect(kf.X, kf.Y, w, h))

	for raw, label := range kf.Labels {
		mask, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadLabelMask, raw)
		}
		k.Labels[key.ModMask(mask)] = label
	}

	typ, err := key.ParseType(kf.Type)
	if err != nil {
		return nil, err
	}
	k.Type = typ
	k.Code = kf.Code

	action, err := key.ParseAction(kf.Action)
	if err != nil {
		return nil, err
	}
	k.Action = action

	if kf.Modifier != "" {
		mod, err := parseModifier(kf.Modifier)
		if err != nil {
			return nil, err
		}
		k.Modifier = mod
	}

	k.Sticky = kf.Sticky
	if kf.StickyBehavior != "" {
		behavior, err := key.ParseStickyBehavior(kf.StickyBehavior)
		if err != nil {
			return nil, err
		}
		k.StickyBehavior = behavior
	}

	if kf.Scannable != nil {
		k.Scannable = *kf.Scannable
	}
	k.ScanPriority = kf.ScanPriority

	if kf.Layer != nil {
		k.Layer = *kf.Layer
	}

	k.LabelXAlign = style.LabelAlign.X
	k.LabelYAlign = style.LabelAlign.Y
	if len(kf.LabelAlign) == 2 {
		k.LabelXAlign = kf.LabelAlign[0]
		k.LabelYAlign = kf.LabelAlign[1]
	}
	if kf.FontSize != 0 {
		k.FontSize = kf.FontSize
	}
	k.ImageFilename = kf.Image
	k.Tooltip = kf.Tooltip

	// A layer button with a malformed index would blow up at switch
	// time; reject it while we still have file context.
	if k.IsLayerButton() {
		if _, err := strconv.Atoi(k.ID[len("layer"):]); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadLayerID, k.ID)
		}
	}

	return k, nil
}

// parseModifier accepts a symbolic name ("SHIFT") or a raw bit value
// ("64").
func parseModifier(s string) (key.ModMask, error) {
	if m, ok := key.ModByName(s); ok {
		return m, nil
	}
	if v, err := strconv.ParseUint(s, 10, 16); err == nil {
		return key.ModMask(v), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModifier, s)
}

// Key returns the first key with the given stable id, or nil.
func (b *Board) Key(id string) *key.Key {
	return b.byID[id]
}

// Bounds returns the union of every key's fullsize rect.
func (b *Board) Bounds() geom.Rect {
	var bounds geom.Rect
	for _, k := range b.Keys {
		bounds = bounds.Union(k.FullsizeRect())
	}
	return bounds
}

// LayerCount returns how many layers the board addresses: assigned key
// layers and layer button targets, whichever reaches higher.
func (b *Board) LayerCount() int {
	count := 1
	for _, k := range b.Keys {
		if k.Layer >= count {
			count = k.Layer + 1
		}
		if k.IsLayerButton() && k.LayerIndex() >= count {
			count = k.LayerIndex() + 1
		}
	}
	return count
}

// OnLayer returns the keys visible while the given layer is active:
// unlayered keys plus the layer's own.
func (b *Board) OnLayer(layer int) []*key.Key {
	out := make([]*key.Key, 0, len(b.Keys))
	for _, k := range b.Keys {
		if k.Layer < 0 || k.Layer == layer {
			out = append(out, k)
		}
	}
	return out
}

// ConfigureLabels resolves every key's label for the held modifiers.
func (b *Board) ConfigureLabels(mask key.ModMask) {
	for _, k := range b.Keys {
		k.ConfigureLabel(mask)
	}
}

// ClearColorCaches drops every key's memoized colors, for theme
// switches.
func (b *Board) ClearColorCaches() {
	for _, k := range b.Keys {
		k.ClearColorCache()
	}
}

// HeldMask folds the latched modifier bits of every active or locked
// modifier key into one mask.
func (b *Board) HeldMask() key.ModMask {
	var mask key.ModMask
	for _, k := range b.Keys {
		if k.IsModifier() && (k.Active || k.Locked || k.Pressed) {
			mask |= k.Modifier
		}
	}
	return mask
}
