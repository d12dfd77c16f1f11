// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: key/key.go
// Summary: The key model: identity, state flags and predicates.

package key

import (
	"strconv"
	"strings"

	"github.com/framegrace/keytile/geom"
	"github.com/framegrace/keytile/theme"
)

// Key is one on-screen keyboard key. It owns its nominal geometry, its
// label map and a private color cache; interaction flags are written by
// the input side and only read here. Everything a renderer asks of a
// key — label, rect, color — is resolved fresh from this state, so a
// frame never sees stale values.
type Key struct {
	// ThemeID addresses per-location visual tweaks and has the form
	// "<id>.<location>", e.g. "DELE.next-to-backspace". ID is the
	// stable identity in front of the first dot and never contains
	// one.
	ThemeID string
	ID      string

	// Labels maps modifier masks to display text. The single-bit
	// masks 1, 2, 128 and 129 double as legacy fallback slots.
	Labels map[ModMask]string

	// Label is the text currently displayed, set by ConfigureLabel.
	Label string

	// Shape selects the outline geometry.
	Shape Shape

	// Interaction state, owned by the input side.
	Prelight  bool
	Pressed   bool
	Active    bool
	Locked    bool
	Scanned   bool
	Sensitive bool

	// Scannable hides the key from the scanner when false;
	// ScanPriority orders scanning.
	Scannable    bool
	ScanPriority int

	// Modifier is the latched bit for modifier keys, 0 otherwise.
	Modifier ModMask

	Sticky         bool
	StickyBehavior StickyBehavior

	// Type and Code describe what activating the key emits; Action
	// describes when.
	Type   Type
	Code   string
	Action Action

	// Layer is the board layer the key is drawn on; -1 draws it on
	// every layer.
	Layer int

	// Label placement fractions in [0, 1] per axis.
	LabelXAlign float64
	LabelYAlign float64

	FontSize      float64
	ImageFilename string
	Tooltip       string

	nominal geom.Rect
	colors  map[colorKey]theme.RGBA
}

// New creates a key from its layout identifier and nominal rect. All
// state is per instance; keys share nothing.
func New(id string, nominal geom.Rect) *Key {
	themeID, bareID := SplitID(id)
	return &Key{
		ThemeID:     themeID,
		ID:          bareID,
		Labels:      make(map[ModMask]string),
		Shape:       ShapeRectangle,
		Sensitive:   true,
		Scannable:   true,
		Layer:       -1,
		LabelXAlign: 0.5,
		LabelYAlign: 0.5,
		FontSize:    1,
		nominal:     nominal,
		colors:      make(map[colorKey]theme.RGBA),
	}
}

// SplitID splits a key identifier into its theme id and stable id.
// Theme ids name a location, not a layout — layouts get copied and
// renamed by users, key positions don't.
func SplitID(value string) (themeID, id string) {
	id, _, _ = strings.Cut(value, ".")
	return value, id
}

// IsModifier reports whether the key latches a modifier bit. Modifiers
// are all the latchable/lockable keys: LWIN, RTSH, LFSH, RALT, LALT,
// RCTL, LCTL, CAPS, NMLK.
func (k *Key) IsModifier() bool {
	return k.Modifier != 0
}

// IsPressedOnly reports a bare press, with no latched, locked or
// scanned state mixed in.
func (k *Key) IsPressedOnly() bool {
	return k.Pressed && !(k.Active || k.Locked || k.Scanned)
}

// IsLayerButton reports whether the key switches board layers. Layer
// buttons are identified by id: "layer0", "layer1", ...
func (k *Key) IsLayerButton() bool {
	return strings.HasPrefix(k.ID, "layer")
}

// LayerIndex returns the layer a layer button activates. Calling it on
// any other key is a programming error.
func (k *Key) LayerIndex() int {
	if !k.IsLayerButton() {
		panic("key: LayerIndex on non-layer key " + k.ID)
	}
	n, err := strconv.Atoi(k.ID[len("layer"):])
	if err != nil {
		panic("key: layer button without an index: " + k.ID)
	}
	return n
}

// Actionable reports whether activating the key emits anything.
func (k *Key) Actionable() bool {
	return k.Type != TypeNone
}

// AlignLabel returns the label offset inside a key box per the key's
// alignment fractions. Negative offsets are valid and mean the label
// overflows the box.
func (k *Key) AlignLabel(labelSize, keySize geom.Size) geom.Point {
	return geom.Point{
		X: k.LabelXAlign * (keySize.W - labelSize.W),
		Y: k.LabelYAlign * (keySize.H - labelSize.H),
	}
}
