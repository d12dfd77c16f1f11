// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: theme/scheme.go
// Summary: TOML color schemes with per-state and per-key colors.

package theme

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/framegrace/keytile/geom"
)

// pressedBrighten is how much a pressed key brightens when its theme
// names no explicit pressed color.
const pressedBrighten = 0.2

// KeyState is the slice of a key's state that color lookup reads.
type KeyState struct {
	ThemeID string
	ID      string

	Prelight  bool
	Pressed   bool
	Active    bool
	Locked    bool
	Sensitive bool
	Scanned   bool
}

// roleColors is one role's base color plus optional state variants.
type roleColors struct {
	base        RGBA
	prelight    *RGBA
	pressed     *RGBA
	active      *RGBA
	locked      *RGBA
	scanned     *RGBA
	insensitive *RGBA
}

// Scheme is a named set of key colors, loaded from a theme file.
type Scheme struct {
	Name string

	roles map[string]roleColors
	// overrides replace a role's base color for a single key,
	// addressed by theme id or bare id.
	overrides map[string]map[string]RGBA
}

// KeyRGBA resolves the color for one visual role of a key. The second
// return is false when the scheme has no entry for the role, letting
// the caller fall back to its own defaults.
//
// The most specific active state wins, in the fixed order locked,
// pressed, scanned, prelight, active, insensitive. States without an
// explicit color fall through to the next one, except pressed, which
// brightens the base color instead.
func (s *Scheme) KeyRGBA(k KeyState, role string) (RGBA, bool) {
	if s == nil {
		return RGBA{}, false
	}
	rc, ok := s.roles[role]
	if !ok {
		return RGBA{}, false
	}

	base := rc.base
	if c, ok := s.override(k.ThemeID, role); ok {
		base = c
	} else if c, ok := s.override(k.ID, role); ok {
		base = c
	}

	switch {
	case k.Locked && rc.locked != nil:
		return *rc.locked, true
	case k.Pressed:
		if rc.pressed != nil {
			return *rc.pressed, true
		}
		return base.Brighten(pressedBrighten), true
	case k.Scanned && rc.scanned != nil:
		return *rc.scanned, true
	case k.Prelight && rc.prelight != nil:
		return *rc.prelight, true
	case k.Active && rc.active != nil:
		return *rc.active, true
	case !k.Sensitive && rc.insensitive != nil:
		return *rc.insensitive, true
	}
	return base, true
}

func (s *Scheme) override(id, role string) (RGBA, bool) {
	if id == "" {
		return RGBA{}, false
	}
	c, ok := s.overrides[id][role]
	return c, ok
}

// schemeFile is the on-disk TOML shape of a theme.
type schemeFile struct {
	Name        string                       `toml:"name"`
	KeyStyle    string                       `toml:"key_style"`
	KeySize     float64                      `toml:"key_size"`
	LabelMargin []float64                    `toml:"label_margin"`
	DishBorder  []float64                    `toml:"dish_border"`
	DishYOffset *float64                     `toml:"dish_y_offset"`
	LabelAlign  []float64                    `toml:"label_align"`
	Colors      map[string]fileRole          `toml:"colors"`
	Keys        map[string]map[string]string `toml:"keys"`
}

type fileRole struct {
	Base        string `toml:"base"`
	Prelight    string `toml:"prelight"`
	Pressed     string `toml:"pressed"`
	Active      string `toml:"active"`
	Locked      string `toml:"locked"`
	Scanned     string `toml:"scanned"`
	Insensitive string `toml:"insensitive"`
}

// Load reads a theme file and returns its color scheme and the style
// constants it carries.
func Load(path string) (*Scheme, Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Style{}, fmt.Errorf("read theme: %w", err)
	}
	scheme, style, err := Parse(data)
	if err != nil {
		return nil, Style{}, fmt.Errorf("%s: %w", path, err)
	}
	return scheme, style, nil
}

// Parse decodes a TOML theme. Unset style fields keep their defaults;
// bad colors, styles and sizes fail fast.
func Parse(data []byte) (*Scheme, Style, error) {
	var f schemeFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, Style{}, fmt.Errorf("parse theme: %w", err)
	}

	style := DefaultStyle()
	if f.KeyStyle != "" {
		style.KeyStyle = KeyStyle(f.KeyStyle)
	}
	if f.KeySize != 0 {
		style.KeySize = f.KeySize
	}
	if len(f.LabelMargin) == 2 {
		style.LabelMargin = geom.Size{W: f.LabelMargin[0], H: f.LabelMargin[1]}
	}
	if len(f.DishBorder) == 2 {
		style.DishBorder = geom.Size{W: f.DishBorder[0], H: f.DishBorder[1]}
	}
	if f.DishYOffset != nil {
		style.DishYOffset = *f.DishYOffset
	}
	if len(f.LabelAlign) == 2 {
		style.LabelAlign = geom.Point{X: f.LabelAlign[0], Y: f.LabelAlign[1]}
	}
	if err := style.Validate(); err != nil {
		return nil, Style{}, fmt.Errorf("theme %q: %w", f.Name, err)
	}

	scheme := &Scheme{
		Name:      f.Name,
		roles:     make(map[string]roleColors, len(f.Colors)),
		overrides: make(map[string]map[string]RGBA, len(f.Keys)),
	}
	for role, fr := range f.Colors {
		rc := roleColors{}
		if fr.Base == "" {
			return nil, Style{}, fmt.Errorf("theme %q: colors.%s: missing base", f.Name, role)
		}
		base, err := Hex(fr.Base)
		if err != nil {
			return nil, Style{}, fmt.Errorf("theme %q: colors.%s.base: %w", f.Name, role, err)
		}
		rc.base = base

		variants := []struct {
			name  string
			value string
			dst   **RGBA
		}{
			{"prelight", fr.Prelight, &rc.prelight},
			{"pressed", fr.Pressed, &rc.pressed},
			{"active", fr.Active, &rc.active},
			{"locked", fr.Locked, &rc.locked},
			{"scanned", fr.Scanned, &rc.scanned},
			{"insensitive", fr.Insensitive, &rc.insensitive},
		}
		for _, v := range variants {
			if v.value == "" {
				continue
			}
			c, err := Hex(v.value)
			if err != nil {
				return nil, Style{}, fmt.Errorf("theme %q: colors.%s.%s: %w", f.Name, role, v.name, err)
			}
			*v.dst = &c
		}
		scheme.roles[role] = rc
	}

	for id, roles := range f.Keys {
		out := make(map[string]RGBA, len(roles))
		for role, value := range roles {
			c, err := Hex(value)
			if err != nil {
				return nil, Style{}, fmt.Errorf("theme %q: keys.%s.%s: %w", f.Name, id, role, err)
			}
			out[role] = c
		}
		scheme.overrides[id] = out
	}

	return scheme, style, nil
}

// DefaultScheme is the built-in fallback used when no theme file is
// available: light keys, dark labels, enough state variants to make
// interaction visible.
func DefaultScheme() *Scheme {
	return &Scheme{
		Name: "fallback",
		roles: map[string]roleColors{
			"fill": {
				base:        MustHex("#d6d6d6"),
				prelight:    hexPtr("#e6e6e6"),
				active:      hexPtr("#a8c0dc"),
				locked:      hexPtr("#dc9898"),
				scanned:     hexPtr("#a8dcb4"),
				insensitive: hexPtr("#c2c2c2"),
			},
			"stroke": {base: MustHex("#2e2e2e")},
			"label": {
				base:        MustHex("#1a1a1a"),
				insensitive: hexPtr("#8a8a8a"),
			},
			"dwell-progress": {base: MustHex("#d0a030")},
		},
	}
}

func hexPtr(s string) *RGBA {
	c := MustHex(s)
	return &c
}
