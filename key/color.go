// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: key/color.go
// Summary: Memoized per-key color resolution.

package key

import "github.com/framegrace/keytile/theme"

// ColorRole names a visual element of a key that takes its own color.
// The set is open; renderers may ask for roles a theme has never heard
// of and still get a usable color.
type ColorRole string

const (
	RoleFill          ColorRole = "fill"
	RoleStroke        ColorRole = "stroke"
	RoleLabel         ColorRole = "label"
	RoleDwellProgress ColorRole = "dwell-progress"
)

// colorKey memoizes one resolved color per interaction state and role.
type colorKey struct {
	role      ColorRole
	prelight  bool
	pressed   bool
	active    bool
	locked    bool
	sensitive bool
	scanned   bool
}

// ColorScheme resolves a key's color for one visual role. Returning
// false means the scheme has no answer and the built-in defaults
// apply. *theme.Scheme implements this.
type ColorScheme interface {
	KeyRGBA(state theme.KeyState, role string) (theme.RGBA, bool)
}

// Color returns the key's color for a role under its current
// interaction state. Results are memoized: the scheme is consulted at
// most once per distinct state/role combination until ClearColorCache.
// A nil scheme, or one with no answer, yields black for labels and
// white for everything else — a frame always gets a color.
func (k *Key) Color(role ColorRole, scheme ColorScheme) theme.RGBA {
	ck := colorKey{
		role:      role,
		prelight:  k.Prelight,
		pressed:   k.Pressed,
		active:    k.Active,
		locked:    k.Locked,
		sensitive: k.Sensitive,
		scanned:   k.Scanned,
	}
	if rgba, ok := k.colors[ck]; ok {
		return rgba
	}

	var rgba theme.RGBA
	ok := false
	if scheme != nil {
		rgba, ok = scheme.KeyRGBA(k.state(), string(role))
	}
	if !ok {
		if role == RoleLabel {
			rgba = theme.Black
		} else {
			rgba = theme.White
		}
	}
	if k.colors == nil {
		k.colors = make(map[colorKey]theme.RGBA)
	}
	k.colors[ck] = rgba
	return rgba
}

func (k *Key) state() theme.KeyState {
	return theme.KeyState{
		ThemeID:   k.ThemeID,
		ID:        k.ID,
		Prelight:  k.Prelight,
		Pressed:   k.Pressed,
		Active:    k.Active,
		Locked:    k.Locked,
		Sensitive: k.Sensitive,
		Scanned:   k.Scanned,
	}
}

// ClearColorCache drops every memoized color. The config side calls
// this when the active theme changes; the cache itself never checks
// staleness.
func (k *Key) ClearColorCache() {
	clear(k.colors)
}
