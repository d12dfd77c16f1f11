// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: key/mods.go
// Summary: Modifier bitmasks in X keyboard bit order.

package key

import "strings"

// ModMask is a bitmask of held modifier keys.
type ModMask uint16

const (
	ModShift ModMask = 1 << iota
	ModCaps
	ModCtrl
	ModAlt
	ModNumLock
	ModMod3
	ModSuper
	ModAltGr
)

// LabelModifiers are the modifiers that can change a key's label.
// Ctrl, Alt and Super never do.
const LabelModifiers = ModShift | ModCaps | ModNumLock | ModAltGr

// Has reports whether every bit of m is held.
func (mask ModMask) Has(m ModMask) bool {
	return mask&m == m
}

var modOrder = []struct {
	bit  ModMask
	name string
}{
	{ModShift, "SHIFT"},
	{ModCaps, "CAPS"},
	{ModCtrl, "CTRL"},
	{ModAlt, "ALT"},
	{ModNumLock, "NUMLOCK"},
	{ModMod3, "MOD3"},
	{ModSuper, "SUPER"},
	{ModAltGr, "ALTGR"},
}

var modNames = map[string]ModMask{
	"SHIFT":   ModShift,
	"CAPS":    ModCaps,
	"CTRL":    ModCtrl,
	"CONTROL": ModCtrl,
	"ALT":     ModAlt,
	"NUMLOCK": ModNumLock,
	"NMLK":    ModNumLock,
	"MOD3":    ModMod3,
	"SUPER":   ModSuper,
	"ALTGR":   ModAltGr,
}

// ModByName resolves a symbolic modifier name as used in layout files,
// e.g. "SHIFT" or "ALTGR". Matching is case-insensitive.
func ModByName(name string) (ModMask, bool) {
	m, ok := modNames[strings.ToUpper(name)]
	return m, ok
}

// String lists the held modifiers joined by "+", or "NONE".
func (mask ModMask) String() string {
	if mask == 0 {
		return "NONE"
	}
	var parts []string
	for _, e := range modOrder {
		if mask&e.bit != 0 {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "+")
}
