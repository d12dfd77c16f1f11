// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: key/behavior.go
// Summary: Key type, stroke action and sticky behavior enums.

package key

import (
	"errors"
	"fmt"
)

// Type says what kind of event a key emits when activated. The sending
// subsystem interprets Code according to this.
type Type int

const (
	TypeNone Type = iota
	TypeChar
	TypeKeysym
	TypeKeycode
	TypeMacro
	TypeScript
	TypeKeypressName
	TypeButton
	TypeLegacyModifier
	TypeSequence
)

// ErrUnknownType reports an unrecognized key type token in a layout.
var ErrUnknownType = errors.New("unknown key type")

var typeNames = map[string]Type{
	"char":            TypeChar,
	"keysym":          TypeKeysym,
	"keycode":         TypeKeycode,
	"macro":           TypeMacro,
	"script":          TypeScript,
	"keypress_name":   TypeKeypressName,
	"button":          TypeButton,
	"legacy_modifier": TypeLegacyModifier,
	"sequence":        TypeSequence,
}

// ParseType maps a layout token to a key type. The empty token is
// TypeNone: a key that emits nothing.
func ParseType(s string) (Type, error) {
	if s == "" {
		return TypeNone, nil
	}
	t, ok := typeNames[s]
	if !ok {
		return TypeNone, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

func (t Type) String() string {
	for name, v := range typeNames {
		if v == t {
			return name
		}
	}
	return "none"
}

// Action selects how a key's press and release turn into strokes.
type Action int

const (
	// ActionSingleStroke presses on button down and releases on up.
	ActionSingleStroke Action = iota
	// ActionDelayedStroke presses and releases together on button up,
	// for keys that open menus.
	ActionDelayedStroke
	// ActionDoubleStroke presses and releases on both button down and
	// up, for toggles like CAPS and NMLK.
	ActionDoubleStroke
	// ActionFixedDoubleStroke presses and releases on button down
	// only, for cases where the release event never arrives.
	ActionFixedDoubleStroke
)

// ErrUnknownAction reports an unrecognized action token in a layout.
var ErrUnknownAction = errors.New("unknown key action")

var actionNames = map[string]Action{
	"single-stroke":       ActionSingleStroke,
	"delayed-stroke":      ActionDelayedStroke,
	"double-stroke":       ActionDoubleStroke,
	"fixed-double-stroke": ActionFixedDoubleStroke,
}

// ParseAction maps a layout token to an action. The empty token is the
// single-stroke default.
func ParseAction(s string) (Action, error) {
	if s == "" {
		return ActionSingleStroke, nil
	}
	a, ok := actionNames[s]
	if !ok {
		return ActionSingleStroke, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

func (a Action) String() string {
	for name, v := range actionNames {
		if v == a {
			return name
		}
	}
	return "single-stroke"
}

// StickyBehavior says how a sticky key advances between latched and
// locked when tapped.
type StickyBehavior int

const (
	// StickyCycle latches on the first press, locks on the second and
	// releases on the third.
	StickyCycle StickyBehavior = iota
	// StickyDoubleClick latches on a single press and locks on a
	// double click.
	StickyDoubleClick
	// StickyLatchOnly only ever latches; a second press releases.
	StickyLatchOnly
	// StickyLockOnly only ever locks; a second press releases.
	StickyLockOnly
)

// ErrUnknownStickyBehavior reports an unrecognized sticky behavior
// token. There is no silent default; layouts must use a known token.
var ErrUnknownStickyBehavior = errors.New("unknown sticky behavior")

var stickyBehaviorNames = map[string]StickyBehavior{
	"cycle":    StickyCycle,
	"dblclick": StickyDoubleClick,
	"latch":    StickyLatchOnly,
	"lock":     StickyLockOnly,
}

// ParseStickyBehavior maps a layout token to a sticky behavior.
func ParseStickyBehavior(s string) (StickyBehavior, error) {
	b, ok := stickyBehaviorNames[s]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStickyBehavior, s)
	}
	return b, nil
}

func (b StickyBehavior) String() string {
	for name, v := range stickyBehaviorNames {
		if v == b {
			return name
		}
	}
	return "cycle"
}

// LOD is the level of detail a key is drawn with. Renderers drop down
// when keys get too small to carry full decoration.
type LOD int

const (
	// LODMinimal is clearly visible reduced detail, fastest.
	LODMinimal LOD = iota
	// LODReduced is slightly reduced detail.
	LODReduced
	// LODFull is full detail.
	LODFull
)
