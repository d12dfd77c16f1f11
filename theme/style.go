// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: theme/style.go
// Summary: Key style constants shared by every geometry computation.

package theme

import (
	"errors"
	"fmt"

	"github.com/framegrace/keytile/geom"
)

// KeyStyle selects how keys are sculpted on screen.
type KeyStyle string

const (
	KeyStyleFlat     KeyStyle = "flat"
	KeyStyleGradient KeyStyle = "gradient"
	KeyStyleDish     KeyStyle = "dish"
)

var (
	// ErrBadKeyStyle reports a key style outside the known set.
	ErrBadKeyStyle = errors.New("unknown key style")
	// ErrBadKeySize reports a key size outside (0, 100].
	ErrBadKeySize = errors.New("key size out of range")
)

// Style carries the geometry constants a board's keys are drawn with.
// A Style value is passed explicitly into every geometry call; nothing
// in the drawing path reads global configuration.
type Style struct {
	KeyStyle KeyStyle
	// KeySize is the percentage of the nominal rect a key fills,
	// in (0, 100].
	KeySize float64
	// LabelMargin is the border kept free around labels on flat and
	// gradient keys.
	LabelMargin geom.Size
	// DishBorder and DishYOffset shape the label area of dish keys.
	DishBorder  geom.Size
	DishYOffset float64
	// LabelAlign is the alignment fraction keys fall back to when a
	// layout does not position their label.
	LabelAlign geom.Point
}

// DefaultStyle returns the neutral style: flat keys at full size.
func DefaultStyle() Style {
	return Style{
		KeyStyle:    KeyStyleFlat,
		KeySize:     100,
		LabelMargin: geom.Size{W: 1, H: 1},
		DishBorder:  geom.Size{W: 2.5, H: 2.5},
		DishYOffset: 0.8,
		LabelAlign:  geom.Point{X: 0.5, Y: 0.5},
	}
}

// Validate checks the style's enum and numeric ranges.
func (s Style) Validate() error {
	switch s.KeyStyle {
	case KeyStyleFlat, KeyStyleGradient, KeyStyleDish:
	default:
		return fmt.Errorf("%w: %q", ErrBadKeyStyle, s.KeyStyle)
	}
	if s.KeySize <= 0 || s.KeySize > 100 {
		return fmt.Errorf("%w: %v", ErrBadKeySize, s.KeySize)
	}
	return nil
}
