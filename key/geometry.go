// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: key/geometry.go
// Summary: Key outline geometry: pressed nudge, size shrink, label rect.

package key

import (
	"fmt"

	"github.com/framegrace/keytile/geom"
	"github.com/framegrace/keytile/theme"
)

// Shape tags a key's geometry variant.
type Shape int

const (
	// ShapeRectangle is the plain rectangular key.
	ShapeRectangle Shape = iota
)

// Outline computes a shape's drawable geometry. New shapes add a
// variant here, not a type hierarchy.
type Outline interface {
	// Rect turns the nominal rect into the key's paint rect.
	Rect(nominal geom.Rect, pressed bool, style theme.Style) geom.Rect
	// LabelRect derives the label area inside a paint rect.
	LabelRect(rect geom.Rect, style theme.Style) geom.Rect
}

// Outline returns the geometry implementation for the tag.
func (s Shape) Outline() Outline {
	switch s {
	case ShapeRectangle:
		return rectOutline{}
	}
	panic(fmt.Sprintf("key: no outline for shape %d", s))
}

// Pressed keys nudge towards the lower right to fake physical travel,
// twice as far down as right. Only the origin moves; the key keeps its
// size so its neighbours stay put.
const (
	gradientPressNudge = 0.2
	dishPressNudge     = 0.45
)

// rectOutline is the geometry of plain rectangular keys.
type rectOutline struct{}

func (rectOutline) Rect(nominal geom.Rect, pressed bool, style theme.Style) geom.Rect {
	rect := nominal
	if pressed {
		switch style.KeyStyle {
		case theme.KeyStyleGradient:
			rect = rect.Offset(gradientPressNudge, 2*gradientPressNudge)
		case theme.KeyStyleDish:
			rect = rect.Offset(dishPressNudge, 2*dishPressNudge)
		}
	}
	return applyKeySize(rect, style.KeySize)
}

func (rectOutline) LabelRect(rect geom.Rect, style theme.Style) geom.Rect {
	if style.KeyStyle == theme.KeyStyleDish {
		return rect.Deflate(style.DishBorder.W, style.DishBorder.H).Offset(0, -style.DishYOffset)
	}
	return rect.Deflate(style.LabelMargin.W, style.LabelMargin.H)
}

// applyKeySize shrinks a key toward its center to the style's key size
// percentage. Elongated keys reuse the border of their short axis on
// the long one — tall keys (number block +, enter) take the width's
// border, wide keys (space, shift) the height's — so borders stay even
// instead of scaling with length.
func applyKeySize(rect geom.Rect, keySize float64) geom.Rect {
	size := keySize / 100
	bx := rect.W * (1 - size) / 2
	by := rect.H * (1 - size) / 2
	if rect.H > rect.W {
		by = bx
	}
	if rect.H < rect.W {
		bx = by
	}
	return rect.Deflate(bx, by)
}

// FullsizeRect returns the nominal bounding box at 100% size.
func (k *Key) FullsizeRect() geom.Rect {
	return k.nominal
}

// Rect returns the key's paint box under the given style: the pressed
// nudge if pressed, then the key-size shrink.
func (k *Key) Rect(style theme.Style) geom.Rect {
	return k.Shape.Outline().Rect(k.nominal, k.Pressed, style)
}

// UnpressedRect returns the paint box without the pressed nudge, for
// drawing the static parts of a key.
func (k *Key) UnpressedRect(style theme.Style) geom.Rect {
	return k.Shape.Outline().Rect(k.nominal, false, style)
}

// LabelRect returns the area label layout may use inside the current
// paint box.
func (k *Key) LabelRect(style theme.Style) geom.Rect {
	return k.LabelRectIn(k.Rect(style), style)
}

// LabelRectIn derives the label area of an already computed paint box.
func (k *Key) LabelRectIn(rect geom.Rect, style theme.Style) geom.Rect {
	return k.Shape.Outline().LabelRect(rect, style)
}

// DwellProgressRect returns the box the dwell indicator is drawn in.
func (k *Key) DwellProgressRect(style theme.Style) geom.Rect {
	return k.LabelRect(style).Inflate(0.5, 0.5)
}
