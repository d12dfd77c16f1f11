// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: theme/color.go
// Summary: RGBA color value, hex parsing and color math.

package theme

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrBadColor reports an unparseable color literal in a theme file.
var ErrBadColor = errors.New("bad color")

// RGBA is a color with channels in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Black and White are the hard fallback colors used when no theme
// answers for a role.
var (
	Black = RGBA{0, 0, 0, 1}
	White = RGBA{1, 1, 1, 1}
)

// Hex parses "#rgb", "#rrggbb" or "#rrggbbaa".
func Hex(s string) (RGBA, error) {
	raw, ok := strings.CutPrefix(s, "#")
	if !ok {
		return RGBA{}, fmt.Errorf("%w: %q has no leading #", ErrBadColor, s)
	}
	if len(raw) == 3 {
		var b strings.Builder
		for _, r := range raw {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		raw = b.String()
	}
	if len(raw) != 6 && len(raw) != 8 {
		return RGBA{}, fmt.Errorf("%w: %q has %d hex digits", ErrBadColor, s, len(raw))
	}
	var ch [4]float64
	ch[3] = 1
	for i := 0; i*2 < len(raw); i++ {
		v, err := strconv.ParseUint(raw[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		ch[i] = float64(v) / 255
	}
	return RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// MustHex is Hex for compile-time literals; it panics on bad input.
func MustHex(s string) RGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as "#rrggbb", or "#rrggbbaa" when translucent.
func (c RGBA) Hex() string {
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B), channel(c.A))
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func (c RGBA) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// Brighten raises the color's HSL lightness by amount; negative amounts
// darken. Lightness clamps to [0, 1], alpha is untouched.
func (c RGBA) Brighten(amount float64) RGBA {
	h, s, l := c.colorful().Hsl()
	l += amount
	if l < 0 {
		l = 0
	} else if l > 1 {
		l = 1
	}
	out := colorful.Hsl(h, s, l).Clamped()
	return RGBA{R: out.R, G: out.G, B: out.B, A: c.A}
}

// Blend mixes c toward other in Lab space; t=0 keeps c, t=1 gives
// other. Alpha interpolates linearly.
func (c RGBA) Blend(other RGBA, t float64) RGBA {
	out := c.colorful().BlendLab(other.colorful(), t).Clamped()
	return RGBA{R: out.R, G: out.G, B: out.B, A: c.A + (other.A-c.A)*t}
}
