// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/board/styles.go
// Summary: Cached tcell.Style construction for board painting.

package board

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/keytile/theme"
)

type styleKey struct {
	fg, bg tcell.Color
	bold   bool
}

// getStyle centrally manages tcell.Style objects to avoid re-creation.
func (v *View) getStyle(fg, bg tcell.Color, bold bool) tcell.Style {
	key := styleKey{fg: fg, bg: bg, bold: bold}
	if st, ok := v.styles[key]; ok {
		return st
	}
	st := tcell.StyleDefault.Foreground(fg).Background(bg)
	if bold {
		st = st.Bold(true)
	}
	v.styles[key] = st
	return st
}

// toColor converts a theme color to the nearest tcell color.
func toColor(c theme.RGBA) tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int32 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return int32(v*255 + 0.5)
}
