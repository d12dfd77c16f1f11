// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/board/colors.go
// Summary: Terminal default color query over OSC 10/11.

package board

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

// QueryDefaultColors asks the terminal for its default foreground and
// background. Terminals that never answer fall back to white on black.
func QueryDefaultColors() (tcell.Color, tcell.Color, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return tcell.ColorWhite, tcell.ColorBlack, fmt.Errorf("open /dev/tty: %w", err)
	}
	defer tty.Close()

	oldState, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		return tcell.ColorWhite, tcell.ColorBlack, fmt.Errorf("MakeRaw: %w", err)
	}
	defer term.Restore(int(tty.Fd()), oldState)

	query := func(code int) (tcell.Color, error) {
		seq := fmt.Sprintf("\x1b]%d;?\a", code)
		if _, err := tty.WriteString(seq); err != nil {
			return tcell.ColorDefault, err
		}
		resp := make([]byte, 0, 64)
		buf := make([]byte, 1)
		deadline := time.Now().Add(500 * time.Millisecond)
		if err := tty.SetReadDeadline(deadline); err != nil {
			return tcell.ColorDefault, err
		}
		for {
			n, err := tty.Read(buf)
			if err != nil {
				return tcell.ColorDefault, fmt.Errorf("read reply: %w", err)
			}
			resp = append(resp, buf[:n]...)
			if buf[0] == '\a' {
				break
			}
		}
		pattern := fmt.Sprintf(`\x1b\]%d;rgb:([0-9A-Fa-f]{4})/([0-9A-Fa-f]{4})/([0-9A-Fa-f]{4})`, code)
		re := regexp.MustCompile(pattern)
		m := re.FindStringSubmatch(string(resp))
		if len(m) != 4 {
			return tcell.ColorDefault, fmt.Errorf("unexpected reply: %q", resp)
		}
		// Replies carry 16-bit channels; tcell wants 8-bit.
		hex2int := func(s string) (int32, error) {
			v, err := strconv.ParseInt(s, 16, 32)
			return int32(v >> 8), err
		}
		r, _ := hex2int(m[1])
		g, _ := hex2int(m[2])
		b, _ := hex2int(m[3])
		return tcell.NewRGBColor(r, g, b), nil
	}

	fg, err := query(10)
	if err != nil {
		fg = tcell.ColorWhite
	}
	bg, err := query(11)
	if err != nil {
		bg = tcell.ColorBlack
	}
	return fg, bg, nil
}
