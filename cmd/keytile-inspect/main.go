// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/keytile-inspect/main.go
// Summary: Command line tool that reports how a layout and theme resolve.

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-runewidth"

	"github.com/framegrace/keytile/defaults"
	"github.com/framegrace/keytile/geom"
	"github.com/framegrace/keytile/key"
	"github.com/framegrace/keytile/layout"
	"github.com/framegrace/keytile/theme"
)

const defaultChromaStyle = "catppuccin-mocha"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := flag.NewFlagSet("keytile-inspect", flag.ContinueOnError)
	layoutFlag := flags.String("layout", "compact", "layout name or path to a layout JSON file")
	themeFlag := flags.String("theme", "classic", "theme name or path to a theme TOML file")
	keyFlag := flags.String("key", "", "inspect a single key by id")
	maskFlag := flags.String("mask", "", "held modifiers for label resolution, e.g. SHIFT+ALTGR or 129")
	sourceFlag := flags.Bool("source", false, "print the resolved layout and theme sources, highlighted")
	styleFlag := flags.String("chroma-style", defaultChromaStyle, "chroma style for -source")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	mask, err := parseMask(*maskFlag)
	if err != nil {
		return err
	}

	themeData, themeName, err := resolveAsset(*themeFlag, ".toml", defaults.Theme)
	if err != nil {
		return fmt.Errorf("theme %q: %w", *themeFlag, err)
	}
	scheme, style, err := theme.Parse(themeData)
	if err != nil {
		return fmt.Errorf("theme %q: %w", *themeFlag, err)
	}

	layoutData, layoutName, err := resolveAsset(*layoutFlag, ".json", defaults.Layout)
	if err != nil {
		return fmt.Errorf("layout %q: %w", *layoutFlag, err)
	}
	board, err := layout.Parse(layoutData, style)
	if err != nil {
		return fmt.Errorf("layout %q: %w", *layoutFlag, err)
	}
	board.ConfigureLabels(mask)

	if *sourceFlag {
		fmt.Printf("── layout %s ──\n", layoutName)
		printHighlighted(string(layoutData), "json", *styleFlag)
		fmt.Printf("\n── theme %s ──\n", themeName)
		printHighlighted(string(themeData), "toml", *styleFlag)
		return nil
	}

	if *keyFlag != "" {
		k := findKey(board, *keyFlag)
		if k == nil {
			return fmt.Errorf("layout %q has no key %q", layoutName, *keyFlag)
		}
		printKey(k, scheme, style, mask)
		return nil
	}

	printBoard(board, scheme, style, mask)
	return nil
}

// resolveAsset loads name as a file when it looks like a path, and as an
// embedded asset otherwise.
func resolveAsset(name, ext string, embedded func(string) ([]byte, error)) ([]byte, string, error) {
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, ext) {
		data, err := os.ReadFile(name)
		return data, name, err
	}
	data, err := embedded(name)
	return data, name, err
}

// parseMask accepts a decimal mask or "+"-joined modifier names.
func parseMask(s string) (key.ModMask, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		return key.ModMask(n), nil
	}
	var mask key.ModMask
	for _, part := range strings.Split(s, "+") {
		m, ok := key.ModByName(strings.TrimSpace(part))
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
		mask |= m
	}
	return mask, nil
}

func findKey(b *layout.Board, id string) *key.Key {
	if k := b.Key(id); k != nil {
		return k
	}
	for _, k := range b.Keys {
		if k.ThemeID == id {
			return k
		}
	}
	return nil
}

func printBoard(b *layout.Board, scheme *theme.Scheme, style theme.Style, mask key.ModMask) {
	bounds := b.Bounds()
	fmt.Printf("Board %q: %d keys, %d layers, bounds %.1fx%.1f\n",
		b.Name, len(b.Keys), b.LayerCount(), bounds.W, bounds.H)
	fmt.Printf("Theme %q: %s keys at %.0f%% size, held %s\n\n",
		scheme.Name, style.KeyStyle, style.KeySize, mask)

	rows := make([][]string, 0, len(b.Keys)+1)
	rows = append(rows, []string{"ID", "LAYER", "TYPE", "CODE", "LABEL", "RECT"})
	for _, k := range b.Keys {
		layerCol := "*"
		if k.Layer >= 0 {
			layerCol = strconv.Itoa(k.Layer)
		}
		rows = append(rows, []string{
			k.ThemeID, layerCol, k.Type.String(), k.Code, k.Label,
			fmtRect(k.Rect(style)),
		})
	}
	printTable(rows)
}

func printKey(k *key.Key, scheme *theme.Scheme, style theme.Style, mask key.ModMask) {
	fmt.Printf("Key %q (%s)\n", k.ThemeID, k.ID)
	fmt.Printf("  type %s  code %q  action %s\n", k.Type, k.Code, k.Action)
	layerCol := "every layer"
	if k.Layer >= 0 {
		layerCol = fmt.Sprintf("layer %d", k.Layer)
	}
	fmt.Printf("  %s  scannable %v  priority %d\n", layerCol, k.Scannable, k.ScanPriority)
	if k.IsModifier() {
		fmt.Printf("  modifier %s  sticky %v (%s)\n", k.Modifier, k.Sticky, k.StickyBehavior)
	}

	fmt.Println("\n  label slots:")
	slots := make([]key.ModMask, 0, len(k.Labels))
	for m := range k.Labels {
		slots = append(slots, m)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	for _, m := range slots {
		fmt.Printf("    %3d (%s): %q\n", m, m, k.Labels[m])
	}
	if len(slots) == 0 {
		fmt.Println("    (none)")
	}

	fmt.Println("\n  resolved labels:")
	sweep := []key.ModMask{0, key.ModShift, key.ModCaps, key.ModNumLock,
		key.ModAltGr, key.ModShift | key.ModAltGr, mask}
	seen := make(map[key.ModMask]bool)
	for _, m := range sweep {
		if seen[m] {
			continue
		}
		seen[m] = true
		fmt.Printf("    %-14s %q\n", m.String(), key.ResolveLabel(k.Labels, m))
	}

	fmt.Printf("\n  geometry (%s keys at %.0f%% size):\n", style.KeyStyle, style.KeySize)
	fmt.Printf("    fullsize   %s\n", fmtRect(k.FullsizeRect()))
	fmt.Printf("    unpressed  %s\n", fmtRect(k.UnpressedRect(style)))
	wasPressed := k.Pressed
	k.Pressed = true
	fmt.Printf("    pressed    %s\n", fmtRect(k.Rect(style)))
	k.Pressed = wasPressed
	fmt.Printf("    label      %s\n", fmtRect(k.LabelRect(style)))
	fmt.Printf("    dwell      %s\n", fmtRect(k.DwellProgressRect(style)))

	fmt.Printf("\n  colors (theme %q):\n", scheme.Name)
	printColorTable(k, scheme)
}

// printColorTable resolves fill, stroke and label colors for every
// interaction state, restoring the key's real flags afterwards.
func printColorTable(k *key.Key, scheme *theme.Scheme) {
	saved := *k
	defer func() {
		k.Prelight = saved.Prelight
		k.Pressed = saved.Pressed
		k.Active = saved.Active
		k.Locked = saved.Locked
		k.Scanned = saved.Scanned
		k.Sensitive = saved.Sensitive
	}()

	states := []struct {
		name string
		set  func(*key.Key)
	}{
		{"plain", func(*key.Key) {}},
		{"prelight", func(k *key.Key) { k.Prelight = true }},
		{"pressed", func(k *key.Key) { k.Pressed = true }},
		{"active", func(k *key.Key) { k.Active = true }},
		{"locked", func(k *key.Key) { k.Locked = true }},
		{"scanned", func(k *key.Key) { k.Scanned = true }},
		{"insensitive", func(k *key.Key) { k.Sensitive = false }},
	}

	rows := [][]string{{"", "STATE", "FILL", "STROKE", "LABEL"}}
	for _, st := range states {
		k.Prelight, k.Pressed, k.Active = false, false, false
		k.Locked, k.Scanned, k.Sensitive = false, false, true
		st.set(k)
		rows = append(rows, []string{
			"  ", st.name,
			k.Color(key.RoleFill, scheme).Hex(),
			k.Color(key.RoleStroke, scheme).Hex(),
			k.Color(key.RoleLabel, scheme).Hex(),
		})
	}
	printTable(rows)
}

func fmtRect(r geom.Rect) string {
	return fmt.Sprintf("(%6.2f,%6.2f) %6.2f x %5.2f", r.X, r.Y, r.W, r.H)
}

// printTable pads columns by display width, so wide labels line up.
func printTable(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for _, row := range rows {
		var sb strings.Builder
		for i, cell := range row {
			sb.WriteString(runewidth.FillRight(cell, widths[i]+2))
		}
		fmt.Println(strings.TrimRight(sb.String(), " "))
	}
}

// printHighlighted writes text to stdout with chroma token colors as
// 24-bit ANSI sequences. Tokens in the style's base text color pass
// through unstyled.
func printHighlighted(text, lexerName, styleName string) {
	lexer := getLexer(lexerName, text)
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(styleName)

	tokens, err := chroma.Tokenise(lexer, nil, text)
	if err != nil {
		fmt.Print(text)
		return
	}

	baseColour := style.Get(chroma.Text).Colour
	for _, tok := range tokens {
		if tok.Type == chroma.EOFType {
			break
		}
		entry := style.Get(tok.Type)
		switch {
		case entry.Colour.IsSet() && entry.Colour != baseColour:
			fmt.Printf("\x1b[38;2;%d;%d;%dm%s\x1b[0m",
				entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue(), tok.Value)
		case entry.Bold == chroma.Yes:
			fmt.Printf("\x1b[1m%s\x1b[0m", tok.Value)
		default:
			fmt.Print(tok.Value)
		}
	}
}

// getLexer returns a chroma lexer by name, or auto-detects from content.
func getLexer(name, text string) chroma.Lexer {
	if name != "" {
		if l := lexers.Get(name); l != nil {
			return l
		}
	}
	if l := lexers.Analyse(text); l != nil {
		return l
	}
	return lexers.Fallback
}
