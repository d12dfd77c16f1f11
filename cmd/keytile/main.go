// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/keytile/main.go
// Summary: Terminal on-screen keyboard preview.
// Usage: Run `keytile` to render the configured layout and theme.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/framegrace/keytile/config"
	"github.com/framegrace/keytile/defaults"
	"github.com/framegrace/keytile/layout"
	"github.com/framegrace/keytile/theme"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("keytile", flag.ContinueOnError)

	layoutFlag := fs.String("layout", "", "Layout name or .json path (default: configured layout)")
	themeFlag := fs.String("theme", "", "Theme name or .toml path (default: configured theme)")
	listAssets := fs.Bool("list", false, "List embedded layouts and themes and exit")
	logFlag := fs.String("log", "", "Log file path (default: <config>/keytile/logs/keytile.log)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if *listAssets {
		return listEmbedded()
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := setupLogging(*logFlag)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer logFile.Close()

	cfg := config.Current()
	if err := config.Err(); err != nil {
		log.Printf("Config: continuing on defaults: %v", err)
	}

	themeName := *themeFlag
	if themeName == "" {
		themeName = cfg.GetString("", "activeTheme", "classic")
	}
	layoutName := *layoutFlag
	if layoutName == "" {
		layoutName = cfg.GetString("", "activeLayout", "compact")
	}

	scheme, style, themeName, err := loadTheme(themeName)
	if err != nil {
		return err
	}
	b, err := loadBoard(layoutName, style)
	if err != nil {
		return err
	}
	log.Printf("Board: %q with %d keys on %d layers, theme %q",
		b.Name, len(b.Keys), b.LayerCount(), themeName)

	a, err := newApp(b, scheme, style, themeName, cfg)
	if err != nil {
		return err
	}
	return a.run()
}

func listEmbedded() error {
	fmt.Println("Layouts:")
	for _, name := range defaults.Layouts() {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println("Themes:")
	for _, name := range defaults.Themes() {
		fmt.Printf("  %s\n", name)
	}
	if path, err := config.Path(); err == nil {
		fmt.Printf("Config: %s\n", path)
	}
	return nil
}

// loadTheme resolves a theme by embedded name or file path. It returns
// the name actually in effect so theme cycling starts from it.
func loadTheme(name string) (*theme.Scheme, theme.Style, string, error) {
	if isPath(name, ".toml") {
		scheme, style, err := theme.Load(name)
		if err != nil {
			return nil, theme.Style{}, "", err
		}
		return scheme, style, scheme.Name, nil
	}
	data, err := defaults.Theme(name)
	if err != nil {
		log.Printf("Theme: %q not embedded, using fallback: %v", name, err)
		return theme.DefaultScheme(), theme.DefaultStyle(), "fallback", nil
	}
	scheme, style, err := theme.Parse(data)
	if err != nil {
		return nil, theme.Style{}, "", fmt.Errorf("theme %q: %w", name, err)
	}
	return scheme, style, name, nil
}

func loadBoard(name string, style theme.Style) (*layout.Board, error) {
	if isPath(name, ".json") {
		return layout.Load(name, style)
	}
	data, err := defaults.Layout(name)
	if err != nil {
		return nil, fmt.Errorf("layout %q not embedded (try -list): %w", name, err)
	}
	b, err := layout.Parse(data, style)
	if err != nil {
		return nil, fmt.Errorf("layout %q: %w", name, err)
	}
	return b, nil
}

func isPath(name, ext string) bool {
	return strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, ext)
}

func setupLogging(path string) (*os.File, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		logDir := filepath.Join(configDir, "keytile", "logs")
		if err := os.MkdirAll(logDir, 0o750); err != nil {
			return nil, err
		}
		path = filepath.Join(logDir, "keytile.log")
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, err
	}
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return file, nil
}
