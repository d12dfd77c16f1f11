// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: defaults/embedded.go
// Summary: Embedded default configuration, layouts, and themes.

package defaults

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed keytile.json
var configJSON []byte

//go:embed layouts/*.json themes/*.toml
var fs embed.FS

// Config returns the embedded default config JSON.
func Config() []byte {
	return configJSON
}

// Layout returns the embedded layout JSON for the named layout.
func Layout(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("layout name is required")
	}
	return fs.ReadFile(fmt.Sprintf("layouts/%s.json", name))
}

// Theme returns the embedded theme TOML for the named theme.
func Theme(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("theme name is required")
	}
	return fs.ReadFile(fmt.Sprintf("themes/%s.toml", name))
}

// Layouts lists the embedded layout names, sorted.
func Layouts() []string {
	return listNames("layouts", ".json")
}

// Themes lists the embedded theme names, sorted.
func Themes() []string {
	return listNames("themes", ".toml")
}

func listNames(dir, ext string) []string {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ext))
	}
	sort.Strings(names)
	return names
}
