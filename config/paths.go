// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for the keytile configuration.

package config

import (
	"os"
	"path/filepath"
)

const configName = "keytile.json"

// Path returns the location of the keytile config file.
func Path() (string, error) {
	return configPath()
}

func configRoot() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "keytile"), nil
}

func configPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, configName), nil
}
