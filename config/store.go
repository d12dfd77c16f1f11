// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Load and save logic for the keytile configuration store.

package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/framegrace/keytile/defaults"
)

var (
	mu      sync.RWMutex
	once    sync.Once
	store   Config
	loadErr error

	embeddedOnce sync.Once
	embedded     Config
	embeddedErr  error
)

// Err returns the most recent config load error.
func Err() error {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return loadErr
}

// Current returns the keytile configuration (keytile.json).
func Current() Config {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return store
}

// Reload refreshes the config from disk.
func Reload() error {
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	loadErr = loadLocked()
	return loadErr
}

// Save persists the current config to disk.
func Save() error {
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	path, err := configPath()
	if err != nil {
		return err
	}
	return writeConfig(path, store)
}

// Replace swaps the in-memory config for the provided config.
func Replace(cfg Config) {
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	if cfg == nil {
		cfg = make(Config)
	}
	store = Clone(cfg)
}

func initStore() {
	mu.Lock()
	defer mu.Unlock()
	store = make(Config)
	loadErr = loadLocked()
}

func loadLocked() error {
	path, err := configPath()
	if err != nil {
		log.Printf("Config: Failed to resolve config path: %v", err)
		store = make(Config)
		applyDefaults(store)
		return err
	}

	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		log.Printf("Config: Failed to read config %s: %v", path, readErr)
		cfg = make(Config)
	}

	if !exists || len(cfg) == 0 {
		if def := defaultConfig(); def != nil {
			cfg = def
		} else {
			cfg = make(Config)
		}
		applyDefaults(cfg)
		if err := writeConfig(path, cfg); err != nil {
			log.Printf("Config: Failed to write default config: %v", err)
			if readErr == nil {
				readErr = err
			}
		}
	} else {
		applyDefaults(cfg)
	}

	store = cfg
	if readErr == nil && exists {
		log.Printf("Config: Loaded config from %s", path)
	}
	return readErr
}

// applyDefaults merges the embedded defaults into cfg without
// overwriting keys the user has set.
func applyDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	def, err := embeddedDefaults()
	if err != nil {
		log.Printf("Config: Failed to parse embedded defaults: %v", err)
		return
	}
	scalars := make(Section)
	for name, value := range def {
		switch v := value.(type) {
		case map[string]interface{}:
			cfg.RegisterDefaults(name, Section(v))
		case Section:
			cfg.RegisterDefaults(name, v)
		default:
			scalars[name] = v
		}
	}
	cfg.RegisterDefaults("", scalars)
}

// embeddedDefaults returns the parsed defaults from the embedded JSON.
// The result is cached after the first call.
func embeddedDefaults() (Config, error) {
	embeddedOnce.Do(func() {
		var cfg Config
		if err := json.Unmarshal(defaults.Config(), &cfg); err != nil {
			embeddedErr = err
			return
		}
		embedded = cfg
	})
	return embedded, embeddedErr
}

// defaultConfig returns a clone of the embedded defaults, used when
// writing the initial config to disk.
func defaultConfig() Config {
	cfg, err := embeddedDefaults()
	if err != nil || cfg == nil {
		return nil
	}
	return Clone(cfg)
}

func readConfig(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

func writeConfig(path string, cfg Config) error {
	if cfg == nil {
		cfg = make(Config)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
