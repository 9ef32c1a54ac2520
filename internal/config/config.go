// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// raglec TUI.
//
// Configuration file locations (in order of precedence):
//   - ~/.raglec/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete raglec TUI configuration.
type Config struct {
	// Backend configuration
	Backend BackendConfig `toml:"backend"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`

	// Sessions configuration
	Sessions SessionsConfig `toml:"sessions"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// BackendConfig contains backend connection settings.
type BackendConfig struct {
	// URL is the base URL of the RAG query service.
	URL string `toml:"url"`
	// TimeoutSeconds bounds a full query round trip.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// StorageConfig contains persistence settings.
type StorageConfig struct {
	// Backend selects the store implementation: "file" or "sqlite".
	Backend string `toml:"backend"`
	// Dir is the file store directory. Empty uses ~/.raglec/store.
	Dir string `toml:"dir"`
	// DatabasePath is the sqlite store path. Empty uses ~/.raglec/store.db.
	DatabasePath string `toml:"database_path"`
}

// SessionsConfig contains session retention settings.
type SessionsConfig struct {
	// Max caps how many sessions are retained, oldest evicted first.
	Max int `toml:"max"`
}

// UIConfig contains display settings.
type UIConfig struct {
	// Theme is "dark", "light" or "auto" (detect from the terminal).
	Theme string `toml:"theme"`
	// Reveal enables word-by-word answer display.
	Reveal bool `toml:"reveal"`
	// SourcesExpanded shows source fragments expanded by default.
	SourcesExpanded bool `toml:"sources_expanded"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:            "http://localhost:8000",
			TimeoutSeconds: 60,
		},
		Storage: StorageConfig{
			Backend: "file",
		},
		Sessions: SessionsConfig{
			Max: 50,
		},
		UI: UIConfig{
			Theme:           "auto",
			Reveal:          true,
			SourcesExpanded: false,
		},
	}
}

// Timeout returns the backend timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the raglec configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".raglec"), nil
}

// ConfigPath returns the TOML configuration file path.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// StoreDir returns the file store directory, honoring the configured
// override.
func (c *Config) StoreDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "store"), nil
}

// StoreDatabasePath returns the sqlite store path, honoring the configured
// override.
func (c *Config) StoreDatabasePath() (string, error) {
	if c.Storage.DatabasePath != "" {
		return c.Storage.DatabasePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "store.db"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, falling back to defaults when none
// exists. A present but invalid file is an error; silently ignoring a
// broken config hides the user's intent.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from a specific file, falling back
// to defaults when the file does not exist.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to a specific TOML file.
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# raglec configuration file")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Backend.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("invalid URL '%s'", c.Backend.URL),
		})
	}
	if c.Backend.TimeoutSeconds < 1 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_seconds",
			Message: "must be at least 1",
		})
	}

	validBackends := map[string]bool{"file": true, "sqlite": true}
	if !validBackends[strings.ToLower(c.Storage.Backend)] {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite", c.Storage.Backend),
		})
	}

	if c.Sessions.Max < 1 {
		errs = append(errs, ValidationError{
			Field:   "sessions.max",
			Message: "must be at least 1",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
