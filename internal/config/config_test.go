// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("Backend.URL = %q, want localhost default", cfg.Backend.URL)
	}
	if cfg.Timeout() != 60*time.Second {
		t.Errorf("Timeout() = %v, want 60s", cfg.Timeout())
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Storage.Backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Sessions.Max != 50 {
		t.Errorf("Sessions.Max = %d, want 50", cfg.Sessions.Max)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("UI.Theme = %q, want auto", cfg.UI.Theme)
	}
	if !cfg.UI.Reveal {
		t.Error("UI.Reveal = false, want true")
	}
	if cfg.UI.SourcesExpanded {
		t.Error("UI.SourcesExpanded = true, want collapsed by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults error = %v", err)
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Backend.URL != Default().Backend.URL {
		t.Error("missing file did not fall back to defaults")
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[backend]
url = "https://rag.example.com"
timeout_seconds = 30

[ui]
theme = "light"
reveal = false
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	if cfg.Backend.URL != "https://rag.example.com" {
		t.Errorf("Backend.URL = %q, want the configured value", cfg.Backend.URL)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", cfg.Timeout())
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("UI.Theme = %q, want light", cfg.UI.Theme)
	}
	if cfg.UI.Reveal {
		t.Error("UI.Reveal = true, want configured false")
	}
	// Untouched sections keep their defaults.
	if cfg.Sessions.Max != 50 {
		t.Errorf("Sessions.Max = %d, want the default 50", cfg.Sessions.Max)
	}
}

func TestLoadFromPathInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[ui]
theme = "sepia"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("LoadFromPath() error = nil for invalid theme")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Backend.URL = "http://10.0.0.5:9000"
	cfg.Storage.Backend = "sqlite"

	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath() error = %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if loaded.Backend.URL != cfg.Backend.URL {
		t.Errorf("reloaded URL = %q, want %q", loaded.Backend.URL, cfg.Backend.URL)
	}
	if loaded.Storage.Backend != "sqlite" {
		t.Errorf("reloaded storage backend = %q, want sqlite", loaded.Storage.Backend)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad URL", func(c *Config) { c.Backend.URL = "not a url" }, "backend.url"},
		{"zero timeout", func(c *Config) { c.Backend.TimeoutSeconds = 0 }, "backend.timeout_seconds"},
		{"bad storage backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"zero max sessions", func(c *Config) { c.Sessions.Max = 0 }, "sessions.max"},
		{"bad theme", func(c *Config) { c.UI.Theme = "sepia" }, "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil, want validation failure")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.field)
			}
		})
	}
}
