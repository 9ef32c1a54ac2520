// raglec TUI - A terminal interface for a retrieval-augmented chat backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/raglec-tui/internal/backend"
	"github.com/jeranaias/raglec-tui/internal/config"
	"github.com/jeranaias/raglec-tui/internal/session"
	"github.com/jeranaias/raglec-tui/internal/storage"
	"github.com/jeranaias/raglec-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		backendURL  = flag.String("backend", "", "backend URL (overrides config)")
		configPath  = flag.String("config", "", "config file path")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("raglec %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *backendURL != "" {
		cfg.Backend.URL = strings.TrimSpace(*backendURL)
	}

	// Route the standard logger to a file; stderr writes would tear
	// the alternate screen.
	if f := openLogFile(); f != nil {
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	repo := session.NewRepository(store)
	repo.SetMaxSessions(cfg.Sessions.Max)
	if err := repo.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load sessions: %v\n", err)
		os.Exit(1)
	}

	client := backend.NewClient(cfg.Backend.URL)
	client.SetTimeout(cfg.Timeout())

	m := chat.New(cfg, repo, client)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Enable mouse support
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running raglec: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration from the given path, or from the
// default location when the path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// openLogFile opens the log file next to the config. Returns nil when the
// directory cannot be created; logging is then discarded.
func openLogFile() *os.File {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "raglec.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	return f
}

// openStore builds the configured store backend.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case "sqlite":
		path, err := cfg.StoreDatabasePath()
		if err != nil {
			return nil, err
		}
		return storage.NewSQLiteStore(path)
	default:
		dir, err := cfg.StoreDir()
		if err != nil {
			return nil, err
		}
		return storage.NewFileStoreWithDir(dir)
	}
}
