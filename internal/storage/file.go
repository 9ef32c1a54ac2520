// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/raglec-tui/internal/util"
)

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore keeps one file per key under a base directory, written
// atomically with fsync so a crash never leaves a partially written value.
// This is the default backend; it mirrors the one-value-per-key shape of
// the browser-local storage the data model came from.
type FileStore struct {
	// BaseDir is the directory holding the key files.
	// Default: ~/.raglec/store/
	BaseDir string

	closed bool
}

// NewFileStore creates a file store under the user's home directory.
func NewFileStore() (*FileStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewFileStoreWithDir(filepath.Join(homeDir, ".raglec", "store"))
}

// NewFileStoreWithDir creates a file store with a custom directory.
func NewFileStoreWithDir(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{BaseDir: baseDir}, nil
}

// Get returns the value for key, with ok=false for absent keys.
func (s *FileStore) Get(key string) ([]byte, bool, error) {
	if s.closed {
		return nil, false, ErrStoreClosed
	}

	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Put durably writes value under key.
func (s *FileStore) Put(key string, value []byte) error {
	if s.closed {
		return ErrStoreClosed
	}
	return util.AtomicWriteFile(s.filePath(key), value, 0644)
}

// Delete removes key; absent keys are a no-op.
func (s *FileStore) Delete(key string) error {
	if s.closed {
		return ErrStoreClosed
	}

	err := os.Remove(s.filePath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close marks the store closed. Subsequent operations fail with
// ErrStoreClosed.
func (s *FileStore) Close() error {
	s.closed = true
	return nil
}

// filePath maps a key to its backing file. Path separators in keys are
// flattened so a key can never escape the base directory.
func (s *FileStore) filePath(key string) string {
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	key = strings.ReplaceAll(key, "/", "_")
	return filepath.Join(s.BaseDir, key+".json")
}
