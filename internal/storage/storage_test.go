// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// openStores returns one of each backend rooted in a fresh temp dir.
func openStores(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStoreWithDir() error = %v", err)
	}

	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}

	stores := map[string]Store{
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			value := []byte(`{"theme":"dark"}`)
			if err := store.Put(KeyTheme, value); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, ok, err := store.Get(KeyTheme)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !ok {
				t.Fatal("Get() ok = false, want true")
			}
			if !bytes.Equal(got, value) {
				t.Errorf("Get() = %q, want %q", got, value)
			}
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			got, ok, err := store.Get("raglec-nonexistent")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if ok {
				t.Error("Get() ok = true for missing key, want false")
			}
			if got != nil {
				t.Errorf("Get() = %v for missing key, want nil", got)
			}
		})
	}
}

func TestStoreOverwrite(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put(KeyActiveSession, []byte("first")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if err := store.Put(KeyActiveSession, []byte("second")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, _, err := store.Get(KeyActiveSession)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != "second" {
				t.Errorf("Get() after overwrite = %q, want %q", got, "second")
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, store := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put(KeySessions, []byte("[]")); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if err := store.Delete(KeySessions); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}

			_, ok, err := store.Get(KeySessions)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if ok {
				t.Error("Get() ok = true after Delete, want false")
			}

			// Deleting an absent key is fine.
			if err := store.Delete(KeySessions); err != nil {
				t.Errorf("Delete() of absent key error = %v", err)
			}
		})
	}
}

func TestFileStoreClosed(t *testing.T) {
	store, err := NewFileStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStoreWithDir() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := store.Put(KeyTheme, []byte("x")); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Put() after Close error = %v, want ErrStoreClosed", err)
	}
	if _, _, err := store.Get(KeyTheme); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Get() after Close error = %v, want ErrStoreClosed", err)
	}
}

func TestFileStoreKeyFlattening(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStoreWithDir(dir)
	if err != nil {
		t.Fatalf("NewFileStoreWithDir() error = %v", err)
	}
	defer store.Close()

	// Keys with path separators must not escape the store directory.
	if err := store.Put("../escape", []byte("x")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, entry := range entries {
		if filepath.Dir(filepath.Join(dir, entry.Name())) != dir {
			t.Errorf("store wrote outside base dir: %s", entry.Name())
		}
	}

	got, ok, err := store.Get("../escape")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v, %v", got, ok, err)
	}
}

func TestStoreErrorIs(t *testing.T) {
	err := &StoreError{Message: "store is closed"}
	if !errors.Is(err, ErrStoreClosed) {
		t.Error("errors.Is() = false for matching store error, want true")
	}
	if errors.Is(err, &StoreError{Message: "disk full"}) {
		t.Error("errors.Is() = true for different store error, want false")
	}
}
