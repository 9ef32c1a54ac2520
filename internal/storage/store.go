// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// =============================================================================
// STORE KEYS
// =============================================================================

// Namespace is the stable prefix for every key this application writes, so
// multiple logical stores sharing one backing medium never collide.
const Namespace = "raglec-"

// Well-known keys. The session repository owns KeySessions and
// KeyActiveSession; the UI owns KeyTheme.
const (
	KeySessions      = Namespace + "sessions"
	KeyActiveSession = Namespace + "active-session"
	KeyTheme         = Namespace + "theme"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is the persistence boundary: durable reads and writes of opaque
// values by namespaced key. It is a pure serialization boundary with no
// business logic; callers decide what the bytes mean.
//
// The store is single-writer: callers serialize mutation-then-persist
// sequences, and the last Put for a key wins.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent;
	// absence is not an error.
	Get(key string) (value []byte, ok bool, err error)

	// Put durably writes value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error

	// Close releases any resources held by the store.
	Close() error
}

// =============================================================================
// ERRORS
// =============================================================================

// StoreError represents a storage-related error.
// It supports comparison with errors.Is.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = &StoreError{Message: "store is closed"}
