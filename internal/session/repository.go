// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jeranaias/raglec-tui/internal/model"
	"github.com/jeranaias/raglec-tui/internal/storage"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// DefaultMaxSessions caps how many sessions the repository retains before
// evicting the oldest.
const DefaultMaxSessions = 50

// =============================================================================
// ERRORS
// =============================================================================

// RepositoryError represents a session repository error.
// It supports comparison with errors.Is.
type RepositoryError struct {
	Message string
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing repository errors.
func (e *RepositoryError) Is(target error) bool {
	t, ok := target.(*RepositoryError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// ErrSessionNotFound is returned when a session ID does not resolve.
var ErrSessionNotFound = &RepositoryError{Message: "session not found"}

// =============================================================================
// REPOSITORY
// =============================================================================

// Repository owns the set of persisted sessions and the identity of the
// active one. Every mutation is written through to the store immediately,
// so the durable state never lags the in-memory state by more than the
// call in flight.
//
// Sessions are held in insertion order: index 0 is the oldest. Capacity
// eviction removes from the front, skipping the active session.
type Repository struct {
	store       storage.Store
	sessions    []*model.Session
	activeID    string
	maxSessions int
}

// NewRepository creates a repository over the given store.
func NewRepository(store storage.Store) *Repository {
	return &Repository{
		store:       store,
		sessions:    make([]*model.Session, 0),
		maxSessions: DefaultMaxSessions,
	}
}

// SetMaxSessions overrides the retention cap. Values below 1 keep the
// default.
func (r *Repository) SetMaxSessions(n int) {
	if n >= 1 {
		r.maxSessions = n
	}
}

// Initialize loads persisted sessions and the active-session pointer.
// Corrupt or unreadable stored data is treated as absent: the repository
// starts empty with a fresh session rather than failing startup. Loss of
// history is recoverable; refusing to start is not.
func (r *Repository) Initialize() error {
	r.sessions = r.loadSessions()

	if data, ok, err := r.store.Get(storage.KeyActiveSession); err == nil && ok {
		id := strings.TrimSpace(string(data))
		if r.findSession(id) != nil {
			r.activeID = id
		}
	}

	// Always come up with a usable active session.
	if r.activeID == "" {
		if len(r.sessions) > 0 {
			r.activeID = r.sessions[len(r.sessions)-1].ID
		} else {
			if _, err := r.CreateSession(); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadSessions decodes the stored session list, dropping it entirely if
// the payload does not parse.
func (r *Repository) loadSessions() []*model.Session {
	data, ok, err := r.store.Get(storage.KeySessions)
	if err != nil || !ok {
		return make([]*model.Session, 0)
	}

	var sessions []*model.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Printf("STORE_CORRUPT | key=%s error=%v starting_empty", storage.KeySessions, err)
		return make([]*model.Session, 0)
	}

	// Drop entries that lost their identity; everything else is kept
	// as-is, including sessions with zero messages.
	valid := make([]*model.Session, 0, len(sessions))
	for _, s := range sessions {
		if s != nil && s.ID != "" {
			valid = append(valid, s)
		}
	}
	return valid
}

// Active returns the active session. It is never nil after Initialize.
func (r *Repository) Active() *model.Session {
	return r.findSession(r.activeID)
}

// ActiveID returns the active session's ID.
func (r *Repository) ActiveID() string {
	return r.activeID
}

// Sessions returns all sessions in insertion order, oldest first.
func (r *Repository) Sessions() []*model.Session {
	return r.sessions
}

// Count returns the number of retained sessions.
func (r *Repository) Count() int {
	return len(r.sessions)
}

// CreateSession appends a fresh empty session, makes it active, enforces
// the retention cap and persists.
func (r *Repository) CreateSession() (*model.Session, error) {
	s := model.NewSession()
	r.sessions = append(r.sessions, s)
	r.activeID = s.ID
	r.trimToCapacity()
	if err := r.Persist(); err != nil {
		return nil, err
	}
	return s, nil
}

// SelectSession makes the session with the given ID active.
func (r *Repository) SelectSession(id string) (*model.Session, error) {
	s := r.findSession(id)
	if s == nil {
		return nil, ErrSessionNotFound
	}
	r.activeID = s.ID
	if err := r.persistActiveID(); err != nil {
		return nil, err
	}
	return s, nil
}

// DeleteSession removes the session with the given ID. Deleting the active
// session activates the most recent remaining one, creating a fresh
// session if none remain.
func (r *Repository) DeleteSession(id string) error {
	idx := -1
	for i, s := range r.sessions {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrSessionNotFound
	}

	r.sessions = append(r.sessions[:idx], r.sessions[idx+1:]...)

	if r.activeID == id {
		if len(r.sessions) > 0 {
			r.activeID = r.sessions[len(r.sessions)-1].ID
		} else {
			_, err := r.CreateSession()
			return err
		}
	}
	return r.Persist()
}

// RenameActive sets the active session's title and persists.
func (r *Repository) RenameActive(title string) error {
	s := r.Active()
	if s == nil {
		return ErrSessionNotFound
	}
	s.SetTitle(title)
	return r.Persist()
}

// TitleActiveFromQuery derives a title from the first query of a
// still-untitled active session. Later queries never retitle.
func (r *Repository) TitleActiveFromQuery(query string) {
	s := r.Active()
	if s == nil || !s.HasDefaultTitle() {
		return
	}
	s.SetTitle(model.TitleFromQuery(query))
}

// ClearActive removes all messages from the active session and resets its
// title, keeping the session's identity.
func (r *Repository) ClearActive() error {
	s := r.Active()
	if s == nil {
		return ErrSessionNotFound
	}
	s.Clear()
	return r.Persist()
}

// Persist writes the full session list and the active-session pointer to
// the store.
func (r *Repository) Persist() error {
	data, err := json.Marshal(r.sessions)
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}
	if err := r.store.Put(storage.KeySessions, data); err != nil {
		return fmt.Errorf("failed to persist sessions: %w", err)
	}
	return r.persistActiveID()
}

func (r *Repository) persistActiveID() error {
	if err := r.store.Put(storage.KeyActiveSession, []byte(r.activeID)); err != nil {
		return fmt.Errorf("failed to persist active session: %w", err)
	}
	return nil
}

// Theme returns the persisted theme name, or empty when none is stored.
func (r *Repository) Theme() string {
	data, ok, err := r.store.Get(storage.KeyTheme)
	if err != nil || !ok {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetTheme persists the theme name.
func (r *Repository) SetTheme(name string) error {
	return r.store.Put(storage.KeyTheme, []byte(name))
}

// trimToCapacity evicts oldest-first until the session count fits the cap,
// never evicting the active session.
func (r *Repository) trimToCapacity() {
	for len(r.sessions) > r.maxSessions {
		evicted := false
		for i, s := range r.sessions {
			if s.ID != r.activeID {
				r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
				evicted = true
				break
			}
		}
		if !evicted {
			return
		}
	}
}

func (r *Repository) findSession(id string) *model.Session {
	if id == "" {
		return nil
	}
	for _, s := range r.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders the active session as a Markdown transcript.
func (r *Repository) ExportMarkdown() (string, error) {
	s := r.Active()
	if s == nil {
		return "", ErrSessionNotFound
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.DisplayTitle())
	fmt.Fprintf(&b, "*Exported %s*\n\n", time.Now().Format("2006-01-02 15:04"))

	for _, msg := range s.Messages {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", msg.Role.DisplayName(), msg.Content)
		for i, src := range msg.Sources {
			fmt.Fprintf(&b, "> %s\n", src.Title(i+1))
		}
		if len(msg.Sources) > 0 {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}
