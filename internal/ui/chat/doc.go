// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main chat view for the raglec TUI.
//
// The view wires four concerns together:
//
//   - The exchange controller runs the ask-answer cycle: a submitted
//     query appears in the transcript immediately, the backend round trip
//     runs as a Bubble Tea command, and the answer lands through a paced
//     word-by-word reveal (skippable with Esc).
//   - The session repository owns the persisted conversations; every
//     transcript mutation is written through to the store. Ctrl+N starts
//     a conversation, Ctrl+O opens the switcher, Ctrl+L clears the
//     active one.
//   - The feedback reporter records per-answer votes (Alt+U / Alt+D) and
//     forwards them to the backend.
//   - Source fragments attached to an answer render collapsed by default
//     and toggle with Ctrl+S.
//
// Stale async results are fenced by generation numbers: every exchange
// increments the controller's generation, and query results or reveal
// ticks carrying an older generation are dropped.
package chat
