// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions, messages and
// retrieval sources.
//
// A Session is one persisted conversation thread. Its Messages slice is
// chronological and append-only; the only bulk mutation is full
// replacement when a stored session is loaded. Messages form a tagged
// union via Role: user messages carry only text, assistant messages carry
// text plus the retrieval Sources that justify the answer and the
// backend-issued answer identifier used for feedback.
//
// Everything in this package is plain data with no I/O; persistence lives
// in internal/storage and internal/session.
package model
