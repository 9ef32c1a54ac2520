// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal paces the word-by-word display of a completed answer.
// It owns tokenization and per-word timing; the UI schedules the actual
// ticks. The transcript always stores final text, so the reveal is purely
// presentational and safe to cut short.
package reveal
