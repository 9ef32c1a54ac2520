// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the raglec TUI.
//
// It contains:
//   - Atomic file writes with fsync (AtomicWriteFile), used by the
//     file-backed store so persisted sessions survive crashes intact.
//   - Display-width-aware string helpers (TruncateDisplay, PadDisplay)
//     built on go-runewidth, used for session titles and previews.
//
// Functions here must stay free of dependencies on other internal
// packages so they can be used anywhere without cycles.
package util
