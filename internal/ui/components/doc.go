// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the raglec TUI:
// system notices, the source fragment panel, feedback indicators and the
// welcome banner.
package components
