// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the persisted set of conversations: creation,
// selection, titling, retention and write-through persistence, plus the
// transcript view the exchange flow works against.
package session
