// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage defines the key-value Store interface used for session
// persistence, with a file-per-key backend (FileStore) and a single-file
// SQLite backend (SQLiteStore). All store access happens on the UI thread;
// implementations are not required to be safe for concurrent use.
package storage
