// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feedback records per-answer helpfulness votes and forwards them
// to the backend, keeping an optimistic local selection for the UI.
package feedback
