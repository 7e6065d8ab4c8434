// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress carries live lane state changes from the launcher to
// whoever is watching: the TUI, the log, or nobody.
package progress
