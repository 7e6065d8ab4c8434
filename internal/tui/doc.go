// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tui shows a run as it happens: one row per lane entry, updated from
// launcher progress events, with a spinner on the entry being waited for.
package tui
