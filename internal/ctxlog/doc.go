// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a structured slog logger in a context.Context.
//
// The level is shared by every logger created here and is read once from the
// <EXECUTABLE>_LOG_LEVEL environment variable, e.g. UNDERTASKER_LOG_LEVEL=DEBUG.
// The default handler prints one human-readable line per record.
package ctxlog
