// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package launcher dispatches the lanes of a store to the operating system.
//
// File and terminal entries are started and left alone. Windows actions are
// serialized: before the next one starts, the launcher waits for the shell
// that ran the previous one and then for the settings process to go away.
// The last windows action is never waited for.
package launcher
