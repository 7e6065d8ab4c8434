// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package liveness waits for a named process to disappear from the process table.
//
// Opening a second Windows Settings page while the first instance is still
// closing fails silently, so the launcher waits here between such commands.
// The process table is queried through a system tool that reports "not
// found" on its error stream: an empty error stream means the process is
// still running. StderrTable keeps that convention on every platform.
package liveness
