// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package classify decides which execution lane a stored command belongs to.
package classify

import (
	"strings"

	"github.com/spf13/afero"
)

// LaunchPrefix marks a command that opens a Windows action, e.g. "start ms-settings:display".
// The comparison is case-sensitive.
const LaunchPrefix = "start"

// Category is the execution lane of a command.
type Category int

const (
	// File is a path to something that exists on disk and is executed directly.
	File Category = iota
	// WindowsAction is a shell command beginning with LaunchPrefix.
	WindowsAction
	// Terminal is any other shell command.
	Terminal
)

// Categories lists every category in dispatch order.
var Categories = []Category{File, Terminal, WindowsAction}

// String returns the lane name used in logs and persisted files.
func (c Category) String() string {
	switch c {
	case File:
		return "file"
	case WindowsAction:
		return "windows"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Classify returns the category of command.
// Existence on fs wins over the prefix test. A stat error of any kind counts
// as "does not exist", so Classify never fails; the answer reflects the
// filesystem at the moment of the call.
func Classify(fs afero.Fs, command string) Category {
	// An empty name would resolve to the current directory on some filesystems.
	if command != "" {
		if exists, err := afero.Exists(fs, command); err == nil && exists {
			return File
		}
	}

	if strings.HasPrefix(command, LaunchPrefix) {
		return WindowsAction
	}

	return Terminal
}
