// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrEmptyCommand is returned when an entry has no command after normalisation.
	ErrEmptyCommand = errors.New("command is empty")
	// ErrNotFound is returned when removing a command that is not in the working list.
	ErrNotFound = errors.New("command not found")
)

// Normalize cleans up a command as typed or pasted by the user.
// Surrounding whitespace is trimmed and, when the command starts or ends with
// a double quote (a pasted path such as "C:\Program Files\app.exe"), every
// double quote is removed.
func Normalize(raw string) string {
	c := strings.TrimSpace(raw)
	if strings.HasPrefix(c, `"`) || strings.HasSuffix(c, `"`) {
		c = strings.TrimSpace(strings.ReplaceAll(c, `"`, ""))
	}

	return c
}

// Add appends e to working after normalising its command. Duplicates are kept.
func Add(working []Entry, e Entry) ([]Entry, error) {
	e.Command = Normalize(e.Command)
	if e.Command == "" {
		return working, ErrEmptyCommand
	}

	return append(working, e), nil
}

// Remove deletes the first entry whose command equals command after normalisation.
func Remove(working []Entry, command string) ([]Entry, error) {
	command = Normalize(command)

	i := slices.IndexFunc(working, func(e Entry) bool { return e.Command == command })
	if i < 0 {
		return working, fmt.Errorf("%w: %q", ErrNotFound, command)
	}

	return slices.Delete(working, i, i+1), nil
}
