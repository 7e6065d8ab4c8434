// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package store holds the persisted command list.
//
// Between saves the list is a plain, category-agnostic working list of
// entries. Build partitions a working list into the three lanes, each sorted
// case-insensitively; this happens on save and again before every run, so
// the lanes always reflect the filesystem at that moment.
package store

import (
	"slices"
	"strings"

	"github.com/matt-FFFFFF/undertasker/internal/classify"
	"github.com/spf13/afero"
)

// Entry is one item of the working list.
// Quiet only has an effect if the command lands in the terminal lane.
type Entry struct {
	Command string
	Quiet   bool
}

// TerminalEntry is a shell command in the terminal lane.
type TerminalEntry struct {
	Command string
	Quiet   bool // run without a visible console window
}

// Store is the partitioned command list. The lanes are disjoint.
type Store struct {
	File     []string        `json:"file" yaml:"file"`
	Windows  []string        `json:"windows" yaml:"windows"`
	Terminal []TerminalEntry `json:"terminal" yaml:"terminal"`
}

// New returns an empty store with non-nil lanes.
func New() *Store {
	return &Store{
		File:     []string{},
		Windows:  []string{},
		Terminal: []TerminalEntry{},
	}
}

// Build classifies every entry of working against fs and returns the sorted lanes.
// Ties under case-insensitive comparison keep their working-list order.
func Build(fs afero.Fs, working []Entry) *Store {
	s := New()

	for _, e := range working {
		switch classify.Classify(fs, e.Command) {
		case classify.File:
			s.File = append(s.File, e.Command)
		case classify.WindowsAction:
			s.Windows = append(s.Windows, e.Command)
		default:
			s.Terminal = append(s.Terminal, TerminalEntry(e))
		}
	}

	s.Sort()

	return s
}

// Sort orders every lane case-insensitively. Sorting a sorted store is a no-op.
func (s *Store) Sort() {
	slices.SortStableFunc(s.File, compareFold)
	slices.SortStableFunc(s.Windows, compareFold)
	slices.SortStableFunc(s.Terminal, func(a, b TerminalEntry) int {
		return compareFold(a.Command, b.Command)
	})
}

// Working flattens the lanes back into a working list: file, windows, terminal.
func (s *Store) Working() []Entry {
	out := make([]Entry, 0, s.Len())

	for _, c := range s.File {
		out = append(out, Entry{Command: c})
	}

	for _, c := range s.Windows {
		out = append(out, Entry{Command: c})
	}

	for _, t := range s.Terminal {
		out = append(out, Entry(t))
	}

	return out
}

// Len is the number of commands across all lanes.
func (s *Store) Len() int {
	return len(s.File) + len(s.Windows) + len(s.Terminal)
}

// IsEmpty reports whether there is nothing to run.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
