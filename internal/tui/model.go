// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/undertasker/internal/classify"
	"github.com/matt-FFFFFF/undertasker/internal/launcher"
	"github.com/matt-FFFFFF/undertasker/internal/progress"
	"github.com/matt-FFFFFF/undertasker/internal/store"
)

// ProgressEventMsg wraps a progress event for the tea framework.
type ProgressEventMsg struct {
	Event progress.Event
}

// RunCompletedMsg carries the results once the launcher is done.
type RunCompletedMsg struct {
	Results launcher.Results
}

type rowKey struct {
	lane  classify.Category
	index int
}

// Row is one lane entry on screen.
type Row struct {
	Lane    classify.Category
	Index   int
	Command string
	Quiet   bool
	State   progress.State
	Err     string
	Since   time.Time // time of the last state change
}

// Model is the bubbletea model for a run.
type Model struct {
	rows      []*Row
	byKey     map[rowKey]*Row
	spinner   spinner.Model
	styles    *Styles
	width     int
	completed bool
	quitting  bool
	results   launcher.Results
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title   lipgloss.Style
	Lane    lipgloss.Style
	Pending lipgloss.Style
	Active  lipgloss.Style
	Success lipgloss.Style
	Failed  lipgloss.Style
	Skipped lipgloss.Style
	Detail  lipgloss.Style
	Help    lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1),
		Lane: lipgloss.NewStyle().
			Bold(true),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Active: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Skipped: lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")),
		Detail: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
	}
}

// NewModel creates a model with one idle row per entry of s, in dispatch order.
func NewModel(s *store.Store) *Model {
	m := &Model{
		byKey:   make(map[rowKey]*Row),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:  NewStyles(),
	}

	for _, lane := range classify.Categories {
		switch lane {
		case classify.File:
			for i, c := range s.File {
				m.addRow(&Row{Lane: lane, Index: i, Command: c})
			}
		case classify.Terminal:
			for i, t := range s.Terminal {
				m.addRow(&Row{Lane: lane, Index: i, Command: t.Command, Quiet: t.Quiet})
			}
		case classify.WindowsAction:
			for i, c := range s.Windows {
				m.addRow(&Row{Lane: lane, Index: i, Command: c})
			}
		}
	}

	return m
}

func (m *Model) addRow(r *Row) {
	r.State = progress.Idle
	m.rows = append(m.rows, r)
	m.byKey[rowKey{r.Lane, r.Index}] = r
}

// Rows returns the rows in display order.
func (m *Model) Rows() []*Row {
	return m.rows
}

// Completed reports whether the run has finished.
func (m *Model) Completed() bool {
	return m.completed
}

// applyEvent moves a row to the state carried by event.
// Events for unknown entries are ignored.
func (m *Model) applyEvent(event progress.Event) {
	r, ok := m.byKey[rowKey{event.Lane, event.Index}]
	if !ok {
		return
	}

	r.State = event.State
	r.Since = event.Timestamp

	if event.Err != nil {
		r.Err = oneLine(event.Err.Error())
	}
}

// active reports whether a state is still in flight.
func active(s progress.State) bool {
	switch s {
	case progress.Spawned, progress.WaitedForShellExit, progress.Polling:
		return true
	default:
		return false
	}
}
