// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/undertasker/internal/classify"
	"github.com/matt-FFFFFF/undertasker/internal/progress"
)

const (
	durationRounding = 100 * time.Millisecond
	minCommandWidth  = 20
	ellipsis         = "..."
)

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case ProgressEventMsg:
		m.applyEvent(msg.Event)
		return m, nil

	case RunCompletedMsg:
		m.completed = true
		m.results = msg.Results

		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("undertasker"))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(m.styles.Pending.Render("nothing to run"))
		b.WriteString("\n")

		return b.String()
	}

	lane := classify.Category(-1)

	for _, r := range m.rows {
		if r.Lane != lane {
			lane = r.Lane
			b.WriteString(m.styles.Lane.Render(lane.String()))
			b.WriteString("\n")
		}

		m.renderRow(&b, r)
	}

	switch {
	case m.completed && m.results.HasError():
		b.WriteString(m.styles.Failed.Render("run finished with errors"))
		b.WriteString("\n")
	case m.completed:
		b.WriteString(m.styles.Success.Render("all entries dispatched"))
		b.WriteString("\n")
	case m.quitting:
		b.WriteString(m.styles.Skipped.Render("stopping..."))
		b.WriteString("\n")
	default:
		b.WriteString(m.styles.Help.Render("q to stop dispatching"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) renderRow(b *strings.Builder, r *Row) {
	var (
		icon  string
		style lipgloss.Style
	)

	switch {
	case active(r.State):
		icon, style = m.spinner.View(), m.styles.Active
	case r.State == progress.Dispatched || r.State == progress.ConfirmedClosed:
		icon, style = "✓", m.styles.Success
	case r.State == progress.Failed:
		icon, style = "✗", m.styles.Failed
	case r.State == progress.Skipped:
		icon, style = "~", m.styles.Skipped
	default:
		icon, style = "·", m.styles.Pending
	}

	command := truncate(r.Command, m.commandWidth())
	if r.Quiet {
		command += " (quiet)"
	}

	fmt.Fprintf(b, "  %s %s", icon, style.Render(command)) //nolint:errcheck

	detail := r.State.String()
	if active(r.State) && !r.Since.IsZero() {
		detail += fmt.Sprintf(" %v", time.Since(r.Since).Round(durationRounding))
	}

	if r.Err != "" {
		detail += ": " + r.Err
	}

	b.WriteString(" ")
	b.WriteString(m.styles.Detail.Render(detail))
	b.WriteString("\n")
}

func (m *Model) commandWidth() int {
	if m.width == 0 {
		return 0
	}

	return max(m.width/2, minCommandWidth)
}

// truncate shortens s to width runes. Zero means no limit.
func truncate(s string, width int) string {
	runes := []rune(s)
	if width == 0 || len(runes) <= width {
		return s
	}

	if width <= len(ellipsis) {
		return string(runes[:width])
	}

	return string(runes[:width-len(ellipsis)]) + ellipsis
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", ": ")
}
