// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/undertasker/internal/classify"
	"github.com/matt-FFFFFF/undertasker/internal/launcher"
	"github.com/matt-FFFFFF/undertasker/internal/progress"
	"github.com/matt-FFFFFF/undertasker/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStore() *store.Store {
	return &store.Store{
		File:     []string{"notepad.exe"},
		Windows:  []string{"start ms-settings:a", "start ms-settings:b"},
		Terminal: []store.TerminalEntry{{Command: "echo hi", Quiet: true}},
	}
}

func TestNewModel_RowsInDispatchOrder(t *testing.T) {
	m := NewModel(sampleStore())

	rows := m.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, classify.File, rows[0].Lane)
	assert.Equal(t, classify.Terminal, rows[1].Lane)
	assert.True(t, rows[1].Quiet)
	assert.Equal(t, classify.WindowsAction, rows[2].Lane)
	assert.Equal(t, "start ms-settings:b", rows[3].Command)
	assert.Equal(t, 1, rows[3].Index)

	for _, r := range rows {
		assert.Equal(t, progress.Idle, r.State)
	}
}

func TestModel_ProgressEvents(t *testing.T) {
	m := NewModel(sampleStore())

	m.Update(ProgressEventMsg{Event: progress.NewEvent(classify.WindowsAction, 0, "start ms-settings:a", progress.Polling)})
	assert.Equal(t, progress.Polling, m.Rows()[2].State)
	assert.Contains(t, m.View(), "polling")

	m.Update(ProgressEventMsg{Event: progress.NewEvent(classify.WindowsAction, 1, "start ms-settings:b", progress.Skipped).
		WithErr(errors.Join(launcher.ErrSerializationBroken, errors.New("x")))})
	assert.Equal(t, progress.Skipped, m.Rows()[3].State)
	assert.Contains(t, m.View(), launcher.ErrSerializationBroken.Error()+": x")
}

func TestModel_UnknownEventIgnored(t *testing.T) {
	m := NewModel(sampleStore())

	m.Update(ProgressEventMsg{Event: progress.NewEvent(classify.File, 9, "ghost", progress.Failed)})

	for _, r := range m.Rows() {
		assert.Equal(t, progress.Idle, r.State)
	}
}

func TestModel_CompletionQuits(t *testing.T) {
	m := NewModel(sampleStore())

	_, cmd := m.Update(RunCompletedMsg{Results: launcher.Results{}})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Completed())
	assert.Contains(t, m.View(), "all entries dispatched")
}

func TestModel_CompletionWithErrors(t *testing.T) {
	m := NewModel(sampleStore())

	m.Update(RunCompletedMsg{Results: launcher.Results{{Status: launcher.ResultStatusError}}})
	assert.Contains(t, m.View(), "run finished with errors")
}

func TestModel_QuitKey(t *testing.T) {
	m := NewModel(sampleStore())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Contains(t, m.View(), "stopping...")
}

func TestModel_View(t *testing.T) {
	m := NewModel(sampleStore())
	view := m.View()

	assert.Contains(t, view, "undertasker")
	assert.Contains(t, view, "file\n")
	assert.Contains(t, view, "echo hi (quiet)")
	assert.Contains(t, view, "q to stop dispatching")
}

func TestModel_EmptyStore(t *testing.T) {
	m := NewModel(store.New())
	assert.Contains(t, m.View(), "nothing to run")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abcdef", truncate("abcdef", 0))
	assert.Equal(t, "abcdef", truncate("abcdef", 6))
	assert.Equal(t, "ab...", truncate("abcdef", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
