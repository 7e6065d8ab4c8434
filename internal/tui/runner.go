// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/undertasker/internal/launcher"
	"github.com/matt-FFFFFF/undertasker/internal/progress"
	"github.com/matt-FFFFFF/undertasker/internal/store"
)

// eventsPerEntry bounds the events one entry emits, so the reporter buffer
// never has to drop any.
const eventsPerEntry = 8

var _ progress.Listener = (*programListener)(nil)

// programListener forwards progress events to a running program.
type programListener struct {
	program *tea.Program
}

// OnEvent implements progress.Listener.
func (pl programListener) OnEvent(event progress.Event) {
	pl.program.Send(ProgressEventMsg{Event: event})
}

// Runner drives a launcher run behind the TUI.
type Runner struct {
	model   *Model
	program *tea.Program
	size    int
}

// NewRunner creates a runner showing the entries of s.
func NewRunner(s *store.Store, opts ...tea.ProgramOption) *Runner {
	model := NewModel(s)

	return &Runner{
		model:   model,
		program: tea.NewProgram(model, opts...),
		size:    (s.Len() + 1) * eventsPerEntry,
	}
}

// Model returns the model shown by the runner.
func (r *Runner) Model() *Model {
	return r.model
}

// Run executes s with l while the TUI is shown.
// Quitting the TUI cancels the run: entries not yet started are skipped,
// and Run still returns the results.
func (r *Runner) Run(ctx context.Context, l *launcher.Launcher, s *store.Store) (launcher.Results, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// the launcher reports into a buffer; a listener goroutine feeds the
	// program so a slow redraw never holds up dispatch
	events := progress.NewChannelReporter(runCtx, r.size)
	events.Listen(programListener{program: r.program})

	if l.Reporter != nil {
		l.Reporter = progress.Multi{events, l.Reporter}
	} else {
		l.Reporter = events
	}

	resultCh := l.Start(runCtx, s)

	tuiDone := make(chan error, 1)

	go func() {
		_, err := r.program.Run()
		tuiDone <- err
	}()

	select {
	case results := <-resultCh:
		// drain every event into the program before it is told to quit
		events.Close()
		r.program.Send(RunCompletedMsg{Results: results})

		return results, <-tuiDone

	case err := <-tuiDone:
		cancel()
		results := <-resultCh
		events.Close()

		return results, err
	}
}
