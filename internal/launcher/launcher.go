// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launcher

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"

	"github.com/matt-FFFFFF/undertasker/internal/classify"
	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
	"github.com/matt-FFFFFF/undertasker/internal/liveness"
	"github.com/matt-FFFFFF/undertasker/internal/progress"
	"github.com/matt-FFFFFF/undertasker/internal/spawn"
	"github.com/matt-FFFFFF/undertasker/internal/store"
)

var (
	// ErrWaitFailed is returned for a windows action whose closure could not be confirmed.
	ErrWaitFailed = errors.New("could not confirm windows action closed")
	// ErrSerializationBroken marks windows actions skipped because an earlier one was never confirmed closed.
	ErrSerializationBroken = errors.New("skipped: previous windows action was not confirmed closed")
	// ErrAborted marks entries skipped after a failure in fail-fast mode.
	ErrAborted = errors.New("skipped: aborted after an earlier failure")
	// ErrCancelled marks entries skipped because the run was cancelled.
	ErrCancelled = errors.New("skipped: run cancelled")
)

// Waiter blocks until a named process is gone.
type Waiter interface {
	WaitUntilAbsent(ctx context.Context, name string) error
}

var _ Waiter = (*liveness.Poller)(nil)

// Launcher dispatches store lanes in the order file, terminal, windows.
type Launcher struct {
	Spawner  spawn.Spawner
	Poller   Waiter
	Target   string // process waited for between windows actions
	FailFast bool   // skip everything after the first failure
	Reporter progress.Reporter
}

// New returns a Launcher polling the real process table for liveness.DefaultTarget.
func New(sp spawn.Spawner) *Launcher {
	return &Launcher{
		Spawner:  sp,
		Poller:   liveness.New(liveness.NewStderrTable(sp)),
		Target:   liveness.DefaultTarget,
		Reporter: progress.NewNullReporter(),
	}
}

// item is one lane entry as the launcher sees it.
type item struct {
	command string
	quiet   bool
}

// runState is shared by the lanes of a single Execute call.
type runState struct {
	aborted       bool
	windowsBroken bool
}

// Start runs Execute on a new goroutine and delivers the results on the returned channel.
func (l *Launcher) Start(ctx context.Context, s *store.Store) <-chan Results {
	ch := make(chan Results, 1)

	go func() {
		defer close(ch)
		ch <- l.Execute(ctx, s)
	}()

	return ch
}

// Execute dispatches every entry of s and returns one result per non-empty lane.
// Entries are started one at a time. Execute returns once the last entry has
// been dispatched; it never waits for dispatched processes to finish.
func (l *Launcher) Execute(ctx context.Context, s *store.Store) Results {
	st := &runState{}
	results := make(Results, 0, len(classify.Categories))

	for _, lane := range classify.Categories {
		items := laneItems(s, lane)
		if len(items) == 0 {
			continue
		}

		results = append(results, l.runLane(ctx, st, lane, items))
	}

	_, failed, skipped := results.Counts()
	ctxlog.Info(ctx, "run complete", "entries", s.Len(), "failed", failed, "skipped", skipped)

	return results
}

func laneItems(s *store.Store, lane classify.Category) []item {
	var items []item

	switch lane {
	case classify.File:
		for _, c := range s.File {
			items = append(items, item{command: c})
		}
	case classify.Terminal:
		for _, t := range s.Terminal {
			items = append(items, item{command: t.Command, quiet: t.Quiet})
		}
	case classify.WindowsAction:
		for _, c := range s.Windows {
			items = append(items, item{command: c})
		}
	}

	return items
}

func (l *Launcher) runLane(ctx context.Context, st *runState, lane classify.Category, items []item) *Result {
	laneResult := &Result{Label: lane.String(), Lane: lane}

	for i, it := range items {
		res := &Result{Label: it.command, Lane: lane, Command: it.command}
		laneResult.Children = append(laneResult.Children, res)

		if reason := st.skipReason(ctx, lane); reason != nil {
			res.Status = ResultStatusSkipped
			res.Error = reason
			l.report(progress.NewEvent(lane, i, it.command, progress.Skipped).WithErr(reason))

			continue
		}

		l.report(progress.NewEvent(lane, i, it.command, progress.Idle))

		if err := l.dispatch(ctx, lane, i, it, i == len(items)-1); err != nil {
			res.Status = ResultStatusError
			res.Error = err
			l.report(progress.NewEvent(lane, i, it.command, progress.Failed).WithErr(err))

			if errors.Is(err, ErrWaitFailed) {
				st.windowsBroken = true
			}

			if l.FailFast {
				st.aborted = true
			}

			continue
		}

		res.Status = ResultStatusSuccess
	}

	laneResult.Status = laneStatus(laneResult.Children)

	return laneResult
}

func (st *runState) skipReason(ctx context.Context, lane classify.Category) error {
	switch {
	case ctx.Err() != nil:
		return errors.Join(ErrCancelled, ctx.Err())
	case st.aborted:
		return ErrAborted
	case lane == classify.WindowsAction && st.windowsBroken:
		return ErrSerializationBroken
	default:
		return nil
	}
}

func (l *Launcher) dispatch(ctx context.Context, lane classify.Category, index int, it item, last bool) error {
	switch lane {
	case classify.File:
		return l.fireAndForget(ctx, lane, index, it.command, spawn.Spec{Path: absPath(it.command), Mode: spawn.Detached})
	case classify.Terminal:
		if it.quiet {
			spec := spawn.Shell(ctx, it.command, false)
			spec.Mode = spawn.Hidden

			return l.fireAndForget(ctx, lane, index, it.command, spec)
		}

		spec := spawn.Shell(ctx, it.command, true)
		spec.Mode = spawn.Console

		return l.fireAndForget(ctx, lane, index, it.command, spec)
	default:
		spec := spawn.Shell(ctx, it.command, false)
		spec.Mode = spawn.Detached

		if last {
			return l.fireAndForget(ctx, lane, index, it.command, spec)
		}

		return l.serialized(ctx, lane, index, it.command, spec)
	}
}

// fireAndForget starts the process and releases it.
func (l *Launcher) fireAndForget(ctx context.Context, lane classify.Category, index int, command string, spec spawn.Spec) error {
	p, err := l.Spawner.Start(ctx, spec)
	if err != nil {
		return err
	}

	l.report(progress.NewEvent(lane, index, command, progress.Spawned))

	if err := p.Release(); err != nil {
		ctxlog.Debug(ctx, "release failed", "command", command, "error", err)
	}

	l.report(progress.NewEvent(lane, index, command, progress.Dispatched))

	return nil
}

// serialized starts a windows action and returns once its target process is gone.
func (l *Launcher) serialized(ctx context.Context, lane classify.Category, index int, command string, spec spawn.Spec) error {
	p, err := l.Spawner.Start(ctx, spec)
	if err != nil {
		return err
	}

	l.report(progress.NewEvent(lane, index, command, progress.Spawned))

	// the shell's exit status says nothing about the settings page
	if err := p.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return errors.Join(ErrWaitFailed, err)
		}

		ctxlog.Debug(ctx, "shell exited with non-zero status", "command", command, "error", err)
	}

	l.report(progress.NewEvent(lane, index, command, progress.WaitedForShellExit))
	l.report(progress.NewEvent(lane, index, command, progress.Polling))

	if err := l.waiter().WaitUntilAbsent(ctx, l.target()); err != nil {
		return errors.Join(ErrWaitFailed, err)
	}

	l.report(progress.NewEvent(lane, index, command, progress.ConfirmedClosed))

	return nil
}

func (l *Launcher) report(e progress.Event) {
	if l.Reporter != nil {
		l.Reporter.Report(e)
	}
}

func (l *Launcher) target() string {
	if l.Target == "" {
		return liveness.DefaultTarget
	}

	return l.Target
}

func (l *Launcher) waiter() Waiter {
	if l.Poller == nil {
		l.Poller = liveness.New(liveness.NewStderrTable(l.Spawner))
	}

	return l.Poller
}

// absPath anchors a file entry to the working directory it was classified in.
func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}

	return abs
}
