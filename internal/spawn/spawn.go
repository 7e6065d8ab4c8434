// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package spawn starts operating system processes in one of three window modes.
package spawn

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
)

// ErrCouldNotStartProcess is returned when the process could not be started.
var ErrCouldNotStartProcess = errors.New("could not start process")

// Mode selects how a process is attached to the console.
type Mode int

const (
	// Detached processes get no console and are not tied to the lifetime of undertasker.
	Detached Mode = iota
	// Console processes get a new, visible console window that stays open.
	Console
	// Hidden processes run without any window. Their output can be captured.
	Hidden
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Detached:
		return "detached"
	case Console:
		return "console"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Spec describes a process to start.
type Spec struct {
	Path string   // executable
	Args []string // arguments, excluding the executable
	// CommandLine, when set, is handed to the operating system verbatim on Windows
	// instead of a command line quoted from Path and Args.
	CommandLine string
	Mode        Mode
	Stdout      io.Writer // honoured for Hidden only
	Stderr      io.Writer // honoured for Hidden only
}

// Process is a started process.
type Process interface {
	Pid() int
	// Wait blocks until the process exits.
	Wait() error
	// Release gives up any interest in the process without waiting.
	Release() error
}

// Spawner starts processes.
type Spawner interface {
	Start(ctx context.Context, spec Spec) (Process, error)
}

var _ Spawner = OS{}

// OS starts real processes with os/exec.
// The context is only used for logging: detached processes must outlive it.
type OS struct{}

// Start implements Spawner.
func (OS) Start(ctx context.Context, spec Spec) (Process, error) {
	cmd := exec.Command(spec.Path, spec.Args...) //nolint:gosec // running user commands is the point
	configure(cmd, spec)

	if err := cmd.Start(); err != nil {
		return nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	ctxlog.Debug(ctx, "process started", "path", spec.Path, "args", spec.Args, "mode", spec.Mode.String(), "pid", cmd.Process.Pid)

	return &osProcess{cmd: cmd}, nil
}

type osProcess struct {
	cmd *exec.Cmd
}

func (p *osProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *osProcess) Wait() error {
	return p.cmd.Wait()
}

func (p *osProcess) Release() error {
	return p.cmd.Process.Release()
}
