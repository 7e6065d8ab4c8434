// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package liveness

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
	"github.com/matt-FFFFFF/undertasker/internal/spawn"
)

// DefaultTarget is the single-instance process behind "start ms-settings:" commands.
const DefaultTarget = "SystemSettings.exe"

// ErrQueryFailed is returned when the process table could not be queried.
// It never means the process is absent.
var ErrQueryFailed = errors.New("failed to query process table")

// maxAnswerExitCode is the highest exit status of a query that still answered.
// pgrep exits 1 when nothing matched.
const maxAnswerExitCode = 1

// posixShell runs the unix query; the user's $SHELL may not be POSIX.
const posixShell = "/bin/sh"

// Presence is the result of a process table query.
type Presence int

const (
	// Absent means no process with the name exists.
	Absent Presence = iota
	// Present means at least one process with the name exists.
	Present
)

// String implements fmt.Stringer.
func (p Presence) String() string {
	if p == Present {
		return "present"
	}

	return "absent"
}

// Table looks processes up by executable name.
type Table interface {
	Query(ctx context.Context, name string) (Presence, error)
}

var _ Table = (*StderrTable)(nil)

// StderrTable runs a query tool as a hidden process and reads its error stream.
// Any non-empty line on stderr means the process was not found; silence means it was.
// Exit statuses 0 and 1 are answers; any other status is a failed query.
type StderrTable struct {
	Spawner spawn.Spawner
	// Command builds the query for a process name. Defaults to QueryCommand.
	Command func(ctx context.Context, name string) spawn.Spec
}

// NewStderrTable returns a StderrTable using the platform query.
func NewStderrTable(sp spawn.Spawner) *StderrTable {
	return &StderrTable{Spawner: sp, Command: QueryCommand}
}

// Query implements Table.
func (t *StderrTable) Query(ctx context.Context, name string) (Presence, error) {
	build := t.Command
	if build == nil {
		build = QueryCommand
	}

	var stderr bytes.Buffer

	spec := build(ctx, name)
	spec.Mode = spawn.Hidden
	spec.Stdout = io.Discard
	spec.Stderr = &stderr

	p, err := t.Spawner.Start(ctx, spec)
	if err != nil {
		return Absent, errors.Join(ErrQueryFailed, err)
	}

	if err := p.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Absent, errors.Join(ErrQueryFailed, err)
		}

		// a shell that cannot find the tool exits 127 (sh) or 9009 (cmd.exe) and
		// also writes to stderr, which must not read as "not found"
		if code := exitErr.ExitCode(); code > maxAnswerExitCode {
			return Absent, errors.Join(ErrQueryFailed, fmt.Errorf("query for %s exited with status %d: %s", name, code, firstLine(stderr.Bytes())))
		}
	}

	presence := presenceFromStderr(stderr.Bytes())
	ctxlog.Debug(ctx, "process table queried", "target", name, "presence", presence.String(), "stderrBytes", stderr.Len())

	return presence, nil
}

// presenceFromStderr inverts the tool's signal: an error line means not found.
// Lines holding only a line terminator do not count.
func presenceFromStderr(stderr []byte) Presence {
	sc := bufio.NewScanner(bytes.NewReader(stderr))
	for sc.Scan() {
		if sc.Text() != "" {
			return Absent
		}
	}

	return Present
}

// QueryCommand returns the platform query for name.
// On Windows this is wmic, which prints "No Instance(s) Available." on stderr
// when nothing matches. Elsewhere pgrep is wrapped in /bin/sh to behave the
// same way; its exit status is passed through so a missing pgrep fails the query.
func QueryCommand(ctx context.Context, name string) spawn.Spec {
	if runtime.GOOS == "windows" {
		return spawn.Shell(ctx, fmt.Sprintf("wmic process where name='%s'", name), false)
	}

	return spawn.Spec{Path: posixShell, Args: []string{"-c", fmt.Sprintf(
		"pgrep -x -- %s >/dev/null; rc=$?; [ $rc -eq 1 ] && echo 'No Instance(s) Available.' >&2; exit $rc",
		shellQuote(name),
	)}}
}

func firstLine(b []byte) string {
	line, _, _ := bytes.Cut(bytes.TrimSpace(b), []byte("\n"))
	return strings.TrimSpace(string(line))
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
