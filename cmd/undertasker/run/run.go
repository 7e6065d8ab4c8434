// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements the run command.
package run

import (
	"bytes"
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/cmdstate"
	"github.com/matt-FFFFFF/undertasker/internal/config"
	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
	"github.com/matt-FFFFFF/undertasker/internal/launcher"
	"github.com/matt-FFFFFF/undertasker/internal/liveness"
	"github.com/matt-FFFFFF/undertasker/internal/progress"
	"github.com/matt-FFFFFF/undertasker/internal/spawn"
	"github.com/matt-FFFFFF/undertasker/internal/store"
	"github.com/matt-FFFFFF/undertasker/internal/tui"
	"github.com/urfave/cli/v3"
)

const (
	tuiFlag         = "tui"
	failFastFlag    = "fail-fast"
	targetFlag      = "target"
	pollTimeoutFlag = "poll-timeout"
	cliExitStr      = ""

	// MsgNothingToRun is printed when the store has no commands.
	MsgNothingToRun = "nothing to run: add a command first"
)

// SpawnerFactory returns the spawner used to start processes and query the process table.
var SpawnerFactory = func() spawn.Spawner {
	return spawn.OS{}
}

// TUIOptions are passed to the bubbletea program in TUI mode.
var TUIOptions []tea.ProgramOption

// NewCommand returns a command that launches every saved command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Launch every saved command",
		Description: `Rebuild the lanes from the current state of the file system and launch them:
files first, then terminal commands, then Windows actions.

Windows actions open pages of the single-instance Settings app, so each one
except the last waits until the Settings process from the previous one has
closed before the next is started. This wait has no limit unless --poll-timeout
or poll_timeout in the settings file is set.

By default a failing command does not stop the others; use --fail-fast to skip
everything after the first failure.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    tuiFlag,
				Aliases: []string{"t", "interactive"},
				Usage:   "Show live progress in a terminal user interface",
			},
			&cli.BoolFlag{
				Name:  failFastFlag,
				Usage: "Skip all remaining commands after the first failure",
			},
			&cli.StringFlag{
				Name:  targetFlag,
				Usage: "Process waited for between Windows actions (default from settings, SystemSettings.exe)",
			},
			&cli.DurationFlag{
				Name:  pollTimeoutFlag,
				Usage: "Give up waiting for the target process after this long (0 waits forever)",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	sess, err := cmdstate.Open(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// entries may have changed lane since they were saved, e.g. a file was deleted
	s := store.Build(sess.Fs, sess.Store.Working())

	if s.IsEmpty() {
		fmt.Fprintln(cmd.Writer, MsgNothingToRun) //nolint:errcheck
		return nil
	}

	l := newLauncher(cmd, sess.Config)

	var res launcher.Results

	switch cmd.Bool(tuiFlag) {
	case true:
		buf := new(bytes.Buffer)
		tuiCtx := ctxlog.NewForTUI(ctx, buf)
		l.Reporter = progress.NewLogReporter(tuiCtx)

		var execErr error

		res, execErr = tui.NewRunner(s, TUIOptions...).Run(tuiCtx, l, s)

		buf.WriteTo(cmd.ErrWriter) //nolint:errcheck

		if execErr != nil {
			logger.Error("TUI execution error", "error", execErr)
		}
	default:
		l.Reporter = progress.NewLogReporter(ctx)
		res = l.Execute(ctx, s)
	}

	if err := res.WriteText(cmd.Writer, launcher.DefaultOutputOptions()); err != nil {
		logger.Error("failed to write results", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	if res.HasError() {
		logger.Error("some commands failed", "error", res.Err())
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

// newLauncher applies the settings file, then the flags.
func newLauncher(cmd *cli.Command, cfg *config.Config) *launcher.Launcher {
	sp := SpawnerFactory()

	poller := liveness.New(liveness.NewStderrTable(sp))
	poller.Interval = cfg.PollInterval
	poller.Timeout = cfg.PollTimeout

	if cmd.IsSet(pollTimeoutFlag) {
		poller.Timeout = cmd.Duration(pollTimeoutFlag)
	}

	l := launcher.New(sp)
	l.Poller = poller
	l.Target = cfg.TargetProcess
	l.FailFast = cfg.FailFast || cmd.Bool(failFastFlag)

	if t := cmd.String(targetFlag); t != "" {
		l.Target = t
	}

	return l
}
