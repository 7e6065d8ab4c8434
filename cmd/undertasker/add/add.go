// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package add implements the add command.
package add

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/cmdstate"
	"github.com/matt-FFFFFF/undertasker/internal/classify"
	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
	"github.com/matt-FFFFFF/undertasker/internal/store"
	"github.com/peterh/liner"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	quietFlag = "quiet"
	prompt    = "command> "
)

// Prompter reads lines from the user.
type Prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// PrompterFactory opens the interactive prompt.
var PrompterFactory = func() Prompter {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)

	return l
}

// NewCommand returns a command that appends commands to the store.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add one or more commands to the store",
		ArgsUsage: "[COMMAND...]",
		Description: `Add commands to the store. Each argument is one command; quote commands
that contain spaces. Surrounding whitespace is trimmed, and quotes around a pasted
path are removed.

Without arguments, commands are read interactively, one per line, until an
empty line or Ctrl-D.

Each command is put in a lane when the store is rebuilt: an existing file runs
directly, a command starting with "start" is a Windows action, anything else
runs in a terminal.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    quietFlag,
				Aliases: []string{"q"},
				Usage:   "Run terminal commands without a visible console window",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	sess, err := cmdstate.Open(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	commands := cmd.Args().Slice()
	if len(commands) == 0 {
		if commands, err = readInteractive(PrompterFactory()); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	working := sess.Store.Working()
	quiet := cmd.Bool(quietFlag)

	var added []string

	for _, c := range commands {
		working, err = store.Add(working, store.Entry{Command: c, Quiet: quiet})
		if errors.Is(err, store.ErrEmptyCommand) {
			ctxlog.Warn(ctx, "ignoring empty command", "input", c)
			continue
		}

		added = append(added, store.Normalize(c))
	}

	if len(added) == 0 {
		return cli.Exit("no commands to add", 1)
	}

	if quiet {
		warnQuietIgnored(ctx, sess.Fs, added)
	}

	ctxlog.Info(ctx, "adding commands", "count", len(added))

	return sess.Commit(ctx, cmd, working)
}

// warnQuietIgnored logs every command that does not run in the terminal lane,
// where quiet has no effect. It returns how many were logged.
func warnQuietIgnored(ctx context.Context, fs afero.Fs, commands []string) int {
	n := 0

	for _, c := range commands {
		if lane := classify.Classify(fs, c); lane != classify.Terminal {
			ctxlog.Warn(ctx, "--quiet has no effect outside the terminal lane", "command", c, "lane", lane.String())
			n++
		}
	}

	return n
}

// readInteractive collects lines until an empty line, Ctrl-D or Ctrl-C.
func readInteractive(p Prompter) ([]string, error) {
	defer p.Close() //nolint:errcheck

	var lines []string

	for {
		line, err := p.Prompt(prompt)

		switch {
		case errors.Is(err, io.EOF), errors.Is(err, liner.ErrPromptAborted):
			return lines, nil
		case err != nil:
			return nil, fmt.Errorf("reading command: %w", err)
		}

		if store.Normalize(line) == "" {
			return lines, nil
		}

		p.AppendHistory(line)
		lines = append(lines, line)
	}
}
