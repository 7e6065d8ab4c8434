// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the undertasker command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/undertasker"
	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/add"
	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/cmdstate"
	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/config"
	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/importlist"
	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/list"
	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/remove"
	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/run"
	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
	"github.com/matt-FFFFFF/undertasker/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// newRootCmd returns the root command for the CLI.
func newRootCmd() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			add.NewCommand(),
			config.NewCommand(),
			importlist.NewCommand(),
			list.NewCommand(),
			remove.NewCommand(),
			run.NewCommand(),
		},
		Flags:     cmdstate.Flags(),
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "undertasker",
		Description: `undertasker launches a saved list of programs, terminal commands and
Windows Settings pages in one go. Commands are kept in command.json next to the
executable and sorted into lanes: existing files, terminal commands, and
"start ..." Windows actions, which are opened one at a time.`,
		Usage:     "undertasker add notepad.exe \"start ms-settings:display\" && undertasker run",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion: true,
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh, stop := signalbroker.New(ctx)
	defer stop()

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd := newRootCmd()
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", undertasker.Version, undertasker.Commit)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
}
