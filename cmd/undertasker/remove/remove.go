// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package remove implements the remove command.
package remove

import (
	"context"

	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/cmdstate"
	"github.com/matt-FFFFFF/undertasker/internal/store"
	"github.com/urfave/cli/v3"
)

const commandArg = "command"

// NewCommand returns a command that deletes a command from the store.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:    "remove",
		Aliases: []string{"rm"},
		Usage:   "Remove a command from the store",
		Description: `Remove the first saved command equal to COMMAND.
The argument is cleaned up the same way as for add before comparing.`,
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: commandArg,
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	command := cmd.StringArg(commandArg)
	if store.Normalize(command) == "" {
		return cli.Exit("specify the command to remove", 1)
	}

	sess, err := cmdstate.Open(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	working, err := store.Remove(sess.Store.Working(), command)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return sess.Commit(ctx, cmd, working)
}
