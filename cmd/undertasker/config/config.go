// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config implements the config command.
package config

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/cmdstate"
	"github.com/matt-FFFFFF/undertasker/internal/config"
	"github.com/urfave/cli/v3"
)

const forceFlag = "force"

// NewCommand returns a command that groups the settings file subcommands.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the undertasker.hcl settings file",
		Commands: []*cli.Command{
			newInitCommand(),
		},
	}
}

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a settings file holding the default values",
		Description: `Write the default settings to the path given by --config,
or to undertasker.hcl next to the executable.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    forceFlag,
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing settings file",
			},
		},
		Action: initAction,
	}
}

func initAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.String(cmdstate.ConfigFlag)
	if path == "" {
		path = config.DefaultPath()
	}

	if err := config.WriteDefault(config.FsFactory(), path, cmd.Bool(forceFlag)); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintf(cmd.Writer, "settings written to %s\n", path) //nolint:errcheck

	return nil
}
