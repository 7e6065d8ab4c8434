// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package importlist implements the import command.
package importlist

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/cmdstate"
	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
	"github.com/matt-FFFFFF/undertasker/internal/store"
	"github.com/urfave/cli/v3"
)

const (
	sourceArg   = "source"
	replaceFlag = "replace"
)

// ErrDecodeSource is returned when the fetched file is not a command store.
var ErrDecodeSource = errors.New("failed to decode import source")

// NewCommand returns a command that merges a store fetched from elsewhere into the local one.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import commands from a store file at a local path or URL",
		ArgsUsage: "SOURCE",
		Description: `Fetch a command store (.json, .yaml or .yml) and add its commands to the local store.
Commands already present are not added twice.

SOURCE uses Hashicorp's go-getter syntax, so it can be a local path, an HTTP URL,
or a file inside a git repository, for example:

  undertasker import git::https://github.com/org/dotfiles//undertasker/command.json?ref=main

See https://github.com/hashicorp/go-getter.`,
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: sourceArg,
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  replaceFlag,
				Usage: "Replace the local commands instead of merging",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	src := cmd.StringArg(sourceArg)
	if src == "" {
		return cli.Exit("specify the source to import", 1)
	}

	sess, err := cmdstate.Open(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	imported, err := fetch(ctx, src)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	var working []store.Entry
	if !cmd.Bool(replaceFlag) {
		working = sess.Store.Working()
	}

	working, added := merge(working, imported.Working())

	ctxlog.Info(ctx, "import fetched", "source", src, "entries", imported.Len(), "added", added)
	fmt.Fprintf(cmd.Writer, "imported %d of %d commands\n", added, imported.Len()) //nolint:errcheck

	return sess.Commit(ctx, cmd, working)
}

// fetch downloads src and decodes it in the format its file name implies.
func fetch(ctx context.Context, src string) (*store.Store, error) {
	name, data, err := getURL(ctx, src)
	if err != nil {
		return nil, err
	}

	s, err := store.Unmarshal(data, store.FormatFor(name))
	if err != nil {
		return nil, errors.Join(ErrDecodeSource, err)
	}

	return s, nil
}

// merge appends the entries of incoming that working does not already hold.
func merge(working, incoming []store.Entry) ([]store.Entry, int) {
	added := 0

	for _, e := range incoming {
		e.Command = store.Normalize(e.Command)
		if slices.Contains(working, e) {
			continue
		}

		var err error
		if working, err = store.Add(working, e); err == nil {
			added++
		}
	}

	return working, added
}
