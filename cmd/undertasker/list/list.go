// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package list implements the list command.
package list

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/undertasker/cmd/undertasker/cmdstate"
	"github.com/matt-FFFFFF/undertasker/internal/classify"
	"github.com/matt-FFFFFF/undertasker/internal/store"
	"github.com/urfave/cli/v3"
)

const (
	formatFlag = "format"
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	msgEmpty   = "no commands saved"
)

// NewCommand returns a command that prints the persisted lanes.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Show the saved commands, grouped by lane",
		Description: `List the commands in the store in the order they run:
files first, then terminal commands, then Windows actions.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    formatFlag,
				Aliases: []string{"o"},
				Usage:   "Output format: text, json or yaml",
				Value:   formatText,
				Validator: func(v string) error {
					switch v {
					case formatText, formatJSON, formatYAML:
						return nil
					default:
						return fmt.Errorf("unsupported format %q", v)
					}
				},
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

	switch cmd.String(formatFlag) {
	case formatJSON:
		return writeEncoded(cmd.Writer, sess.Store, store.FormatJSON)
	case formatYAML:
		return writeEncoded(cmd.Writer, sess.Store, store.FormatYAML)
	}

	return WriteText(cmd.Writer, sess.Store)
}

func writeEncoded(w io.Writer, s *store.Store, f store.Format) error {
	data, err := store.Marshal(s, f)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	_, err = w.Write(data)

	return err
}

// WriteText prints every non-empty lane with its entries indented below it.
func WriteText(w io.Writer, s *store.Store) error {
	if s.IsEmpty() {
		_, err := fmt.Fprintln(w, msgEmpty)
		return err
	}

	r := lipgloss.NewRenderer(w)
	heading := r.NewStyle().Bold(true)
	quiet := r.NewStyle().Faint(true)

	for _, lane := range classify.Categories {
		var lines []string

		switch lane {
		case classify.File:
			lines = s.File
		case classify.WindowsAction:
			lines = s.Windows
		case classify.Terminal:
			for _, t := range s.Terminal {
				line := t.Command
				if t.Quiet {
					line += " " + quiet.Render("(quiet)")
				}

				lines = append(lines, line)
			}
		}

		if len(lines) == 0 {
			continue
		}

		if _, err := fmt.Fprintln(w, heading.Render(lane.String()+":")); err != nil {
			return err
		}

		for _, l := range lines {
			if _, err := fmt.Fprintf(w, "  %s\n", l); err != nil {
				return err
			}
		}
	}

	return nil
}
