// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launcher

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OutputOptions controls what WriteText prints.
type OutputOptions struct {
	ShowSkipReasons bool // print why each skipped entry did not run
}

// DefaultOutputOptions returns the options used by the run command.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{ShowSkipReasons: true}
}

type textStyles struct {
	success lipgloss.Style
	failure lipgloss.Style
	skipped lipgloss.Style
	detail  lipgloss.Style
}

// newTextStyles binds styles to w, so colour is only emitted when w is a terminal.
func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)

	return textStyles{
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		skipped: r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		detail:  r.NewStyle().Faint(true),
	}
}

// WriteText writes the results as an indented tree.
func (r Results) WriteText(w io.Writer, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	styles := newTextStyles(w)

	for _, res := range r {
		if err := writeResult(w, res, "", options, styles); err != nil {
			return err
		}
	}

	return nil
}

func writeResult(w io.Writer, r *Result, indent string, options *OutputOptions, styles textStyles) error {
	var (
		mark  string
		style lipgloss.Style
		verb  string
	)

	switch r.Status {
	case ResultStatusSuccess:
		mark, style = "✓", styles.success
	case ResultStatusError:
		mark, style, verb = "✗", styles.failure, "Error"
	case ResultStatusSkipped:
		mark, style, verb = "~", styles.skipped, "Skipped"
	default:
		mark, style = "?", styles.detail
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	if _, err := fmt.Fprintf(w, "%s%s %s\n", indent, style.Render(mark), style.Render(label)); err != nil {
		return err
	}

	showErr := r.Error != nil && r.Command != "" &&
		(r.Status == ResultStatusError || options.ShowSkipReasons)

	if showErr {
		if _, err := fmt.Fprintf(w, "%s  %s %s\n", indent, style.Render("➜ "+verb+":"), styles.detail.Render(oneLine(r.Error))); err != nil {
			return err
		}
	}

	for _, child := range r.Children {
		if err := writeResult(w, child, indent+"  ", options, styles); err != nil {
			return err
		}
	}

	return nil
}

// oneLine flattens joined errors, which are newline separated.
func oneLine(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", ": ")
}
