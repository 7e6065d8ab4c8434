// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/TylerBrock/colorjson"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	// ErrMarshalAttribute is returned when record attributes cannot be rendered.
	ErrMarshalAttribute = errors.New("error when marshaling attribute")
	// ErrIoWrite is returned when the rendered record cannot be written.
	ErrIoWrite = errors.New("error when writing to output")
)

// TimeFormat is the timestamp layout used in log lines.
const TimeFormat = "[15:04:05.000]"

var (
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	msgStyle   = lipgloss.NewStyle().Bold(true)
	levelStyle = map[slog.Level]lipgloss.Style{
		slog.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		slog.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		slog.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		slog.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

var _ slog.Handler = (*PrettyHandler)(nil)

// PrettyHandler writes each record as a single line:
// timestamp, level, message and the attributes as compact JSON.
type PrettyHandler struct {
	opts   slog.HandlerOptions
	attrs  []slog.Attr
	groups []string
	m      *sync.Mutex
	writer io.Writer
	colour bool
}

// Option configures a PrettyHandler.
type Option func(h *PrettyHandler)

// WithDestinationWriter sets where records are written. The default is os.Stderr.
func WithDestinationWriter(w io.Writer) Option {
	return func(h *PrettyHandler) {
		h.writer = w
	}
}

// WithColour forces colour output.
func WithColour() Option {
	return func(h *PrettyHandler) {
		h.colour = true
	}
}

// WithAutoColour enables colour when stderr is a terminal and NO_COLOR is unset.
func WithAutoColour() Option {
	return func(h *PrettyHandler) {
		h.colour = os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stderr.Fd()))
	}
}

// NewPrettyHandler creates a PrettyHandler. Only Level and ReplaceAttr of opts are honoured.
func NewPrettyHandler(opts *slog.HandlerOptions, options ...Option) *PrettyHandler {
	h := &PrettyHandler{
		m:      &sync.Mutex{},
		writer: os.Stderr,
	}
	if opts != nil {
		h.opts = *opts
	}

	for _, o := range options {
		o(h)
	}

	return h
}

// Enabled implements slog.Handler.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

// WithAttrs implements slog.Handler.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	for _, a := range attrs {
		c.attrs = append(c.attrs, qualify(h.groups, a))
	}

	return c
}

// WithGroup implements slog.Handler.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := h.clone()
	c.groups = append(c.groups, name)

	return c
}

// Handle implements slog.Handler.
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		h.addField(fields, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.addField(fields, qualify(h.groups, a))
		return true
	})

	var sb strings.Builder

	sb.WriteString(h.style(timeStyle, r.Time.Format(TimeFormat)))
	sb.WriteString(" ")
	sb.WriteString(h.style(levelStyleFor(r.Level), r.Level.String()+":"))
	sb.WriteString(" ")
	sb.WriteString(h.style(msgStyle, r.Message))

	if len(fields) > 0 {
		rendered, err := h.renderFields(fields)
		if err != nil {
			return errors.Join(ErrMarshalAttribute, err)
		}

		sb.WriteString(" ")
		sb.Write(rendered)
	}

	sb.WriteString("\n")

	h.m.Lock()
	defer h.m.Unlock()

	if _, err := io.WriteString(h.writer, sb.String()); err != nil {
		return errors.Join(ErrIoWrite, err)
	}

	return nil
}

func (h *PrettyHandler) clone() *PrettyHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	c.groups = append([]string(nil), h.groups...)

	return &c
}

func (h *PrettyHandler) style(s lipgloss.Style, text string) string {
	if !h.colour {
		return text
	}

	return s.Render(text)
}

func (h *PrettyHandler) addField(fields map[string]any, a slog.Attr) {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(h.groups, a)
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	fields[a.Key] = plainValue(a.Value)
}

// renderFields round-trips through encoding/json so colorjson only ever sees
// the plain map/slice/float64/string/bool shapes it knows how to print.
func (h *PrettyHandler) renderFields(fields map[string]any) ([]byte, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}

	f := colorjson.NewFormatter()
	f.Indent = 0
	f.DisabledColor = !h.colour

	return f.Marshal(generic)
}

// qualify prefixes the attribute key with the open groups.
func qualify(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 {
		return a
	}

	a.Key = strings.Join(groups, ".") + "." + a.Key

	return a
}

func plainValue(v slog.Value) any {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindGroup:
		m := make(map[string]any, len(v.Group()))
		for _, a := range v.Group() {
			m[a.Key] = plainValue(a.Value)
		}

		return m
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return x.Error()
		case fmt.Stringer:
			return x.String()
		default:
			return x
		}
	default:
		return v.Any()
	}
}

func levelStyleFor(l slog.Level) lipgloss.Style {
	switch {
	case l < slog.LevelInfo:
		return levelStyle[slog.LevelDebug]
	case l < slog.LevelWarn:
		return levelStyle[slog.LevelInfo]
	case l < slog.LevelError:
		return levelStyle[slog.LevelWarn]
	default:
		return levelStyle[slog.LevelError]
	}
}
