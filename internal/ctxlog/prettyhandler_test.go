// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

// squash drops whitespace so assertions do not depend on colorjson spacing.
func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func newTestLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(NewPrettyHandler(&slog.HandlerOptions{Level: level}, WithDestinationWriter(buf)))
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))

	noOpts := NewPrettyHandler(nil)
	assert.True(t, noOpts.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, noOpts.Enabled(context.Background(), slog.LevelDebug))
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer

	logger := newTestLogger(&buf, slog.LevelDebug)
	logger.Info("spawned", "pid", 42, "command", "echo hi", "wait", 500*time.Millisecond, "error", errors.New("boom"))

	line := buf.String()
	require.True(t, strings.HasSuffix(line, "\n"))
	assert.Equal(t, 1, strings.Count(line, "\n"), "one record, one line")

	flat := squash(line)
	assert.Contains(t, flat, "INFO:spawned")
	assert.Contains(t, flat, `"pid":42`)
	assert.Contains(t, flat, `"command":"echohi"`)
	assert.Contains(t, flat, `"wait":"500ms"`)
	assert.Contains(t, flat, `"error":"boom"`)
}

func TestPrettyHandler_NoAttrs(t *testing.T) {
	var buf bytes.Buffer

	newTestLogger(&buf, slog.LevelDebug).Warn("bare")

	assert.NotContains(t, buf.String(), "{")
	assert.Contains(t, buf.String(), "WARN: bare")
}

func TestPrettyHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer

	logger := newTestLogger(&buf, slog.LevelDebug).
		With("lane", "windows").
		WithGroup("poll").
		With("target", "SystemSettings.exe")
	logger.Info("waiting", "attempt", 3)

	out := squash(buf.String())
	assert.Contains(t, out, `"lane":"windows"`)
	assert.Contains(t, out, `"poll.target":"SystemSettings.exe"`)
	assert.Contains(t, out, `"poll.attempt":3`)
}

func TestPrettyHandler_WithAttrsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer

	base := newTestLogger(&buf, slog.LevelDebug)
	_ = base.With("child", true)
	base.Info("parent")

	assert.NotContains(t, buf.String(), "child")
}

func TestPrettyHandler_ReplaceAttr(t *testing.T) {
	var buf bytes.Buffer

	h := NewPrettyHandler(&slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "secret" {
				return slog.Attr{}
			}

			return a
		},
	}, WithDestinationWriter(&buf))

	slog.New(h).Info("msg", "secret", "hunter2", "visible", "yes")

	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, squash(buf.String()), `"visible":"yes"`)
}

func TestPrettyHandler_WriteError(t *testing.T) {
	h := NewPrettyHandler(nil, WithDestinationWriter(failingWriter{}))
	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIoWrite)
}

func TestPrettyHandler_Colour(t *testing.T) {
	var plain, coloured bytes.Buffer

	slog.New(NewPrettyHandler(nil, WithDestinationWriter(&plain))).Error("failed")
	slog.New(NewPrettyHandler(nil, WithDestinationWriter(&coloured), WithColour())).Error("failed")

	assert.NotContains(t, plain.String(), "\x1b[")
	assert.Contains(t, coloured.String(), "failed")
}

func TestTimeFormat(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 6_000_000, time.UTC)
	assert.Equal(t, "[03:04:05.006]", ts.Format(TimeFormat))
}
