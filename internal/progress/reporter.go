// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"context"
	"log/slog"
	"sync"

	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
)

var (
	_ Reporter = (*ChannelReporter)(nil)
	_ Reporter = (*LogReporter)(nil)
	_ Reporter = NullReporter{}
)

// ChannelReporter sends events on a buffered channel.
// When the buffer is full the event is dropped rather than blocking the sender.
type ChannelReporter struct {
	ch     chan Event
	ctx    context.Context //nolint:containedctx // closes with the reporter
	cancel context.CancelFunc
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
	once   sync.Once
}

// NewChannelReporter creates a ChannelReporter with the given buffer size.
func NewChannelReporter(ctx context.Context, bufferSize int) *ChannelReporter {
	reporterCtx, cancel := context.WithCancel(ctx)

	return &ChannelReporter{
		ch:     make(chan Event, bufferSize),
		ctx:    reporterCtx,
		cancel: cancel,
	}
}

// Report implements Reporter.
func (cr *ChannelReporter) Report(event Event) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.closed {
		return
	}

	select {
	case cr.ch <- event:
	case <-cr.ctx.Done():
	default:
	}
}

// Close stops the reporter and waits for any listener to drain.
// It is safe to call more than once.
func (cr *ChannelReporter) Close() {
	cr.once.Do(func() {
		cr.mu.Lock()
		cr.closed = true
		close(cr.ch)
		cr.mu.Unlock()

		cr.wg.Wait()
		cr.cancel()
	})
}

// Listen forwards events to listener on a new goroutine until the reporter
// is closed. Events already buffered at Close are still delivered.
func (cr *ChannelReporter) Listen(listener Listener) {
	cr.wg.Add(1)

	go func() {
		defer cr.wg.Done()

		for event := range cr.ch {
			listener.OnEvent(event)
		}
	}()
}

// Events returns the receive side of the channel.
// It is closed by Close.
func (cr *ChannelReporter) Events() <-chan Event {
	return cr.ch
}

// LogReporter writes each event to the context logger.
type LogReporter struct {
	ctx context.Context //nolint:containedctx // carries the logger
}

// NewLogReporter returns a LogReporter logging through ctx.
func NewLogReporter(ctx context.Context) *LogReporter {
	return &LogReporter{ctx: ctx}
}

// Report implements Reporter.
// Failures are logged at warn, everything else at debug.
func (lr *LogReporter) Report(event Event) {
	attrs := []any{
		slog.String("lane", event.Lane.String()),
		slog.Int("index", event.Index),
		slog.String("command", event.Command),
		slog.String("state", event.State.String()),
	}

	if event.Err != nil {
		attrs = append(attrs, slog.Any("error", event.Err))
	}

	if event.State == Failed {
		ctxlog.Warn(lr.ctx, "lane entry failed", attrs...)
		return
	}

	ctxlog.Debug(lr.ctx, "lane entry "+event.State.String(), attrs...)
}

// Close implements Reporter.
func (*LogReporter) Close() {}

// Multi fans events out to several reporters.
type Multi []Reporter

// Report implements Reporter.
func (m Multi) Report(event Event) {
	for _, r := range m {
		r.Report(event)
	}
}

// Close implements Reporter.
func (m Multi) Close() {
	for _, r := range m {
		r.Close()
	}
}
