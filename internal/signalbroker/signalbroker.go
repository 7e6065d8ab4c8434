// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker turns operating system signals into context cancellation.
//
// Processes started by undertasker are detached and are never signalled.
// The first termination signal cancels the run, which stops dispatching and
// abandons any liveness poll in progress. A second signal of the same type
// exits immediately.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
)

// ForcedExitCode is the exit code used when a signal is received twice.
const ForcedExitCode = 130

// Exit is called on the second signal of a type. Tests replace it.
var Exit = os.Exit

var termSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
}

// New subscribes to sigs, or to the termination signals when none are given.
// The returned stop function unsubscribes; it does not close the channel.
func New(ctx context.Context, sigs ...os.Signal) (chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "subscribing to signals", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch, func() { signal.Stop(ch) }
}
