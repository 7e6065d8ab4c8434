// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
)

// Watch cancels the context on the first signal and calls Exit on the second
// signal of the same type.
// It returns when sigCh is closed, or when ctx is done before any signal arrived.
// After a first signal it keeps waiting on sigCh so a repeat can still force the exit.
func Watch(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})
	done := ctx.Done()

	for {
		select {
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if _, dup := seen[sig]; dup {
				ctxlog.Error(ctx, "received signal twice, exiting", "signal", sig.String())
				Exit(ForcedExitCode)

				return
			}

			seen[sig] = struct{}{}

			ctxlog.Warn(ctx, "received signal, cancelling run (repeat to exit immediately)", "signal", sig.String())
			cancel()

			done = nil
		case <-done:
			return
		}
	}
}
