// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package liveness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v3"
	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
)

// DefaultInterval is the pause between two queries.
const DefaultInterval = 500 * time.Millisecond

var (
	// ErrPollCancelled is returned when the context is cancelled while the target is still running.
	ErrPollCancelled = errors.New("cancelled while waiting for process to exit")
	// ErrPollTimeout is returned when Timeout elapses while the target is still running.
	ErrPollTimeout = errors.New("timed out waiting for process to exit")
)

var errStillRunning = errors.New("process still running")

// Poller waits for a process to exit by querying a Table at a fixed interval.
type Poller struct {
	Table    Table
	Interval time.Duration // DefaultInterval when zero
	Timeout  time.Duration // zero waits without limit; measured from the first query
}

// New returns a Poller with the default interval and no timeout.
func New(table Table) *Poller {
	return &Poller{Table: table, Interval: DefaultInterval}
}

// WaitUntilAbsent returns nil once name is no longer in the process table.
// The first query runs immediately. A failed query ends the wait with an error
// wrapping ErrQueryFailed rather than being read as "absent".
func (p *Poller) WaitUntilAbsent(ctx context.Context, name string) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	logger := ctxlog.Logger(ctx).With("target", name)
	attempts := 0
	started := time.Now()

	op := func() error {
		if p.Timeout > 0 && time.Since(started) >= p.Timeout {
			return backoff.Permanent(fmt.Errorf("%w: %s still running after %s", ErrPollTimeout, name, p.Timeout))
		}

		attempts++

		presence, err := p.Table.Query(ctx, name)
		if err != nil {
			return backoff.Permanent(err)
		}

		if presence == Absent {
			return nil
		}

		return errStillRunning
	}

	notify := func(_ error, wait time.Duration) {
		logger.Debug("target still running", "attempt", attempts, "retryIn", wait)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(backoff.NewConstantBackOff(interval), ctx), notify)

	switch {
	case err == nil:
		logger.Debug("target confirmed closed", "attempts", attempts)
		return nil
	case errors.Is(err, ErrQueryFailed), errors.Is(err, ErrPollTimeout):
		return err
	case ctx.Err() != nil:
		return errors.Join(ErrPollCancelled, ctx.Err())
	}

	// the backoff gives up early when ctx has a deadline closer than one interval
	if _, ok := ctx.Deadline(); ok {
		return errors.Join(ErrPollCancelled, context.DeadlineExceeded)
	}

	return err
}
