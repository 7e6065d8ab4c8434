// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package liveness

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedTable answers queries from a list, repeating the last answer.
type scriptedTable struct {
	mu      sync.Mutex
	answers []Presence
	err     error
	calls   int
	names   []string
	onQuery func(call int)
}

func (s *scriptedTable) Query(_ context.Context, name string) (Presence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.names = append(s.names, name)

	if s.onQuery != nil {
		s.onQuery(s.calls)
	}

	if s.err != nil {
		return Absent, s.err
	}

	i := min(s.calls-1, len(s.answers)-1)

	return s.answers[i], nil
}

func TestNew_Defaults(t *testing.T) {
	p := New(&scriptedTable{})
	assert.Equal(t, 500*time.Millisecond, p.Interval)
	assert.Zero(t, p.Timeout)
}

func TestPoller_AbsentOnFirstQuery(t *testing.T) {
	table := &scriptedTable{answers: []Presence{Absent}}
	p := &Poller{Table: table, Interval: time.Millisecond}

	require.NoError(t, p.WaitUntilAbsent(testCtx(), DefaultTarget))
	assert.Equal(t, 1, table.calls)
	assert.Equal(t, []string{DefaultTarget}, table.names)
}

func TestPoller_WaitsUntilAbsent(t *testing.T) {
	table := &scriptedTable{answers: []Presence{Present, Present, Present, Absent}}
	p := &Poller{Table: table, Interval: time.Millisecond}

	require.NoError(t, p.WaitUntilAbsent(testCtx(), DefaultTarget))
	assert.Equal(t, 4, table.calls)
}

func TestPoller_SleepsBetweenQueries(t *testing.T) {
	table := &scriptedTable{answers: []Presence{Present, Present, Absent}}
	p := &Poller{Table: table, Interval: 20 * time.Millisecond}

	start := time.Now()
	require.NoError(t, p.WaitUntilAbsent(testCtx(), DefaultTarget))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestPoller_QueryErrorStopsPolling(t *testing.T) {
	table := &scriptedTable{err: errors.Join(ErrQueryFailed, errors.New("wmic missing"))}
	p := &Poller{Table: table, Interval: time.Millisecond}

	err := p.WaitUntilAbsent(testCtx(), DefaultTarget)
	require.ErrorIs(t, err, ErrQueryFailed)
	assert.Equal(t, 1, table.calls)
}

func TestPoller_Timeout(t *testing.T) {
	table := &scriptedTable{answers: []Presence{Present}}
	p := &Poller{Table: table, Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond}

	start := time.Now()
	err := p.WaitUntilAbsent(testCtx(), DefaultTarget)
	require.ErrorIs(t, err, ErrPollTimeout)
	assert.NotErrorIs(t, err, ErrPollCancelled)
	assert.NotErrorIs(t, err, errStillRunning)
	assert.GreaterOrEqual(t, time.Since(start), p.Timeout)
	assert.GreaterOrEqual(t, table.calls, 2)
}

func TestPoller_TimeoutShorterThanInterval(t *testing.T) {
	table := &scriptedTable{answers: []Presence{Present}}
	p := &Poller{Table: table, Interval: 50 * time.Millisecond, Timeout: 30 * time.Millisecond}

	start := time.Now()
	err := p.WaitUntilAbsent(testCtx(), DefaultTarget)
	require.ErrorIs(t, err, ErrPollTimeout)
	assert.GreaterOrEqual(t, time.Since(start), p.Timeout)
	assert.Equal(t, 1, table.calls)
}

func TestPoller_TimeoutNotReachedWhenAbsent(t *testing.T) {
	table := &scriptedTable{answers: []Presence{Present, Absent}}
	p := &Poller{Table: table, Interval: time.Millisecond, Timeout: time.Second}

	require.NoError(t, p.WaitUntilAbsent(testCtx(), DefaultTarget))
	assert.Equal(t, 2, table.calls)
}

func TestPoller_ParentDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(testCtx(), 20*time.Millisecond)
	defer cancel()

	table := &scriptedTable{answers: []Presence{Present}}
	p := &Poller{Table: table, Interval: 200 * time.Millisecond}

	err := p.WaitUntilAbsent(ctx, DefaultTarget)
	require.ErrorIs(t, err, ErrPollCancelled)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, errStillRunning)
}

func TestPoller_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(testCtx())
	defer cancel()

	table := &scriptedTable{
		answers: []Presence{Present},
		onQuery: func(call int) {
			if call == 3 {
				cancel()
			}
		},
	}
	p := &Poller{Table: table, Interval: time.Millisecond}

	err := p.WaitUntilAbsent(ctx, DefaultTarget)
	require.ErrorIs(t, err, ErrPollCancelled)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, table.calls)
}

func TestPoller_ZeroIntervalUsesDefault(t *testing.T) {
	table := &scriptedTable{answers: []Presence{Absent}}
	p := &Poller{Table: table}

	require.NoError(t, p.WaitUntilAbsent(testCtx(), DefaultTarget))
}
