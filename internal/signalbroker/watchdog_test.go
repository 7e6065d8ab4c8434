// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/matt-FFFFFF/undertasker/internal/ctxlog"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type exitRecorder struct {
	mu    sync.Mutex
	codes []int
}

func (r *exitRecorder) exit(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codes = append(r.codes, code)
}

func (r *exitRecorder) calls() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]int(nil), r.codes...)
}

func startWatch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) *sync.WaitGroup {
	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		Watch(ctx, sigCh, cancel)
	}()

	return &wg
}

func TestWatch_FirstSignalCancels(t *testing.T) {
	rec := &exitRecorder{}
	stubs := gostub.Stub(&Exit, rec.exit)
	defer stubs.Reset()

	ctx, cancel := context.WithCancel(ctxlog.New(context.Background(), nil))
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	wg := startWatch(ctx, sigCh, cancel)

	sigCh <- os.Interrupt

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context should be cancelled after the first signal")
	}

	close(sigCh)
	wg.Wait()
	assert.Empty(t, rec.calls())
}

func TestWatch_SecondSignalExits(t *testing.T) {
	rec := &exitRecorder{}
	stubs := gostub.Stub(&Exit, rec.exit)
	defer stubs.Reset()

	ctx, cancel := context.WithCancel(ctxlog.New(context.Background(), nil))
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	wg := startWatch(ctx, sigCh, cancel)

	sigCh <- os.Interrupt
	sigCh <- os.Interrupt

	wg.Wait()
	assert.Equal(t, []int{ForcedExitCode}, rec.calls())
}

func TestWatch_DifferentSignalsDoNotExit(t *testing.T) {
	rec := &exitRecorder{}
	stubs := gostub.Stub(&Exit, rec.exit)
	defer stubs.Reset()

	ctx, cancel := context.WithCancel(ctxlog.New(context.Background(), nil))
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	wg := startWatch(ctx, sigCh, cancel)

	sigCh <- os.Interrupt
	sigCh <- syscall.SIGTERM

	time.Sleep(50 * time.Millisecond)
	close(sigCh)
	wg.Wait()

	assert.Empty(t, rec.calls())
	assert.Error(t, ctx.Err())
}

func TestWatch_ReturnsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	wg := startWatch(ctx, sigCh, cancel)

	cancel()
	wg.Wait()
}

func TestNew_StopUnsubscribes(t *testing.T) {
	ch, stop := New(context.Background(), syscall.SIGTERM)
	assert.NotNil(t, ch)
	stop()
}
