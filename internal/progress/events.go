// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"

	"github.com/matt-FFFFFF/undertasker/internal/classify"
)

// Event is a state change of one lane entry.
type Event struct {
	Lane      classify.Category
	Index     int // position in the lane, zero based
	Command   string
	State     State
	Err       error // set for Failed and Skipped
	Timestamp time.Time
}

// NewEvent returns an Event stamped with the current time.
func NewEvent(lane classify.Category, index int, command string, state State) Event {
	return Event{
		Lane:      lane,
		Index:     index,
		Command:   command,
		State:     state,
		Timestamp: time.Now(),
	}
}

// WithErr returns a copy of e carrying err.
func (e Event) WithErr(err error) Event {
	e.Err = err
	return e
}

// State is the position of an entry in the lane state machine.
//
// Windows actions that are followed by another one walk
// Idle, Spawned, WaitedForShellExit, Polling, ConfirmedClosed.
// Every other entry goes from Spawned straight to Dispatched.
type State int

const (
	// Idle means the entry has not been started.
	Idle State = iota
	// Spawned means the process was created.
	Spawned
	// WaitedForShellExit means the intermediary shell has exited.
	WaitedForShellExit
	// Polling means the launcher is waiting for the target process to go away.
	Polling
	// ConfirmedClosed means the target process is gone and the next entry may start.
	ConfirmedClosed
	// Dispatched means the process was started and left to run on its own.
	Dispatched
	// Failed means the entry could not be started or its wait failed.
	Failed
	// Skipped means the entry was never started.
	Skipped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Spawned:
		return "spawned"
	case WaitedForShellExit:
		return "waited for shell exit"
	case Polling:
		return "polling"
	case ConfirmedClosed:
		return "confirmed closed"
	case Dispatched:
		return "dispatched"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further events follow for the entry.
func (s State) Terminal() bool {
	switch s {
	case ConfirmedClosed, Dispatched, Failed, Skipped:
		return true
	default:
		return false
	}
}

// Reporter is the interface for sending progress events.
// Report must not block the launcher.
type Reporter interface {
	Report(event Event)
	Close()
}

// Listener receives events forwarded by ChannelReporter.Listen.
type Listener interface {
	OnEvent(event Event)
}

// NullReporter drops every event.
type NullReporter struct{}

// Report implements Reporter.
func (NullReporter) Report(Event) {}

// Close implements Reporter.
func (NullReporter) Close() {}

// NewNullReporter returns a Reporter that does nothing.
func NewNullReporter() Reporter {
	return NullReporter{}
}
