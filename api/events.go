// File: api/events.go
// Package api defines event payload types delivered to source handlers.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import (
	"strings"

	"golang.org/x/sys/unix"
)

// Raw readiness bits as reported by the reactor to the FD trampoline.
// The error and hangup bits outrank readability/writability during decode.
const (
	ReadinessReadable uint32 = 0x01
	ReadinessWritable uint32 = 0x02
	ReadinessHangup   uint32 = 0x04
	ReadinessError    uint32 = 0x08
)

// FdInterest is a bitset of readiness conditions a file descriptor source
// wants to be dispatched for.
type FdInterest uint32

const (
	// InterestRead requests dispatch when the descriptor is readable.
	InterestRead FdInterest = 0x01
	// InterestWrite requests dispatch when the descriptor is writable.
	InterestWrite FdInterest = 0x02
)

// Has reports whether all bits of other are set in i.
func (i FdInterest) Has(other FdInterest) bool {
	return i&other == other
}

// String renders the interest set, e.g. "READ|WRITE".
func (i FdInterest) String() string {
	var parts []string
	if i.Has(InterestRead) {
		parts = append(parts, "READ")
	}
	if i.Has(InterestWrite) {
		parts = append(parts, "WRITE")
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// FdEvent is the payload delivered to file descriptor handlers.
//
// It carries one of two variants: a readiness report (Err nil, Mask holds
// the ready conditions) or an error report (Err non-nil, Mask zero). Error
// events are emitted when the reactor flags the descriptor with the error
// or hangup bits; a hangup without a pending socket error is reported as
// ErrConnectionAborted.
type FdEvent struct {
	FD   int
	Mask FdInterest
	Err  error
}

// Ready reports whether the event is a readiness report.
func (e FdEvent) Ready() bool { return e.Err == nil }

// TimerEvent is the payload delivered to timer handlers. Timer expiry
// carries no data beyond the fact that it happened.
type TimerEvent struct{}

// SignalEvent is the payload delivered to signal handlers, wrapping the
// resolved OS signal identity.
type SignalEvent struct {
	Signal unix.Signal
}

// String returns the conventional name of the wrapped signal.
func (e SignalEvent) String() string {
	return unix.SignalName(e.Signal)
}

// IdleEvent is the payload delivered to idle handlers. Idle dispatch
// carries no data.
type IdleEvent struct{}
