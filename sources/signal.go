// File: sources/signal.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sources

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/evsource/api"
)

// SignalSource is a handle to an OS signal registration. It dispatches
// once per delivered occurrence until removed.
type SignalSource struct {
	Source[api.SignalEvent]
}

// AddSignal registers interest in deliveries of sig and escrows the
// handler.
func AddSignal(reg api.Registrar, sig unix.Signal, h api.Handler[api.SignalEvent]) (*SignalSource, error) {
	esc := newEscrow(h)
	tok, err := reg.RegisterSignal(int(sig), DispatchSignal, esc)
	if err != nil {
		return nil, fmt.Errorf("register signal %s: %w", unix.SignalName(sig), err)
	}
	return &SignalSource{Source: newSource(reg, tok, esc)}, nil
}

// DispatchSignal is the trampoline the reactor invokes for signal
// sources. The raw number must resolve to a known signal identity: the
// registration layer cannot request an unsupported signal, so a failed
// resolution is an invariant violation.
func DispatchSignal(signal int, data any) {
	guard("signal", func() {
		esc := escrowFrom[api.SignalEvent]("signal", data)
		sig := unix.Signal(signal)
		if unix.SignalName(sig) == "" {
			fatalf("unknown signal %d in signal event source, aborting", signal)
		}
		esc.handler.HandleEvent(api.SignalEvent{Signal: sig})
	})
}
