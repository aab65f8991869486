// File: sources/timer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sources

import (
	"fmt"

	"github.com/momentics/evsource/api"
)

// TimerSource is a handle to a one-shot timer registration. Each expiry
// yields exactly one dispatch; the timer then stays dormant until
// rearmed through SetDelayMS.
type TimerSource struct {
	Source[api.TimerEvent]
}

// AddTimer registers a disarmed timer and escrows the handler. Arm it
// with SetDelayMS.
func AddTimer(reg api.Registrar, h api.Handler[api.TimerEvent]) (*TimerSource, error) {
	esc := newEscrow(h)
	tok, err := reg.RegisterTimer(DispatchTimer, esc)
	if err != nil {
		return nil, fmt.Errorf("register timer: %w", err)
	}
	return &TimerSource{Source: newSource(reg, tok, esc)}, nil
}

// SetDelayMS arms the timer to fire once after delayMS milliseconds.
// A delay of zero disarms it. Calling it on a stale token is fatal.
func (s *TimerSource) SetDelayMS(delayMS int) {
	s.live("SetDelayMS")
	if err := s.reg.UpdateTimerDelay(s.tok, delayMS); err != nil {
		fatalf("SetDelayMS on source (token %d) failed: %v, aborting", s.tok, err)
	}
}

// DispatchTimer is the trampoline the reactor invokes for timer sources.
// Timer expiry carries no payload.
func DispatchTimer(data any) {
	guard("timer", func() {
		esc := escrowFrom[api.TimerEvent]("timer", data)
		esc.handler.HandleEvent(api.TimerEvent{})
	})
}
