// File: sources/idle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Idle sources fire at most once, as soon as the loop has no other
// pending work. Until that single firing (or an explicit removal) the
// escrowed handler has two owners: the live registration and the
// caller's handle. The shared state below tracks the collapse to one.

package sources

import (
	"fmt"

	"github.com/momentics/evsource/api"
)

// idleState is the shared container behind an idle registration. refs
// counts the surviving owners: two while pending, one after the first
// dispatch or after removal releases the registration side.
type idleState struct {
	handler    api.Handler[api.IdleEvent]
	dispatched bool
	refs       int
}

// IdleSource is a handle to an idle registration. Dropping the handle
// does not remove the source; use Remove to reclaim the handler.
type IdleSource struct {
	reg   api.Registrar
	tok   api.Token
	state *idleState
}

// AddIdle registers a one-shot idle callback and escrows the handler in
// a container shared with the registration.
func AddIdle(reg api.Registrar, h api.Handler[api.IdleEvent]) (*IdleSource, error) {
	st := &idleState{handler: h, refs: 2}
	tok, err := reg.RegisterIdle(DispatchIdle, st)
	if err != nil {
		return nil, fmt.Errorf("register idle: %w", err)
	}
	return &IdleSource{reg: reg, tok: tok, state: st}, nil
}

// Token returns the registration token held by this handle.
func (s *IdleSource) Token() api.Token {
	return s.tok
}

// Remove reclaims the handler and returns it to the caller.
//
// If the source has not fired yet, the registration is unregistered
// first and its share of ownership released; if it has fired, the
// registration side already consumed its share and no unregister call
// is made. Either way the handle must be the sole owner at the moment
// of reclaim; any other surviving owner is a programming error.
func (s *IdleSource) Remove() api.Handler[api.IdleEvent] {
	if s.state == nil {
		fatalf("Remove called on removed idle source (token %d), aborting", s.tok)
	}
	st := s.state
	if !st.dispatched {
		if err := s.reg.Unregister(s.tok); err != nil {
			fatalf("unregistering live idle source (token %d) failed: %v, aborting", s.tok, err)
		}
		st.refs--
	}
	if st.refs != 1 {
		fatalf("idle state (token %d) has %d surviving owners at reclaim, want 1, aborting", s.tok, st.refs)
	}
	st.refs--
	s.state = nil
	return st.handler
}

// DispatchIdle is the trampoline the reactor invokes for idle sources.
// It runs the handler at most once per registration, marks the shared
// state dispatched and releases the registration side's ownership. A
// repeated invocation for the same registration is ignored.
func DispatchIdle(data any) {
	guard("idle", func() {
		st, ok := data.(*idleState)
		if !ok || st == nil {
			fatalf("idle dispatch carried corrupted state data (%T), aborting", data)
		}
		if st.dispatched {
			return
		}
		st.handler.HandleEvent(api.IdleEvent{})
		st.dispatched = true
		st.refs--
	})
}
