// File: sources/source.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sources

import "github.com/momentics/evsource/api"

// Source pairs a registration token with exclusive ownership of the
// escrowed handler. The registrar owns the underlying OS resource; the
// handle only controls the registration's lifetime. FD, timer and signal
// sources embed Source; idle sources use IdleSource because their
// ownership is shared until the single permitted dispatch.
type Source[E any] struct {
	reg api.Registrar
	tok api.Token
	esc *escrow[E]
}

func newSource[E any](reg api.Registrar, tok api.Token, esc *escrow[E]) Source[E] {
	return Source[E]{reg: reg, tok: tok, esc: esc}
}

// Token returns the registration token held by this handle.
func (s *Source[E]) Token() api.Token {
	return s.tok
}

// Remove unregisters the source and hands the original handler back to
// the caller. No dispatch reaches the handler after Remove returns. The
// handle is spent afterwards; any further call on it is fatal.
func (s *Source[E]) Remove() api.Handler[E] {
	s.live("Remove")
	if err := s.reg.Unregister(s.tok); err != nil {
		fatalf("unregistering live source (token %d) failed: %v, aborting", s.tok, err)
	}
	h := s.esc.handler
	s.esc = nil
	return h
}

// live aborts if the handle was already removed. Control calls on a
// spent handle are programming errors, not recoverable conditions.
func (s *Source[E]) live(op string) {
	if s.esc == nil {
		fatalf("%s called on removed source (token %d), aborting", op, s.tok)
	}
}
