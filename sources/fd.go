// File: sources/fd.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// File descriptor sources: registration, interest updates and the FD
// dispatch trampoline decoding raw readiness bits into typed events.

package sources

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/momentics/evsource/api"
)

// FdSource is a handle to a file descriptor registration. It dispatches
// every time the descriptor matches the registered interest, until
// removed.
type FdSource struct {
	Source[api.FdEvent]
}

// AddFD registers fd with the given interest set and escrows the handler
// for the registration's lifetime.
func AddFD(reg api.Registrar, fd int, interest api.FdInterest, h api.Handler[api.FdEvent]) (*FdSource, error) {
	esc := newEscrow(h)
	tok, err := reg.RegisterFD(fd, interest, DispatchFD, esc)
	if err != nil {
		return nil, fmt.Errorf("register fd %d: %w", fd, err)
	}
	return &FdSource{Source: newSource(reg, tok, esc)}, nil
}

// UpdateMask changes the interest set of the live registration without
// touching the escrowed handler. Calling it on a stale token is fatal.
func (s *FdSource) UpdateMask(interest api.FdInterest) {
	s.live("UpdateMask")
	if err := s.reg.UpdateFDMask(s.tok, interest); err != nil {
		fatalf("UpdateMask on source (token %d) failed: %v, aborting", s.tok, err)
	}
}

// DispatchFD is the trampoline the reactor invokes for FD sources.
//
// Decode priority is first match wins: the error bit outranks the hangup
// bit, which outranks readability/writability. This order is part of the
// contract with handler code, mirroring how composite reactor states are
// reported.
func DispatchFD(fd int, readiness uint32, data any) {
	guard("fd", func() {
		esc := escrowFrom[api.FdEvent]("fd", data)
		switch {
		case readiness&api.ReadinessError != 0:
			code, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
			if err != nil {
				fatalf("querying pending error on fd %d failed: %v, aborting", fd, err)
			}
			esc.handler.HandleEvent(api.FdEvent{FD: fd, Err: unix.Errno(code)})
		case readiness&api.ReadinessHangup != 0:
			esc.handler.HandleEvent(api.FdEvent{FD: fd, Err: api.ErrConnectionAborted})
		default:
			var mask api.FdInterest
			if readiness&api.ReadinessReadable != 0 {
				mask |= api.InterestRead
			}
			if readiness&api.ReadinessWritable != 0 {
				mask |= api.InterestWrite
			}
			esc.handler.HandleEvent(api.FdEvent{FD: fd, Mask: mask})
		}
	})
}
