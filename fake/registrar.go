// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

// Package fake provides test doubles for the api contracts.
package fake

import (
	"github.com/momentics/evsource/api"
)

// Kind discriminates fake registrations.
type Kind int

const (
	KindFD Kind = iota
	KindTimer
	KindSignal
	KindIdle
)

// Registration records one Register* call.
type Registration struct {
	Kind     Kind
	Token    api.Token
	FD       int
	Interest api.FdInterest
	Signal   int
	DelayMS  int
	Removed  bool

	fdCB     api.FDCallback
	timerCB  api.TimerCallback
	signalCB api.SignalCallback
	idleCB   api.IdleCallback
	data     any
}

// Registrar is an in-memory api.Registrar double. It records every call
// and can fire registered callbacks on demand, standing in for the
// reactor's dispatch cycle.
type Registrar struct {
	next uint64

	// Regs holds every registration ever made, keyed by token. Removed
	// registrations stay in the map with Removed set.
	Regs map[api.Token]*Registration

	// Unregistered lists tokens passed to Unregister, in call order.
	Unregistered []api.Token
}

var _ api.Registrar = (*Registrar)(nil)

// NewRegistrar creates an empty fake registrar.
func NewRegistrar() *Registrar {
	return &Registrar{Regs: make(map[api.Token]*Registration)}
}

func (r *Registrar) add(reg *Registration) api.Token {
	r.next++
	reg.Token = api.Token(r.next)
	r.Regs[reg.Token] = reg
	return reg.Token
}

// RegisterFD implements api.Registrar.
func (r *Registrar) RegisterFD(fd int, interest api.FdInterest, cb api.FDCallback, data any) (api.Token, error) {
	return r.add(&Registration{Kind: KindFD, FD: fd, Interest: interest, fdCB: cb, data: data}), nil
}

// RegisterTimer implements api.Registrar.
func (r *Registrar) RegisterTimer(cb api.TimerCallback, data any) (api.Token, error) {
	return r.add(&Registration{Kind: KindTimer, timerCB: cb, data: data}), nil
}

// RegisterSignal implements api.Registrar.
func (r *Registrar) RegisterSignal(signal int, cb api.SignalCallback, data any) (api.Token, error) {
	return r.add(&Registration{Kind: KindSignal, Signal: signal, signalCB: cb, data: data}), nil
}

// RegisterIdle implements api.Registrar.
func (r *Registrar) RegisterIdle(cb api.IdleCallback, data any) (api.Token, error) {
	return r.add(&Registration{Kind: KindIdle, idleCB: cb, data: data}), nil
}

// Unregister implements api.Registrar.
func (r *Registrar) Unregister(tok api.Token) error {
	reg, ok := r.Regs[tok]
	if !ok || reg.Removed {
		return api.ErrUnknownToken
	}
	reg.Removed = true
	r.Unregistered = append(r.Unregistered, tok)
	return nil
}

// UpdateFDMask implements api.Registrar.
func (r *Registrar) UpdateFDMask(tok api.Token, interest api.FdInterest) error {
	reg, ok := r.Regs[tok]
	if !ok || reg.Removed {
		return api.ErrUnknownToken
	}
	if reg.Kind != KindFD {
		return api.ErrWrongSourceKind
	}
	reg.Interest = interest
	return nil
}

// UpdateTimerDelay implements api.Registrar.
func (r *Registrar) UpdateTimerDelay(tok api.Token, delayMS int) error {
	reg, ok := r.Regs[tok]
	if !ok || reg.Removed {
		return api.ErrUnknownToken
	}
	if reg.Kind != KindTimer {
		return api.ErrWrongSourceKind
	}
	reg.DelayMS = delayMS
	return nil
}

// FireFD invokes the FD callback as the reactor would. Removed
// registrations are never dispatched; the return value reports whether
// the callback ran.
func (r *Registrar) FireFD(tok api.Token, readiness uint32) bool {
	reg, ok := r.Regs[tok]
	if !ok || reg.Removed || reg.Kind != KindFD {
		return false
	}
	reg.fdCB(reg.FD, readiness, reg.data)
	return true
}

// FireTimer invokes the timer callback once, as on expiry.
func (r *Registrar) FireTimer(tok api.Token) bool {
	reg, ok := r.Regs[tok]
	if !ok || reg.Removed || reg.Kind != KindTimer {
		return false
	}
	reg.timerCB(reg.data)
	return true
}

// FireSignal invokes the signal callback with the registered signal.
func (r *Registrar) FireSignal(tok api.Token) bool {
	reg, ok := r.Regs[tok]
	if !ok || reg.Removed || reg.Kind != KindSignal {
		return false
	}
	reg.signalCB(reg.Signal, reg.data)
	return true
}

// FireIdle invokes the idle callback. The fake deliberately allows
// firing the same idle registration repeatedly so tests can exercise
// the trampoline's at-most-once guarantee.
func (r *Registrar) FireIdle(tok api.Token) bool {
	reg, ok := r.Regs[tok]
	if !ok || reg.Removed || reg.Kind != KindIdle {
		return false
	}
	reg.idleCB(reg.data)
	return true
}

// UnregisterCalls counts how many times tok was passed to Unregister.
func (r *Registrar) UnregisterCalls(tok api.Token) int {
	n := 0
	for _, t := range r.Unregistered {
		if t == tok {
			n++
		}
	}
	return n
}
