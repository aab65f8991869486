// File: api/registrar.go
// Author: momentics <momentics@gmail.com>
//
// Defines the abstract registration surface of the reactor event loop
// consumed by the sources package. Implementations multiplex file
// descriptors, timers, signals and idle callbacks and invoke the
// registered callback from their dispatch cycle.

package api

// Token is an opaque handle identifying an active registration inside
// the reactor. Tokens are minted by the Registrar and are meaningless to
// anyone else.
type Token uint64

// Callback signatures invoked by the reactor during dispatch. The data
// word is the value supplied at registration, handed back untouched.
type (
	// FDCallback receives the descriptor and the raw readiness bits.
	FDCallback func(fd int, readiness uint32, data any)

	// TimerCallback is invoked once per timer expiry.
	TimerCallback func(data any)

	// SignalCallback receives the raw OS signal number.
	SignalCallback func(signal int, data any)

	// IdleCallback is invoked at most once, when the loop has no other
	// pending work.
	IdleCallback func(data any)
)

// Registrar is the registration contract of a reactor event loop.
//
// All methods are single-threaded with respect to the loop's dispatch
// cycle: callbacks never run concurrently with each other or with calls
// into the Registrar made from the dispatching thread.
type Registrar interface {
	// RegisterFD watches fd for the given interest set.
	RegisterFD(fd int, interest FdInterest, cb FDCallback, data any) (Token, error)

	// RegisterTimer adds a disarmed one-shot timer; arm it through
	// UpdateTimerDelay.
	RegisterTimer(cb TimerCallback, data any) (Token, error)

	// RegisterSignal watches for deliveries of the given OS signal.
	RegisterSignal(signal int, cb SignalCallback, data any) (Token, error)

	// RegisterIdle schedules cb to run once when the loop goes idle.
	RegisterIdle(cb IdleCallback, data any) (Token, error)

	// Unregister removes an active registration. Callers invoke it at
	// most once per token; failure on a live token indicates a broken
	// invariant, not a recoverable condition.
	Unregister(tok Token) error

	// UpdateFDMask changes the interest set of a live FD registration.
	UpdateFDMask(tok Token, interest FdInterest) error

	// UpdateTimerDelay arms the timer to fire once after delayMS
	// milliseconds. A delay of zero disarms it.
	UpdateTimerDelay(tok Token, delayMS int) error
}
