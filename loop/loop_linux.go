//go:build linux
// +build linux

// File: loop/loop_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based event loop implementation.

package loop

import (
	"encoding/binary"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/momentics/evsource/api"
	"github.com/momentics/evsource/control"
)

type entryKind int

const (
	kindFD entryKind = iota
	kindTimer
	kindSignal
	kindIdle
	kindWake
)

// entry is one live registration.
type entry struct {
	kind    entryKind
	tok     api.Token
	fd      int // watched descriptor: user fd or timerfd; -1 otherwise
	signal  int
	removed bool

	fdCB     api.FDCallback
	timerCB  api.TimerCallback
	signalCB api.SignalCallback
	idleCB   api.IdleCallback
	data     any
}

// Loop is an epoll-based reactor event loop. It is single-threaded:
// Dispatch and every Registrar method must be called from the same
// goroutine, and callbacks run synchronously inside Dispatch. Only Wake
// is safe to call from elsewhere.
type Loop struct {
	epfd   int
	wakeFD int

	nextTok uint64
	tokens  map[api.Token]*entry
	byFD    map[int32]*entry
	idles   *queue.Queue

	sigCh      chan os.Signal
	sigMu      sync.Mutex
	sigPending []int
	sigWatch   map[int]int // signal number -> live registration count

	stats  *control.MetricsRegistry
	log    zerolog.Logger
	closed bool
	done   chan struct{}
}

var _ api.Registrar = (*Loop)(nil)

// New creates an event loop ready for registrations.
func New() (*Loop, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	wakeFD, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("eventfd: %w", err)
	}

	l := &Loop{
		epfd:     epfd,
		wakeFD:   wakeFD,
		tokens:   make(map[api.Token]*entry),
		byFD:     make(map[int32]*entry),
		idles:    queue.New(),
		sigCh:    make(chan os.Signal, 64),
		sigWatch: make(map[int]int),
		stats:    control.NewMetricsRegistry(),
		log:      zerolog.Nop(),
		done:     make(chan struct{}),
	}

	l.byFD[int32(wakeFD)] = &entry{kind: kindWake, fd: wakeFD}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(wakeFD)}
	if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, wakeFD, &ev); err != nil {
		unix.Close(wakeFD)
		unix.Close(epfd)
		return nil, fmt.Errorf("epoll ctl add wake fd: %w", err)
	}

	go l.forwardSignals()
	return l, nil
}

// SetLogger installs a logger for debug diagnostics.
func (l *Loop) SetLogger(log zerolog.Logger) {
	l.log = log
}

// Metrics returns the loop's dispatch counter registry.
func (l *Loop) Metrics() *control.MetricsRegistry {
	return l.stats
}

func (l *Loop) mint(e *entry) api.Token {
	l.nextTok++
	e.tok = api.Token(l.nextTok)
	l.tokens[e.tok] = e
	l.stats.Inc(control.CounterRegistered)
	return e.tok
}

// RegisterFD implements api.Registrar.
func (l *Loop) RegisterFD(fd int, interest api.FdInterest, cb api.FDCallback, data any) (api.Token, error) {
	if l.closed {
		return 0, api.ErrLoopClosed
	}
	ev := unix.EpollEvent{Events: epollEvents(interest), Fd: int32(fd)}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return 0, fmt.Errorf("epoll ctl add fd %d: %w", fd, err)
	}
	e := &entry{kind: kindFD, fd: fd, fdCB: cb, data: data}
	l.byFD[int32(fd)] = e
	tok := l.mint(e)
	l.log.Debug().Int("fd", fd).Uint64("token", uint64(tok)).Str("interest", interest.String()).Msg("fd source registered")
	return tok, nil
}

// RegisterTimer implements api.Registrar. The timer starts disarmed.
func (l *Loop) RegisterTimer(cb api.TimerCallback, data any) (api.Token, error) {
	if l.closed {
		return 0, api.ErrLoopClosed
	}
	tfd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_NONBLOCK|unix.TFD_CLOEXEC)
	if err != nil {
		return 0, fmt.Errorf("timerfd create: %w", err)
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(tfd)}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_ADD, tfd, &ev); err != nil {
		unix.Close(tfd)
		return 0, fmt.Errorf("epoll ctl add timerfd: %w", err)
	}
	e := &entry{kind: kindTimer, fd: tfd, timerCB: cb, data: data}
	l.byFD[int32(tfd)] = e
	tok := l.mint(e)
	l.log.Debug().Uint64("token", uint64(tok)).Msg("timer source registered")
	return tok, nil
}

// RegisterSignal implements api.Registrar.
func (l *Loop) RegisterSignal(sig int, cb api.SignalCallback, data any) (api.Token, error) {
	if l.closed {
		return 0, api.ErrLoopClosed
	}
	if unix.SignalName(unix.Signal(sig)) == "" {
		return 0, fmt.Errorf("signal %d: %w", sig, api.ErrNotSupported)
	}
	e := &entry{kind: kindSignal, fd: -1, signal: sig, signalCB: cb, data: data}
	if l.sigWatch[sig] == 0 {
		signal.Notify(l.sigCh, unix.Signal(sig))
	}
	l.sigWatch[sig]++
	tok := l.mint(e)
	l.log.Debug().Str("signal", unix.SignalName(unix.Signal(sig))).Uint64("token", uint64(tok)).Msg("signal source registered")
	return tok, nil
}

// RegisterIdle implements api.Registrar.
func (l *Loop) RegisterIdle(cb api.IdleCallback, data any) (api.Token, error) {
	if l.closed {
		return 0, api.ErrLoopClosed
	}
	e := &entry{kind: kindIdle, fd: -1, idleCB: cb, data: data}
	tok := l.mint(e)
	l.idles.Add(e)
	return tok, nil
}

// Unregister implements api.Registrar.
func (l *Loop) Unregister(tok api.Token) error {
	e, ok := l.tokens[tok]
	if !ok {
		return api.ErrUnknownToken
	}
	delete(l.tokens, tok)
	e.removed = true
	l.stats.Inc(control.CounterUnregistered)

	switch e.kind {
	case kindFD:
		delete(l.byFD, int32(e.fd))
		if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, e.fd, nil); err != nil {
			return fmt.Errorf("epoll ctl del fd %d: %w", e.fd, err)
		}
	case kindTimer:
		delete(l.byFD, int32(e.fd))
		if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_DEL, e.fd, nil); err != nil {
			return fmt.Errorf("epoll ctl del timerfd: %w", err)
		}
		unix.Close(e.fd)
	case kindSignal:
		l.sigWatch[e.signal]--
		if l.sigWatch[e.signal] == 0 {
			delete(l.sigWatch, e.signal)
			signal.Reset(unix.Signal(e.signal))
		}
	case kindIdle:
		// stays in the FIFO; the dispatch pass skips removed entries
	}
	return nil
}

// UpdateFDMask implements api.Registrar.
func (l *Loop) UpdateFDMask(tok api.Token, interest api.FdInterest) error {
	e, ok := l.tokens[tok]
	if !ok {
		return api.ErrUnknownToken
	}
	if e.kind != kindFD {
		return api.ErrWrongSourceKind
	}
	ev := unix.EpollEvent{Events: epollEvents(interest), Fd: int32(e.fd)}
	if err := unix.EpollCtl(l.epfd, unix.EPOLL_CTL_MOD, e.fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl mod fd %d: %w", e.fd, err)
	}
	return nil
}

// UpdateTimerDelay implements api.Registrar. A zero delay disarms the
// timer; expiries are one-shot and never auto-rearm.
func (l *Loop) UpdateTimerDelay(tok api.Token, delayMS int) error {
	e, ok := l.tokens[tok]
	if !ok {
		return api.ErrUnknownToken
	}
	if e.kind != kindTimer {
		return api.ErrWrongSourceKind
	}
	if delayMS < 0 {
		return fmt.Errorf("timer delay must be non-negative, got %d", delayMS)
	}
	spec := unix.ItimerSpec{
		Value: unix.NsecToTimespec(int64(delayMS) * int64(time.Millisecond)),
	}
	if err := unix.TimerfdSettime(e.fd, 0, &spec, nil); err != nil {
		return fmt.Errorf("timerfd settime: %w", err)
	}
	return nil
}

// Dispatch runs one cycle: pending idle callbacks first, then an epoll
// wait bounded by timeoutMS (-1 blocks indefinitely), then the
// callbacks of every ready descriptor and forwarded signal.
func (l *Loop) Dispatch(timeoutMS int) error {
	if l.closed {
		return api.ErrLoopClosed
	}
	l.dispatchIdle()
	if l.idles.Length() > 0 {
		// idle work queued during this cycle; don't go to sleep on it
		timeoutMS = 0
	}

	var events [32]unix.EpollEvent
	n, err := unix.EpollWait(l.epfd, events[:], timeoutMS)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return fmt.Errorf("epoll wait: %w", err)
	}
	l.stats.Inc(control.CounterPolls)

	for i := 0; i < n; i++ {
		e := l.byFD[events[i].Fd]
		if e == nil || e.removed {
			continue
		}
		switch e.kind {
		case kindWake:
			l.drainWake()
			l.dispatchSignals()
		case kindTimer:
			if !l.drainTimer(e.fd) {
				continue
			}
			e.timerCB(e.data)
			l.stats.Inc(control.CounterTimerDispatch)
		case kindFD:
			e.fdCB(e.fd, readinessBits(events[i].Events), e.data)
			l.stats.Inc(control.CounterFDDispatch)
		}
	}
	return nil
}

// dispatchIdle drains the idle FIFO, consuming each registration on its
// single permitted dispatch. Idle callbacks registered while draining
// run in the same pass.
func (l *Loop) dispatchIdle() {
	for l.idles.Length() > 0 {
		e := l.idles.Remove().(*entry)
		if e.removed {
			continue
		}
		e.removed = true
		delete(l.tokens, e.tok)
		e.idleCB(e.data)
		l.stats.Inc(control.CounterIdleDispatch)
	}
}

// dispatchSignals delivers the signal numbers queued by the forwarder
// goroutine. Target entries are snapshotted first: a callback may
// unregister sources mid-cycle.
func (l *Loop) dispatchSignals() {
	l.sigMu.Lock()
	pending := l.sigPending
	l.sigPending = nil
	l.sigMu.Unlock()

	for _, sig := range pending {
		var targets []*entry
		for _, e := range l.tokens {
			if e.kind == kindSignal && e.signal == sig {
				targets = append(targets, e)
			}
		}
		for _, e := range targets {
			if e.removed {
				continue
			}
			e.signalCB(sig, e.data)
			l.stats.Inc(control.CounterSignalDispatch)
		}
	}
}

// forwardSignals moves deliveries from the os/signal channel into the
// pending list and wakes the poller. It is the only code in this
// package running off the dispatch thread.
func (l *Loop) forwardSignals() {
	for {
		select {
		case <-l.done:
			return
		case sig := <-l.sigCh:
			s, ok := sig.(unix.Signal)
			if !ok {
				continue
			}
			l.sigMu.Lock()
			l.sigPending = append(l.sigPending, int(s))
			l.sigMu.Unlock()
			l.wake()
		}
	}
}

// Wake forces a blocked Dispatch call to return. Safe to call from any
// goroutine.
func (l *Loop) Wake() {
	l.wake()
}

func (l *Loop) wake() {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, _ = unix.Write(l.wakeFD, buf[:])
}

func (l *Loop) drainWake() {
	var buf [8]byte
	_, _ = unix.Read(l.wakeFD, buf[:])
}

// drainTimer consumes the expiry count of a timerfd. A false return
// means the expiry was already consumed (spurious wakeup).
func (l *Loop) drainTimer(tfd int) bool {
	var buf [8]byte
	_, err := unix.Read(tfd, buf[:])
	return err == nil
}

// Close releases the loop's resources. Descriptors registered by users
// are left open; timers and internal descriptors are closed.
func (l *Loop) Close() error {
	if l.closed {
		return api.ErrLoopClosed
	}
	l.closed = true
	close(l.done)
	signal.Stop(l.sigCh)
	for _, e := range l.tokens {
		if e.kind == kindTimer {
			unix.Close(e.fd)
		}
	}
	unix.Close(l.wakeFD)
	return unix.Close(l.epfd)
}

func epollEvents(interest api.FdInterest) uint32 {
	var ev uint32
	if interest.Has(api.InterestRead) {
		ev |= unix.EPOLLIN
	}
	if interest.Has(api.InterestWrite) {
		ev |= unix.EPOLLOUT
	}
	return ev
}

// readinessBits translates epoll result bits into the raw readiness
// word consumed by the dispatch trampolines.
func readinessBits(events uint32) uint32 {
	var bits uint32
	if events&unix.EPOLLIN != 0 {
		bits |= api.ReadinessReadable
	}
	if events&unix.EPOLLOUT != 0 {
		bits |= api.ReadinessWritable
	}
	if events&unix.EPOLLHUP != 0 {
		bits |= api.ReadinessHangup
	}
	if events&unix.EPOLLERR != 0 {
		bits |= api.ReadinessError
	}
	return bits
}
