// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// fd_test.go — readiness decode of the FD dispatch trampoline.
package sources_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/evsource/api"
	"github.com/momentics/evsource/fake"
	"github.com/momentics/evsource/sources"
)

// recorder collects every event a handler receives.
type recorder[E any] struct {
	events []E
}

func (r *recorder[E]) HandleEvent(ev E) { r.events = append(r.events, ev) }

func newSocketpair(t *testing.T) [2]int {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})
	return fds
}

func TestDispatchFDReadiness(t *testing.T) {
	reg := fake.NewRegistrar()
	rec := &recorder[api.FdEvent]{}
	src, err := sources.AddFD(reg, 42, api.InterestRead, rec)
	require.NoError(t, err)

	require.True(t, reg.FireFD(src.Token(), api.ReadinessReadable))
	require.True(t, reg.FireFD(src.Token(), api.ReadinessReadable|api.ReadinessWritable))
	require.True(t, reg.FireFD(src.Token(), api.ReadinessWritable))

	require.Len(t, rec.events, 3)
	require.True(t, rec.events[0].Ready())
	require.Equal(t, 42, rec.events[0].FD)
	require.Equal(t, api.InterestRead, rec.events[0].Mask)
	require.Equal(t, api.InterestRead|api.InterestWrite, rec.events[1].Mask)
	require.Equal(t, api.InterestWrite, rec.events[2].Mask)
}

func TestDispatchFDHangup(t *testing.T) {
	reg := fake.NewRegistrar()
	rec := &recorder[api.FdEvent]{}
	src, err := sources.AddFD(reg, 7, api.InterestRead, rec)
	require.NoError(t, err)

	// hangup outranks readiness, with or without readable bits
	require.True(t, reg.FireFD(src.Token(), api.ReadinessHangup))
	require.True(t, reg.FireFD(src.Token(), api.ReadinessHangup|api.ReadinessReadable))

	require.Len(t, rec.events, 2)
	for _, ev := range rec.events {
		require.False(t, ev.Ready())
		require.ErrorIs(t, ev.Err, api.ErrConnectionAborted)
		require.Equal(t, 7, ev.FD)
	}
}

func TestDispatchFDErrorOutranksHangup(t *testing.T) {
	fds := newSocketpair(t)
	reg := fake.NewRegistrar()
	rec := &recorder[api.FdEvent]{}
	src, err := sources.AddFD(reg, fds[0], api.InterestRead, rec)
	require.NoError(t, err)

	require.True(t, reg.FireFD(src.Token(), api.ReadinessError|api.ReadinessHangup|api.ReadinessReadable))

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	require.False(t, ev.Ready())

	// the error variant reports the pending socket error, never the
	// synthetic hangup classification
	var errno unix.Errno
	require.ErrorAs(t, ev.Err, &errno)
	require.False(t, errors.Is(ev.Err, api.ErrConnectionAborted))
}

func TestFdSourceUpdateMask(t *testing.T) {
	reg := fake.NewRegistrar()
	rec := &recorder[api.FdEvent]{}
	src, err := sources.AddFD(reg, 3, api.InterestRead, rec)
	require.NoError(t, err)

	src.UpdateMask(api.InterestRead | api.InterestWrite)
	require.Equal(t, api.InterestRead|api.InterestWrite, reg.Regs[src.Token()].Interest)

	src.UpdateMask(api.InterestWrite)
	require.Equal(t, api.InterestWrite, reg.Regs[src.Token()].Interest)
}
