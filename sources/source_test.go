// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// source_test.go — removal and control semantics of FD/timer/signal
// source handles.
package sources_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/momentics/evsource/api"
	"github.com/momentics/evsource/fake"
	"github.com/momentics/evsource/sources"
)

func TestTimerDispatchUnbounded(t *testing.T) {
	reg := fake.NewRegistrar()
	rec := &recorder[api.TimerEvent]{}
	src, err := sources.AddTimer(reg, rec)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.True(t, reg.FireTimer(src.Token()))
	}
	require.Len(t, rec.events, 3)
}

func TestTimerRemoveReturnsOriginalHandler(t *testing.T) {
	reg := fake.NewRegistrar()
	rec := &recorder[api.TimerEvent]{}
	src, err := sources.AddTimer(reg, rec)
	require.NoError(t, err)
	tok := src.Token()

	require.True(t, reg.FireTimer(tok))

	got := src.Remove()
	require.Same(t, rec, got)
	require.Equal(t, 1, reg.UnregisterCalls(tok))

	// no further dispatch reaches the handler
	require.False(t, reg.FireTimer(tok))
	require.Len(t, rec.events, 1)
}

func TestTimerSetDelayPassthrough(t *testing.T) {
	reg := fake.NewRegistrar()
	src, err := sources.AddTimer(reg, &recorder[api.TimerEvent]{})
	require.NoError(t, err)

	src.SetDelayMS(250)
	require.Equal(t, 250, reg.Regs[src.Token()].DelayMS)

	// zero disarms
	src.SetDelayMS(0)
	require.Equal(t, 0, reg.Regs[src.Token()].DelayMS)
}

func TestSignalDispatchAndRemove(t *testing.T) {
	reg := fake.NewRegistrar()
	rec := &recorder[api.SignalEvent]{}
	src, err := sources.AddSignal(reg, unix.SIGUSR1, rec)
	require.NoError(t, err)
	tok := src.Token()

	require.True(t, reg.FireSignal(tok))
	require.True(t, reg.FireSignal(tok))
	require.Len(t, rec.events, 2)
	require.Equal(t, unix.SIGUSR1, rec.events[0].Signal)
	require.Equal(t, "SIGUSR1", rec.events[0].String())

	got := src.Remove()
	require.Same(t, rec, got)
	require.Equal(t, 1, reg.UnregisterCalls(tok))
	require.False(t, reg.FireSignal(tok))
	require.Len(t, rec.events, 2)
}

func TestFdRemoveReturnsOriginalHandler(t *testing.T) {
	reg := fake.NewRegistrar()
	rec := &recorder[api.FdEvent]{}
	src, err := sources.AddFD(reg, 5, api.InterestRead, rec)
	require.NoError(t, err)
	tok := src.Token()

	got := src.Remove()
	require.Same(t, rec, got)
	require.Equal(t, 1, reg.UnregisterCalls(tok))
	require.False(t, reg.FireFD(tok, api.ReadinessReadable))
	require.Empty(t, rec.events)
}
