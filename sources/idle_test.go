// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// idle_test.go — shared ownership lifecycle of idle sources.
package sources_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/evsource/api"
	"github.com/momentics/evsource/fake"
	"github.com/momentics/evsource/sources"
)

// Scenario A: removed before any firing. The registration side still
// holds its share, so Remove must unregister exactly once.
func TestIdleRemoveBeforeDispatch(t *testing.T) {
	reg := fake.NewRegistrar()
	rec := &recorder[api.IdleEvent]{}
	src, err := sources.AddIdle(reg, rec)
	require.NoError(t, err)
	tok := src.Token()

	got := src.Remove()
	require.Same(t, rec, got)
	require.Equal(t, 1, reg.UnregisterCalls(tok))
	require.Empty(t, rec.events)

	// the registration side is gone; the reactor no longer dispatches it
	require.False(t, reg.FireIdle(tok))
}

// Scenario B: removed after the single firing. The trampoline already
// consumed the registration side, so Remove must not unregister.
func TestIdleRemoveAfterDispatch(t *testing.T) {
	reg := fake.NewRegistrar()
	rec := &recorder[api.IdleEvent]{}
	src, err := sources.AddIdle(reg, rec)
	require.NoError(t, err)
	tok := src.Token()

	require.True(t, reg.FireIdle(tok))
	require.Len(t, rec.events, 1)

	got := src.Remove()
	require.Same(t, rec, got)
	require.Zero(t, reg.UnregisterCalls(tok))
}

// An idle source fires at most once even when the reactor (incorrectly)
// signals the same registration again.
func TestIdleDispatchAtMostOnce(t *testing.T) {
	reg := fake.NewRegistrar()
	rec := &recorder[api.IdleEvent]{}
	src, err := sources.AddIdle(reg, rec)
	require.NoError(t, err)

	require.True(t, reg.FireIdle(src.Token()))
	require.True(t, reg.FireIdle(src.Token()))
	require.True(t, reg.FireIdle(src.Token()))
	require.Len(t, rec.events, 1)

	got := src.Remove()
	require.Same(t, rec, got)
	require.Zero(t, reg.UnregisterCalls(src.Token()))
}
