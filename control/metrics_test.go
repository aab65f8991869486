// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package control_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/evsource/control"
)

func TestMetricsRegistryCounters(t *testing.T) {
	mr := control.NewMetricsRegistry()
	require.Zero(t, mr.Get(control.CounterPolls))

	mr.Inc(control.CounterPolls)
	mr.Add(control.CounterPolls, 2)
	require.Equal(t, uint64(3), mr.Get(control.CounterPolls))

	mr.Inc(control.CounterFDDispatch)
	snap := mr.Snapshot()
	require.Equal(t, uint64(3), snap[control.CounterPolls])
	require.Equal(t, uint64(1), snap[control.CounterFDDispatch])
	require.False(t, mr.Updated().IsZero())
}

func TestPrometheusHandler(t *testing.T) {
	mr := control.NewMetricsRegistry()
	mr.Inc(control.CounterIdleDispatch)

	srv := httptest.NewServer(control.Handler(mr))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "evsource_events_total")
	require.Contains(t, string(body), `counter="dispatch.idle"`)
}
