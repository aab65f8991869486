// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/evsource/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, -1, cfg.PollTimeoutMS)
	require.True(t, cfg.DevLog)
	require.Empty(t, cfg.MetricsAddr)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EVSOURCE_POLL_TIMEOUT_MS", "250")
	t.Setenv("EVSOURCE_DEV_LOG", "false")
	t.Setenv("EVSOURCE_METRICS_ADDR", ":9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 250, cfg.PollTimeoutMS)
	require.False(t, cfg.DevLog)
	require.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("EVSOURCE_POLL_TIMEOUT_MS", "-5")

	_, err := config.Load()
	require.Error(t, err)
}
