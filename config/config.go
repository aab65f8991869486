// File: config/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package config loads the runtime settings of programs driving an
// event loop. The sources and loop packages themselves take no
// configuration.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the settings of an event-loop daemon.
type Config struct {
	// PollTimeoutMS bounds each dispatch cycle; -1 blocks until an
	// event arrives.
	PollTimeoutMS int
	// DevLog enables human-readable console logging.
	DevLog bool
	// MetricsAddr is the listen address for the Prometheus endpoint;
	// empty disables it.
	MetricsAddr string
}

// Load reads configuration from environment variables, with an optional
// .env file for local development.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine; rely on OS-set env vars.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	if err := viper.BindEnv("poll.timeout_ms", "EVSOURCE_POLL_TIMEOUT_MS"); err != nil {
		return nil, fmt.Errorf("could not bind poll.timeout_ms: %w", err)
	}
	if err := viper.BindEnv("log.dev", "EVSOURCE_DEV_LOG"); err != nil {
		return nil, fmt.Errorf("could not bind log.dev: %w", err)
	}
	if err := viper.BindEnv("metrics.addr", "EVSOURCE_METRICS_ADDR"); err != nil {
		return nil, fmt.Errorf("could not bind metrics.addr: %w", err)
	}

	viper.SetDefault("poll.timeout_ms", -1)
	viper.SetDefault("log.dev", true)
	viper.SetDefault("metrics.addr", "")

	cfg := Config{
		PollTimeoutMS: viper.GetInt("poll.timeout_ms"),
		DevLog:        viper.GetBool("log.dev"),
		MetricsAddr:   viper.GetString("metrics.addr"),
	}

	if cfg.PollTimeoutMS < -1 {
		return nil, fmt.Errorf("EVSOURCE_POLL_TIMEOUT_MS must be >= -1, got %d", cfg.PollTimeoutMS)
	}
	return &cfg, nil
}
