// File: logging/logging.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package logging constructs the zerolog loggers used by programs built
// on this module.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New initializes a new zerolog.Logger.
// 'devMode' enables human-readable console logging.
func New(devMode bool) zerolog.Logger {
	if devMode {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		return zerolog.New(consoleWriter).With().Timestamp().Logger()
	}
	// JSON output for production
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
