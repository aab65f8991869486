// File: sources/logger.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sources

import (
	"os"

	"github.com/rs/zerolog"
)

// logger emits the diagnostics of this package. Fatal conditions log
// through it and then terminate the process.
var logger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "evsource").Logger()

// SetLogger replaces the package logger. Call it before registering any
// source; the package is single-threaded with the dispatch cycle and the
// logger is not guarded.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// fatalf logs a diagnostic and terminates the process. Used for every
// unrecoverable condition: continuing on corrupted dispatch state is
// worse than halting.
func fatalf(format string, args ...any) {
	logger.Fatal().Msgf(format, args...)
}
