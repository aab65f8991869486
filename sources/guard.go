// File: sources/guard.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sources

// guard runs fn and converts any panic into a logged process abort.
// Trampolines are invoked from the reactor's dispatch frames, which must
// never be unwound through.
func guard(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Fatal().
				Str("source", kind).
				Interface("panic", r).
				Msg("handler panicked during dispatch, aborting")
		}
	}()
	fn()
}
