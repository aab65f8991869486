// File: sources/escrow.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package sources

import "github.com/momentics/evsource/api"

// escrow owns a handler for the duration of a registration. Allocating
// it on the heap gives the handler a stable identity that travels through
// the registrar's opaque data word and comes back to the trampoline on
// every dispatch. The escrow is released exactly once: by Remove, or for
// idle sources by the trampoline after the single permitted firing.
type escrow[E any] struct {
	handler api.Handler[E]
}

func newEscrow[E any](h api.Handler[E]) *escrow[E] {
	return &escrow[E]{handler: h}
}

// escrowFrom recovers the typed escrow from a registrar data word. A
// mismatch means the registration plumbing is corrupted.
func escrowFrom[E any](kind string, data any) *escrow[E] {
	esc, ok := data.(*escrow[E])
	if !ok || esc == nil {
		fatalf("%s dispatch carried corrupted escrow data (%T), aborting", kind, data)
	}
	return esc
}
