// File: api/handler.go
// Package api defines the generic Handler interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Handler processes a single event payload of kind E.
//
// Handlers run synchronously on the thread driving the reactor dispatch
// cycle and must return without blocking. A panic escaping a handler is
// caught at the dispatch boundary and terminates the process.
type Handler[E any] interface {
	HandleEvent(ev E)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc[E any] func(ev E)

// HandleEvent calls f(ev).
func (f HandlerFunc[E]) HandleEvent(ev E) { f(ev) }
