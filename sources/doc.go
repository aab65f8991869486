// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package sources implements event-source handles and dispatch trampolines
// on top of a reactor registrar: handler escrow with stable identity, typed
// decode of raw readiness payloads, and exactly-once handler reclamation
// for file descriptor, timer, signal and idle sources.
package sources
