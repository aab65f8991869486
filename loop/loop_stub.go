//go:build !linux
// +build !linux

// File: loop/loop_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package loop

import "github.com/momentics/evsource/api"

// Loop is unavailable on this platform.
type Loop struct{}

// New returns an error for unsupported platforms.
func New() (*Loop, error) {
	return nil, api.ErrNotSupported
}
