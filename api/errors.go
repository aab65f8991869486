// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error values shared by registrar implementations and sources.

package api

import "errors"

var (
	// ErrConnectionAborted is carried by FdEvent.Err when the reactor
	// reports a hangup without a pending socket error.
	ErrConnectionAborted = errors.New("connection aborted")

	// ErrUnknownToken indicates a registrar call with a token it never
	// issued or has already released.
	ErrUnknownToken = errors.New("unknown registration token")

	// ErrWrongSourceKind indicates a kind-specific update applied to a
	// registration of a different kind.
	ErrWrongSourceKind = errors.New("operation not valid for this source kind")

	// ErrLoopClosed indicates use of a registrar after Close.
	ErrLoopClosed = errors.New("event loop is closed")

	// ErrNotSupported indicates the platform has no loop implementation.
	ErrNotSupported = errors.New("operation not supported on this platform")
)
