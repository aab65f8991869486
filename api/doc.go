// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package api defines the contracts shared between event-source handles,
// dispatch trampolines and the reactor loop driving them: the Registrar
// registration surface, raw readiness bits, typed event payloads and the
// generic handler interface.
package api
