// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime dispatch counters for loop-level monitoring.
// Exposes counters in a thread-safe map with dynamic registration.

package control

import (
	"sync"
	"time"
)

// Counter keys maintained by the loop.
const (
	CounterPolls          = "loop.polls"
	CounterFDDispatch     = "dispatch.fd"
	CounterTimerDispatch  = "dispatch.timer"
	CounterSignalDispatch = "dispatch.signal"
	CounterIdleDispatch   = "dispatch.idle"
	CounterRegistered     = "registrations.added"
	CounterUnregistered   = "registrations.removed"
)

// MetricsRegistry holds monotonically increasing counters.
type MetricsRegistry struct {
	mu       sync.RWMutex
	counters map[string]uint64
	updated  time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		counters: make(map[string]uint64),
	}
}

// Inc increments a counter key by one.
func (mr *MetricsRegistry) Inc(key string) {
	mr.Add(key, 1)
}

// Add increments a counter key by delta.
func (mr *MetricsRegistry) Add(key string, delta uint64) {
	mr.mu.Lock()
	mr.counters[key] += delta
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Get returns the current value of a counter key.
func (mr *MetricsRegistry) Get(key string) uint64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.counters[key]
}

// Snapshot returns a copy of all counters.
func (mr *MetricsRegistry) Snapshot() map[string]uint64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]uint64, len(mr.counters))
	for k, v := range mr.counters {
		out[k] = v
	}
	return out
}

// Updated returns the time of the last counter change.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
