// Package tick runs the periodic visual sweep that keeps highlight rings and
// movement paths refreshed while an encounter is active.
package tick

import (
	"context"
	"sync"
	"time"
)

// Manager runs a periodic sweep for each registered world. Sweep callbacks
// are invoked sequentially from a single goroutine.
//
// Invariant: all callbacks are invoked at most once per sweep interval.
type Manager struct {
	interval time.Duration
	mu       sync.Mutex
	sweeps   map[string]func()
}

// NewManager returns a manager that fires sweeps every interval.
//
// Precondition: interval must be > 0.
func NewManager(interval time.Duration) *Manager {
	if interval <= 0 {
		panic("tick.NewManager: interval must be > 0")
	}
	return &Manager{
		interval: interval,
		sweeps:   make(map[string]func()),
	}
}

// Register registers a sweep callback for worldID. Replaces any existing
// callback.
func (m *Manager) Register(worldID string, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweeps[worldID] = fn
}

// Unregister removes the sweep callback for worldID.
func (m *Manager) Unregister(worldID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sweeps, worldID)
}

// Start begins the sweep loop. Runs until ctx is cancelled.
//
// Postcondition: all registered sweep callbacks are invoked once per interval.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.mu.Lock()
				callbacks := make(map[string]func(), len(m.sweeps))
				for k, v := range m.sweeps {
					callbacks[k] = v
				}
				m.mu.Unlock()
				for _, fn := range callbacks {
					fn()
				}
			}
		}
	}()
}
