// Package broadcast fans placement events out to live dashboard consumers.
// The Broadcaster is injected into the placement effects service so handlers
// never touch a process-global channel, and tests can swap in Memory.
package broadcast

import (
	"context"
	"sync"
)

// Channel is the pub/sub channel dashboard gateways subscribe to.
const Channel = "placement_update"

// Window caps the rolling recent-placements list shown on the live ticker.
const Window = 20

// Event is the payload pushed on every confirmed placement.
type Event struct {
	StudentName string  `json:"studentName"`
	Department  string  `json:"department"`
	Company     string  `json:"company"`
	Package     float64 `json:"package"` // LPA
}

// Broadcaster publishes placement events and serves the recent window.
// Implementations are best-effort: callers log failures and move on.
type Broadcaster interface {
	PlacementUpdate(ctx context.Context, ev Event) error
	Recent(ctx context.Context) ([]Event, error)
}

// Noop discards every event. Used when no Redis is configured.
type Noop struct{}

// PlacementUpdate discards the event.
func (Noop) PlacementUpdate(ctx context.Context, ev Event) error { return nil }

// Recent returns an empty window.
func (Noop) Recent(ctx context.Context) ([]Event, error) { return nil, nil }

// Memory keeps events in process, most recent first. Used in tests.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

// PlacementUpdate prepends the event to the in-memory window.
func (m *Memory) PlacementUpdate(ctx context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append([]Event{ev}, m.events...)
	if len(m.events) > Window {
		m.events = m.events[:Window]
	}
	return nil
}

// Recent returns a copy of the current window.
func (m *Memory) Recent(ctx context.Context) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out, nil
}
