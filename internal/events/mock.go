package events

import (
	"context"
	"sync"
)

// MockPublisher records published events for assertions in tests.
type MockPublisher struct {
	mu     sync.Mutex
	events []OrderEvent

	// PublishErr, when set, is returned from PublishOrderEvent.
	PublishErr error
}

func (m *MockPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockPublisher) Close() {}

// Events returns a copy of everything published so far.
func (m *MockPublisher) Events() []OrderEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]OrderEvent, len(m.events))
	copy(out, m.events)
	return out
}
