package testutil

import (
	"context"
	"sync"

	"github.com/lumio/backend/internal/domain/shared"
)

// RecordingPublisher is a shared.EventPublisher that keeps what it is given.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	Err    error
}

// Publish records events and returns Err
func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.Err
}

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []shared.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]shared.DomainEvent(nil), p.events...)
}

// Types returns the recorded event types in order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

// Reset clears recorded events
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

var _ shared.EventPublisher = (*RecordingPublisher)(nil)
