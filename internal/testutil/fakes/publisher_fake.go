package fakes

import (
	"context"
	"sync"

	"github.com/madsbk/sqlbridge/internal/models"
)

// FakePublisher records audit events in memory.
type FakePublisher struct {
	mu     sync.Mutex
	events []models.AuditEvent

	Err error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) Publish(_ context.Context, event models.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.events = append(f.events, event)
	return nil
}

// Events returns a copy of the published events.
func (f *FakePublisher) Events() []models.AuditEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.AuditEvent, len(f.events))
	copy(out, f.events)
	return out
}
