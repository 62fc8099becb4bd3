// Package memory keeps audit events in process memory; the default sink
// when Kafka is not configured, and the one tests assert against.
package memory

import (
	"context"
	"sync"

	"ascent/pkg/platform/audit"
)

type Store struct {
	mu     sync.RWMutex
	events []audit.Event
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.Category == "" {
		event.Category = audit.CategoryOf(event.Action)
	}
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything appended so far.
func (s *Store) Events() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Event, len(s.events))
	copy(out, s.events)
	return out
}
