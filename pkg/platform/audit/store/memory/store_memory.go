package memory

import (
	"context"
	"sync"

	id "campushire/pkg/domain"
	"campushire/pkg/platform/audit"
)

// InMemoryStore keeps audit events in process memory. Used in tests and as
// the default wiring when Kafka is not configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByCandidate returns events for a candidate in append order.
func (s *InMemoryStore) ListByCandidate(_ context.Context, candidateID id.CandidateID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Event
	for _, event := range s.events {
		if event.CandidateID == candidateID {
			out = append(out, event)
		}
	}
	return out, nil
}

// All returns every stored event in append order.
func (s *InMemoryStore) All(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event(nil), s.events...), nil
}
