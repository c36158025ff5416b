package candidate

import (
	"context"
	"sync"

	"campushire/internal/placement/models"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
)

// InMemory implements ports.CandidateStore with a mutex-guarded map.
type InMemory struct {
	mu         sync.RWMutex
	candidates map[id.CandidateID]*models.Candidate
}

func NewInMemory() *InMemory {
	return &InMemory{candidates: make(map[id.CandidateID]*models.Candidate)}
}

func (s *InMemory) Create(_ context.Context, candidate *models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.candidates[candidate.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := cloneCandidate(candidate)
	s.candidates[candidate.ID] = clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidate, exists := s.candidates[candidateID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return cloneCandidate(candidate), nil
}

func (s *InMemory) SetFrozen(_ context.Context, candidateID id.CandidateID, frozen bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, exists := s.candidates[candidateID]
	if !exists {
		return sentinel.ErrNotFound
	}
	candidate.Frozen = frozen
	return nil
}

// cloneCandidate copies the record including its skills slice so callers can
// never mutate stored state through a returned pointer.
func cloneCandidate(c *models.Candidate) *models.Candidate {
	clone := *c
	clone.Skills = append([]string(nil), c.Skills...)
	return &clone
}
