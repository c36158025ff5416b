package interview

import (
	"context"
	"sort"
	"sync"

	"campushire/internal/schedule/models"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
)

// InMemory implements ports.InterviewStore with a mutex-guarded map.
type InMemory struct {
	mu         sync.RWMutex
	interviews map[id.InterviewID]*models.Interview
}

func NewInMemory() *InMemory {
	return &InMemory{interviews: make(map[id.InterviewID]*models.Interview)}
}

func (s *InMemory) Create(_ context.Context, interview *models.Interview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.interviews[interview.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *interview
	s.interviews[interview.ID] = &clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, interviewID id.InterviewID) (*models.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	interview, exists := s.interviews[interviewID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	clone := *interview
	return &clone, nil
}

func (s *InMemory) ListByCandidate(_ context.Context, candidateID id.CandidateID) ([]*models.Interview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Interview
	for _, interview := range s.interviews {
		if interview.CandidateID == candidateID {
			clone := *interview
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

func (s *InMemory) SetStatus(_ context.Context, interviewID id.InterviewID, status models.InterviewStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	interview, exists := s.interviews[interviewID]
	if !exists {
		return sentinel.ErrNotFound
	}
	interview.Status = status
	return nil
}
