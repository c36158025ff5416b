package challenge

import (
	"context"
	"sort"
	"sync"

	"campushire/internal/challenge/models"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
)

// InMemory implements ports.ChallengeStore with a mutex-guarded map.
type InMemory struct {
	mu         sync.RWMutex
	challenges map[id.ChallengeID]*models.Challenge
}

func NewInMemory() *InMemory {
	return &InMemory{challenges: make(map[id.ChallengeID]*models.Challenge)}
}

func (s *InMemory) Create(_ context.Context, challenge *models.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.challenges[challenge.ID]; exists {
		return sentinel.ErrConflict
	}
	s.challenges[challenge.ID] = cloneChallenge(challenge)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, challengeID id.ChallengeID) (*models.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	challenge, exists := s.challenges[challengeID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return cloneChallenge(challenge), nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Challenge, 0, len(s.challenges))
	for _, challenge := range s.challenges {
		out = append(out, cloneChallenge(challenge))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// cloneChallenge copies the record including its test case slice so callers
// can never mutate stored state through a returned pointer.
func cloneChallenge(c *models.Challenge) *models.Challenge {
	clone := *c
	clone.TestCases = append([]models.TestCase(nil), c.TestCases...)
	return &clone
}
