package submission

import (
	"context"
	"sort"
	"sync"

	"campushire/internal/challenge/models"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
)

// InMemory implements ports.SubmissionStore with a mutex-guarded map.
type InMemory struct {
	mu          sync.RWMutex
	submissions map[id.SubmissionID]*models.Submission
}

func NewInMemory() *InMemory {
	return &InMemory{submissions: make(map[id.SubmissionID]*models.Submission)}
}

func (s *InMemory) Create(_ context.Context, submission *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.submissions[submission.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *submission
	s.submissions[submission.ID] = &clone
	return nil
}

func (s *InMemory) ListByCandidate(_ context.Context, candidateID id.CandidateID) ([]*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Submission
	for _, submission := range s.submissions {
		if submission.CandidateID == candidateID {
			clone := *submission
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

func (s *InMemory) HasPassed(_ context.Context, candidateID id.CandidateID, challengeID id.ChallengeID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, submission := range s.submissions {
		if submission.CandidateID == candidateID &&
			submission.ChallengeID == challengeID &&
			submission.Verdict == models.VerdictPassed {
			return true, nil
		}
	}
	return false, nil
}
