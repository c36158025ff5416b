package leaderboard

import (
	"context"
	"sort"
	"sync"

	"campushire/internal/challenge/models"
	id "campushire/pkg/domain"
)

// InMemory implements ports.Leaderboard with a mutex-guarded map.
type InMemory struct {
	mu     sync.RWMutex
	points map[id.CandidateID]int
}

func NewInMemory() *InMemory {
	return &InMemory{points: make(map[id.CandidateID]int)}
}

func (s *InMemory) Award(_ context.Context, candidateID id.CandidateID, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[candidateID] += points
	return nil
}

func (s *InMemory) Top(_ context.Context, n int) ([]models.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]models.LeaderboardEntry, 0, len(s.points))
	for candidateID, points := range s.points {
		entries = append(entries, models.LeaderboardEntry{CandidateID: candidateID, Points: points})
	}
	// Ties break on candidate ID so ordering stays deterministic.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].CandidateID.String() < entries[j].CandidateID.String()
	})

	if n < len(entries) {
		entries = entries[:n]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
