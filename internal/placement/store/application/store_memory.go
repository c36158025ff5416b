package application

import (
	"context"
	"sort"
	"sync"

	"campushire/internal/placement/models"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
)

// InMemory implements ports.ApplicationStore with a mutex-guarded map and a
// (candidate, role) uniqueness index.
type InMemory struct {
	mu           sync.RWMutex
	applications map[id.ApplicationID]*models.Application
	byPair       map[pairKey]id.ApplicationID
}

type pairKey struct {
	candidate id.CandidateID
	role      id.RoleID
}

func NewInMemory() *InMemory {
	return &InMemory{
		applications: make(map[id.ApplicationID]*models.Application),
		byPair:       make(map[pairKey]id.ApplicationID),
	}
}

func (s *InMemory) Create(_ context.Context, application *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{application.CandidateID, application.RoleID}
	if _, exists := s.byPair[key]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.applications[application.ID]; exists {
		return sentinel.ErrConflict
	}

	clone := *application
	s.applications[application.ID] = &clone
	s.byPair[key] = application.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, applicationID id.ApplicationID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	application, exists := s.applications[applicationID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	clone := *application
	return &clone, nil
}

func (s *InMemory) FindByCandidateAndRole(_ context.Context, candidateID id.CandidateID, roleID id.RoleID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appID, exists := s.byPair[pairKey{candidateID, roleID}]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	clone := *s.applications[appID]
	return &clone, nil
}

func (s *InMemory) ListByCandidate(_ context.Context, candidateID id.CandidateID) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Application
	for _, application := range s.applications {
		if application.CandidateID == candidateID {
			clone := *application
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})
	return out, nil
}

func (s *InMemory) ListByRole(_ context.Context, roleID id.RoleID) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Application
	for _, application := range s.applications {
		if application.RoleID == roleID {
			clone := *application
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QueueRank < out[j].QueueRank
	})
	return out, nil
}

// Execute holds the write lock across validate and mutate so concurrent
// transitions serialize.
func (s *InMemory) Execute(_ context.Context, applicationID id.ApplicationID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	application, exists := s.applications[applicationID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(application); err != nil {
		return nil, err
	}
	mutate(application)

	clone := *application
	return &clone, nil
}
