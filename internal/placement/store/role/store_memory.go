package role

import (
	"context"
	"sync"

	"campushire/internal/placement/models"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
)

// InMemory implements ports.RoleStore with a mutex-guarded map. The mutex is
// what makes AdmitApplicant's guard-and-increment atomic.
type InMemory struct {
	mu    sync.RWMutex
	roles map[id.RoleID]*models.Role
}

func NewInMemory() *InMemory {
	return &InMemory{roles: make(map[id.RoleID]*models.Role)}
}

func (s *InMemory) Create(_ context.Context, role *models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.roles[role.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *role
	s.roles[role.ID] = &clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, roleID id.RoleID) (*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role, exists := s.roles[roleID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	clone := *role
	return &clone, nil
}

func (s *InMemory) ListOpen(_ context.Context) ([]*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Role
	for _, role := range s.roles {
		if role.IsOpen() {
			clone := *role
			out = append(out, &clone)
		}
	}
	return out, nil
}

// AdmitApplicant performs the bounded increment under the store lock: the
// capacity recheck and the increment are one critical section, so two racing
// admissions can never both claim the last slot.
func (s *InMemory) AdmitApplicant(_ context.Context, roleID id.RoleID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, exists := s.roles[roleID]
	if !exists {
		return 0, sentinel.ErrNotFound
	}
	if !role.IsOpen() {
		return 0, sentinel.ErrInvalidState
	}
	if role.ApplicantCount >= role.MaxApplicants {
		return 0, sentinel.ErrCapacity
	}

	role.ApplicantCount++
	return role.ApplicantCount, nil
}

// ReleaseApplicant gives back a slot claimed by AdmitApplicant whose
// admission did not complete. The counter never goes below zero.
func (s *InMemory) ReleaseApplicant(_ context.Context, roleID id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, exists := s.roles[roleID]
	if !exists {
		return sentinel.ErrNotFound
	}
	if role.ApplicantCount == 0 {
		return sentinel.ErrInvalidState
	}
	role.ApplicantCount--
	return nil
}

func (s *InMemory) Close(_ context.Context, roleID id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, exists := s.roles[roleID]
	if !exists {
		return sentinel.ErrNotFound
	}
	role.Status = models.RoleStatusClosed
	return nil
}
