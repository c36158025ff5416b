package role

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campushire/internal/placement/models"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
)

type RoleStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *RoleStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestRoleStoreSuite(t *testing.T) {
	suite.Run(t, new(RoleStoreSuite))
}

func (s *RoleStoreSuite) newRole(maxApplicants int) *models.Role {
	now := time.Now()
	role, err := models.NewRole(id.NewRoleID(), "Acme", "Backend Intern", []string{"Go"}, maxApplicants, now.Add(48*time.Hour), now)
	s.Require().NoError(err)
	return role
}

func (s *RoleStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds role by ID", func() {
		role := s.newRole(5)
		s.Require().NoError(s.store.Create(s.ctx, role))

		found, err := s.store.FindByID(s.ctx, role.ID)
		s.Require().NoError(err)
		s.Equal(role.Title, found.Title)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.NewRoleID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("lists only open roles", func() {
		open := s.newRole(5)
		closed := s.newRole(5)
		closed.Status = models.RoleStatusClosed
		s.Require().NoError(s.store.Create(s.ctx, open))
		s.Require().NoError(s.store.Create(s.ctx, closed))

		roles, err := s.store.ListOpen(s.ctx)
		s.Require().NoError(err)
		for _, r := range roles {
			s.True(r.IsOpen())
		}
	})
}

func (s *RoleStoreSuite) TestAdmitApplicant() {
	s.Run("assigns strictly increasing ranks from 1", func() {
		role := s.newRole(3)
		s.Require().NoError(s.store.Create(s.ctx, role))

		for want := 1; want <= 3; want++ {
			rank, err := s.store.AdmitApplicant(s.ctx, role.ID)
			s.Require().NoError(err)
			s.Equal(want, rank)
		}
	})

	s.Run("rejects beyond capacity", func() {
		role := s.newRole(1)
		s.Require().NoError(s.store.Create(s.ctx, role))

		_, err := s.store.AdmitApplicant(s.ctx, role.ID)
		s.Require().NoError(err)

		_, err = s.store.AdmitApplicant(s.ctx, role.ID)
		s.Require().ErrorIs(err, sentinel.ErrCapacity)
	})

	s.Run("rejects closed role", func() {
		role := s.newRole(5)
		s.Require().NoError(s.store.Create(s.ctx, role))
		s.Require().NoError(s.store.Close(s.ctx, role.ID))

		_, err := s.store.AdmitApplicant(s.ctx, role.ID)
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})
}

func (s *RoleStoreSuite) TestReleaseApplicant() {
	s.Run("returns a claimed slot", func() {
		role := s.newRole(1)
		s.Require().NoError(s.store.Create(s.ctx, role))

		_, err := s.store.AdmitApplicant(s.ctx, role.ID)
		s.Require().NoError(err)
		s.Require().NoError(s.store.ReleaseApplicant(s.ctx, role.ID))

		// The released slot is claimable again, at the same rank.
		rank, err := s.store.AdmitApplicant(s.ctx, role.ID)
		s.Require().NoError(err)
		s.Equal(1, rank)
	})

	s.Run("never goes below zero", func() {
		role := s.newRole(1)
		s.Require().NoError(s.store.Create(s.ctx, role))

		err := s.store.ReleaseApplicant(s.ctx, role.ID)
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("unknown role", func() {
		err := s.store.ReleaseApplicant(s.ctx, id.NewRoleID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestConcurrentAdmission verifies the hard capacity bound: many goroutines
// racing for few slots claim each rank exactly once and never overshoot.
func (s *RoleStoreSuite) TestConcurrentAdmission() {
	const capacity = 5
	const contenders = 50

	role := s.newRole(capacity)
	s.Require().NoError(s.store.Create(s.ctx, role))

	var wg sync.WaitGroup
	var mu sync.Mutex
	ranks := make(map[int]int)
	capacityErrs := 0

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rank, err := s.store.AdmitApplicant(s.ctx, role.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.ErrorIs(err, sentinel.ErrCapacity)
				capacityErrs++
				return
			}
			ranks[rank]++
		}()
	}
	wg.Wait()

	s.Len(ranks, capacity, "exactly capacity ranks claimed")
	for rank := 1; rank <= capacity; rank++ {
		s.Equalf(1, ranks[rank], "rank %d claimed exactly once", rank)
	}
	s.Equal(contenders-capacity, capacityErrs)

	final, err := s.store.FindByID(s.ctx, role.ID)
	s.Require().NoError(err)
	s.Equal(capacity, final.ApplicantCount, "counter never exceeds capacity")
}
