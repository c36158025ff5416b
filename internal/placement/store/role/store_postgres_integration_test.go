//go:build integration

package role_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campushire/internal/placement/models"
	"campushire/internal/placement/store/role"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
	"campushire/pkg/testutil/containers"
)

type PostgresRoleStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *role.PostgresStore
}

func TestPostgresRoleStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRoleStoreSuite))
}

func (s *PostgresRoleStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = role.NewPostgres(s.postgres.DB)
}

func (s *PostgresRoleStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "roles")
	s.Require().NoError(err)
}

func (s *PostgresRoleStoreSuite) newRole(maxApplicants int) *models.Role {
	now := time.Now()
	r, err := models.NewRole(id.NewRoleID(), "Acme", "Backend Intern", []string{"Go", "SQL"}, maxApplicants, now.Add(48*time.Hour), now)
	s.Require().NoError(err)
	return r
}

func (s *PostgresRoleStoreSuite) TestCreateAndFind() {
	ctx := context.Background()

	r := s.newRole(5)
	s.Require().NoError(s.store.Create(ctx, r))

	found, err := s.store.FindByID(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(r.Title, found.Title)
	s.Equal([]string{"Go", "SQL"}, found.Requirements)
	s.Equal(0, found.ApplicantCount)

	_, err = s.store.FindByID(ctx, id.NewRoleID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresRoleStoreSuite) TestAdmitApplicantSequence() {
	ctx := context.Background()

	r := s.newRole(3)
	s.Require().NoError(s.store.Create(ctx, r))

	for want := 1; want <= 3; want++ {
		rank, err := s.store.AdmitApplicant(ctx, r.ID)
		s.Require().NoError(err)
		s.Equal(want, rank)
	}

	_, err := s.store.AdmitApplicant(ctx, r.ID)
	s.Require().ErrorIs(err, sentinel.ErrCapacity)
}

func (s *PostgresRoleStoreSuite) TestReleaseApplicant() {
	ctx := context.Background()

	r := s.newRole(1)
	s.Require().NoError(s.store.Create(ctx, r))

	_, err := s.store.AdmitApplicant(ctx, r.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.store.ReleaseApplicant(ctx, r.ID))

	rank, err := s.store.AdmitApplicant(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(1, rank)

	s.Require().NoError(s.store.ReleaseApplicant(ctx, r.ID))
	s.Require().ErrorIs(s.store.ReleaseApplicant(ctx, r.ID), sentinel.ErrInvalidState)
}

func (s *PostgresRoleStoreSuite) TestAdmitClosedRole() {
	ctx := context.Background()

	r := s.newRole(5)
	s.Require().NoError(s.store.Create(ctx, r))
	s.Require().NoError(s.store.Close(ctx, r.ID))

	_, err := s.store.AdmitApplicant(ctx, r.ID)
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)
}

// TestConcurrentAdmission drives real database contention at the conditional
// UPDATE: every rank is claimed exactly once and the counter never passes
// the capacity bound.
func (s *PostgresRoleStoreSuite) TestConcurrentAdmission() {
	const capacity = 5
	const contenders = 50

	ctx := context.Background()

	r := s.newRole(capacity)
	s.Require().NoError(s.store.Create(ctx, r))

	var wg sync.WaitGroup
	var mu sync.Mutex
	ranks := make(map[int]int)
	capacityErrs := 0

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rank, err := s.store.AdmitApplicant(ctx, r.ID)
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

	final, err := s.store.FindByID(ctx, r.ID)
	s.Require().NoError(err)
	s.Equal(capacity, final.ApplicantCount, "counter never exceeds capacity")
}

func (s *PostgresRoleStoreSuite) TestListOpenExcludesClosed() {
	ctx := context.Background()

	open := s.newRole(5)
	closed := s.newRole(5)
	s.Require().NoError(s.store.Create(ctx, open))
	s.Require().NoError(s.store.Create(ctx, closed))
	s.Require().NoError(s.store.Close(ctx, closed.ID))

	roles, err := s.store.ListOpen(ctx)
	s.Require().NoError(err)
	s.Require().Len(roles, 1)
	s.Equal(open.ID, roles[0].ID)
}
