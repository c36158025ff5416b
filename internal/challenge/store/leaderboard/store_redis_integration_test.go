//go:build integration

package leaderboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"campushire/internal/challenge/store/leaderboard"
	id "campushire/pkg/domain"
	"campushire/pkg/testutil/containers"
)

type RedisLeaderboardSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *leaderboard.RedisStore
}

func TestRedisLeaderboardSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLeaderboardSuite))
}

func (s *RedisLeaderboardSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = leaderboard.NewRedis(s.redis.Client)
}

func (s *RedisLeaderboardSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisLeaderboardSuite) TestAwardAccumulates() {
	ctx := context.Background()
	candidateID := id.NewCandidateID()

	s.Require().NoError(s.store.Award(ctx, candidateID, 30))
	s.Require().NoError(s.store.Award(ctx, candidateID, 20))

	entries, err := s.store.Top(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(candidateID, entries[0].CandidateID)
	s.Equal(50, entries[0].Points)
	s.Equal(1, entries[0].Rank)
}

func (s *RedisLeaderboardSuite) TestTopOrdersByPoints() {
	ctx := context.Background()
	low := id.NewCandidateID()
	high := id.NewCandidateID()

	s.Require().NoError(s.store.Award(ctx, low, 10))
	s.Require().NoError(s.store.Award(ctx, high, 90))

	entries, err := s.store.Top(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(high, entries[0].CandidateID)
	s.Equal(1, entries[0].Rank)
	s.Equal(low, entries[1].CandidateID)
	s.Equal(2, entries[1].Rank)
}

func (s *RedisLeaderboardSuite) TestTopTruncates() {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.store.Award(ctx, id.NewCandidateID(), 10*(i+1)))
	}

	entries, err := s.store.Top(ctx, 3)
	s.Require().NoError(err)
	s.Len(entries, 3)
	s.Equal(50, entries[0].Points)
}

func (s *RedisLeaderboardSuite) TestTopEmpty() {
	entries, err := s.store.Top(context.Background(), 10)
	s.Require().NoError(err)
	s.Empty(entries)
}
