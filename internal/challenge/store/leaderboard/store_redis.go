package leaderboard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"campushire/internal/challenge/models"
	id "campushire/pkg/domain"
)

// elitePointsKey is the sorted set holding every candidate's point total.
const elitePointsKey = "campushire:leaderboard:elite_points"

// RedisStore implements ports.Leaderboard on a Redis sorted set. ZINCRBY
// makes Award atomic across instances, which the memory store cannot offer.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Award(ctx context.Context, candidateID id.CandidateID, points int) error {
	if err := s.client.ZIncrBy(ctx, elitePointsKey, float64(points), candidateID.String()).Err(); err != nil {
		return fmt.Errorf("award points: %w", err)
	}
	return nil
}

func (s *RedisStore) Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	if n < 1 {
		return nil, nil
	}
	members, err := s.client.ZRevRangeWithScores(ctx, elitePointsKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(members))
	for i, member := range members {
		raw, ok := member.Member.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected leaderboard member type %T", member.Member)
		}
		candidateID, err := id.ParseCandidateID(raw)
		if err != nil {
			return nil, fmt.Errorf("parse leaderboard member: %w", err)
		}
		entries = append(entries, models.LeaderboardEntry{
			CandidateID: candidateID,
			Points:      int(member.Score),
			Rank:        i + 1,
		})
	}
	return entries, nil
}
