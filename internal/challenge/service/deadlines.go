package service

import (
	"context"

	"campushire/internal/challenge/ports"
	schedulemodels "campushire/internal/schedule/models"
)

// DeadlineSource adapts the challenge store into the schedule context's
// challenge deadline feed: open challenges with a deadline set.
type DeadlineSource struct {
	challenges ports.ChallengeStore
}

func NewDeadlineSource(challenges ports.ChallengeStore) *DeadlineSource {
	return &DeadlineSource{challenges: challenges}
}

func (s *DeadlineSource) ChallengeDeadlines(ctx context.Context) ([]schedulemodels.ChallengeEvent, error) {
	challenges, err := s.challenges.List(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]schedulemodels.ChallengeEvent, 0, len(challenges))
	for _, challenge := range challenges {
		if challenge.Deadline.IsZero() {
			continue
		}
		events = append(events, schedulemodels.ChallengeEvent{
			ChallengeID: challenge.ID,
			Title:       challenge.Title,
			At:          challenge.Deadline,
		})
	}
	return events, nil
}
