// Package ports defines the stores the challenge services depend on.
package ports

import (
	"context"

	"campushire/internal/challenge/models"
	id "campushire/pkg/domain"
)

// ChallengeStore manages challenge definitions.
type ChallengeStore interface {
	// Create persists a new challenge.
	Create(ctx context.Context, challenge *models.Challenge) error

	// FindByID returns the challenge or sentinel.ErrNotFound.
	FindByID(ctx context.Context, challengeID id.ChallengeID) (*models.Challenge, error)

	// List returns all challenges, newest first.
	List(ctx context.Context) ([]*models.Challenge, error)
}

// SubmissionStore manages graded submissions.
type SubmissionStore interface {
	// Create persists a graded submission.
	Create(ctx context.Context, submission *models.Submission) error

	// ListByCandidate returns the candidate's submissions, most recent first.
	ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]*models.Submission, error)

	// HasPassed reports whether the candidate already fully passed the
	// challenge, so reward points are granted at most once.
	HasPassed(ctx context.Context, candidateID id.CandidateID, challengeID id.ChallengeID) (bool, error)
}

// Leaderboard ranks candidates by accumulated elite points.
type Leaderboard interface {
	// Award adds points to a candidate's total.
	Award(ctx context.Context, candidateID id.CandidateID, points int) error

	// Top returns the highest-ranked entries, best first.
	Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
}
