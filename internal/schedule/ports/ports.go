// Package ports defines the stores and upstream sources the schedule
// services depend on.
package ports

import (
	"context"

	"campushire/internal/schedule/models"
	id "campushire/pkg/domain"
)

// InterviewStore manages interview records.
type InterviewStore interface {
	// Create persists a new interview.
	Create(ctx context.Context, interview *models.Interview) error

	// FindByID returns the interview or sentinel.ErrNotFound.
	FindByID(ctx context.Context, interviewID id.InterviewID) (*models.Interview, error)

	// ListByCandidate returns the candidate's interviews in schedule order.
	ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]*models.Interview, error)

	// SetStatus updates an interview's status.
	SetStatus(ctx context.Context, interviewID id.InterviewID, status models.InterviewStatus) error
}

// DeadlineSource supplies role application deadlines for a candidate's
// calendar. The placement context implements this over its role store.
type DeadlineSource interface {
	RoleDeadlines(ctx context.Context, candidateID id.CandidateID) ([]models.DeadlineEvent, error)
}

// ChallengeDeadlineSource supplies open challenge deadlines. The challenge
// context implements this over its challenge store.
type ChallengeDeadlineSource interface {
	ChallengeDeadlines(ctx context.Context) ([]models.ChallengeEvent, error)
}
