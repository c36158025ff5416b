// Package ports defines the store interfaces the placement services depend
// on. Interfaces live here because both the service layer and the schedule
// context's adapters consume them.
package ports

import (
	"context"

	"campushire/internal/placement/models"
	id "campushire/pkg/domain"
)

// CandidateStore manages candidate profiles.
type CandidateStore interface {
	// Create persists a new candidate.
	Create(ctx context.Context, candidate *models.Candidate) error

	// FindByID returns the candidate or sentinel.ErrNotFound.
	FindByID(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error)

	// SetFrozen toggles the frozen flag.
	SetFrozen(ctx context.Context, candidateID id.CandidateID, frozen bool) error
}

// RoleStore manages role postings and their bounded applicant counters.
type RoleStore interface {
	// Create persists a new role.
	Create(ctx context.Context, role *models.Role) error

	// FindByID returns the role or sentinel.ErrNotFound.
	FindByID(ctx context.Context, roleID id.RoleID) (*models.Role, error)

	// ListOpen returns all roles with open status.
	ListOpen(ctx context.Context) ([]*models.Role, error)

	// AdmitApplicant atomically increments the role's applicant counter,
	// guarded by `count < max` and open status, and returns the claimed
	// count (the new applicant's queue rank). It returns
	// sentinel.ErrInvalidState when the role is closed and
	// sentinel.ErrCapacity when the counter is already at its limit. The
	// guard and increment are a single atomic step: the counter never
	// overshoots, regardless of concurrent callers.
	AdmitApplicant(ctx context.Context, roleID id.RoleID) (int, error)

	// ReleaseApplicant undoes one claimed slot when the admission could not
	// complete (the application row was never written). Bounded below at
	// zero: it returns sentinel.ErrInvalidState rather than going negative.
	ReleaseApplicant(ctx context.Context, roleID id.RoleID) error

	// Close transitions a role to closed status.
	Close(ctx context.Context, roleID id.RoleID) error
}

// ApplicationStore manages application records.
type ApplicationStore interface {
	// Create persists a new application. Returns sentinel.ErrConflict when
	// the candidate already has an application for the role.
	Create(ctx context.Context, application *models.Application) error

	// FindByID returns the application or sentinel.ErrNotFound.
	FindByID(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error)

	// FindByCandidateAndRole returns the candidate's application for a role
	// or sentinel.ErrNotFound.
	FindByCandidateAndRole(ctx context.Context, candidateID id.CandidateID, roleID id.RoleID) (*models.Application, error)

	// ListByCandidate returns the candidate's applications, most recent first.
	ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]*models.Application, error)

	// ListByRole returns a role's applications ordered by queue rank.
	ListByRole(ctx context.Context, roleID id.RoleID) ([]*models.Application, error)

	// Execute atomically validates and mutates one application. The store
	// holds its lock (mutex or FOR UPDATE) across both callbacks.
	Execute(ctx context.Context, applicationID id.ApplicationID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error)
}
