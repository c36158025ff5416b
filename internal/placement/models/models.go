// Package models holds the placement aggregates: candidates, roles, and the
// applications connecting them.
package models

import (
	"time"

	id "campushire/pkg/domain"
	dErrors "campushire/pkg/domain-errors"
)

// Candidate is a student profile eligible to apply to roles.
//
// Invariants:
//   - GPA is on a 0-10 scale (caller contract at trust boundaries)
//   - A frozen candidate is never admitted to a new role
type Candidate struct {
	ID          id.CandidateID `json:"id"`
	Name        string         `json:"name"`
	Skills      []string       `json:"skills"`
	GPA         float64        `json:"gpa"`
	Frozen      bool           `json:"frozen"`
	ElitePoints int            `json:"elite_points"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type RoleStatus string

const (
	RoleStatusOpen   RoleStatus = "open"
	RoleStatusClosed RoleStatus = "closed"
)

func (s RoleStatus) IsValid() bool {
	return s == RoleStatusOpen || s == RoleStatusClosed
}

// Role is a posted opening with a hard applicant capacity.
//
// Invariants:
//   - MaxApplicants > 0
//   - 0 <= ApplicantCount <= MaxApplicants, enforced at admission time by the
//     role store's atomic bounded increment, never repaired after the fact
type Role struct {
	ID             id.RoleID  `json:"id"`
	CompanyName    string     `json:"company_name"`
	Title          string     `json:"title"`
	Requirements   []string   `json:"requirements"`
	MaxApplicants  int        `json:"max_applicants"`
	ApplicantCount int        `json:"applicant_count"`
	Status         RoleStatus `json:"status"`
	Deadline       time.Time  `json:"deadline"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (r *Role) IsOpen() bool {
	return r.Status == RoleStatusOpen
}

// RemainingSlots returns how many admissions the role can still accept.
func (r *Role) RemainingSlots() int {
	if remaining := r.MaxApplicants - r.ApplicantCount; remaining > 0 {
		return remaining
	}
	return 0
}

func NewRole(roleID id.RoleID, companyName, title string, requirements []string, maxApplicants int, deadline, now time.Time) (*Role, error) {
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "role title cannot be empty")
	}
	if maxApplicants <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "role capacity must be positive")
	}
	return &Role{
		ID:            roleID,
		CompanyName:   companyName,
		Title:         title,
		Requirements:  requirements,
		MaxApplicants: maxApplicants,
		Status:        RoleStatusOpen,
		Deadline:      deadline,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "applied"
	StatusShortlisted ApplicationStatus = "shortlisted"
	StatusInterview   ApplicationStatus = "interview"
	StatusOffered     ApplicationStatus = "offered"
	StatusRejected    ApplicationStatus = "rejected"
)

// statusRank orders the forward-progressing pipeline. Rejected sits outside
// the rank order: it is reachable from any non-terminal status.
var statusRank = map[ApplicationStatus]int{
	StatusApplied:     0,
	StatusShortlisted: 1,
	StatusInterview:   2,
	StatusOffered:     3,
}

func (s ApplicationStatus) IsValid() bool {
	if s == StatusRejected {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// IsTerminal reports whether no further transition is allowed.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusOffered || s == StatusRejected
}

// CanTransitionTo enforces forward-only progression: each transition must
// move strictly later in the pipeline, and terminal statuses never regress.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if !next.IsValid() || s.IsTerminal() {
		return false
	}
	if next == StatusRejected {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// Application records an admitted candidacy for a role.
//
// Invariants:
//   - QueueRank >= 1, unique per role, assigned atomically with admission and
//     immutable thereafter
//   - MatchScore in [0,100], computed once at admission
//   - Status only moves forward (see CanTransitionTo)
type Application struct {
	ID          id.ApplicationID  `json:"id"`
	CandidateID id.CandidateID    `json:"candidate_id"`
	RoleID      id.RoleID         `json:"role_id"`
	Status      ApplicationStatus `json:"status"`
	QueueRank   int               `json:"queue_rank"`
	MatchScore  int               `json:"match_score"`
	AppliedAt   time.Time         `json:"applied_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func NewApplication(appID id.ApplicationID, candidateID id.CandidateID, roleID id.RoleID, queueRank, matchScore int, now time.Time) (*Application, error) {
	if queueRank < 1 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "queue rank must be at least 1")
	}
	if matchScore < 0 || matchScore > 100 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "match score must be in [0,100]")
	}
	return &Application{
		ID:          appID,
		CandidateID: candidateID,
		RoleID:      roleID,
		Status:      StatusApplied,
		QueueRank:   queueRank,
		MatchScore:  matchScore,
		AppliedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CanAdvance checks whether the application may transition to next.
// Use with ApplyAdvance in Execute callbacks.
func (a *Application) CanAdvance(next ApplicationStatus) error {
	if !next.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown application status")
	}
	if !a.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvariantViolation, "application status cannot move backwards")
	}
	return nil
}

// ApplyAdvance transitions the application. Call CanAdvance first.
func (a *Application) ApplyAdvance(next ApplicationStatus, now time.Time) {
	a.Status = next
	a.UpdatedAt = now
}
