// Package service orchestrates admissions: capacity enforcement, queue rank
// assignment, match scoring, and forward-only status transitions.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"campushire/internal/placement/matching"
	placementmetrics "campushire/internal/placement/metrics"
	"campushire/internal/placement/models"
	"campushire/internal/placement/ports"
	id "campushire/pkg/domain"
	dErrors "campushire/pkg/domain-errors"
	"campushire/pkg/platform/audit"
	"campushire/pkg/platform/sentinel"
)

// Typed admission denials. Each is an expected, user-facing outcome; the
// handler maps the attached code to an HTTP status.
var (
	ErrRoleClosed       = dErrors.New(dErrors.CodeConflict, "role is closed")
	ErrCandidateFrozen  = dErrors.New(dErrors.CodeForbidden, "candidate profile is frozen")
	ErrCapacityExceeded = dErrors.New(dErrors.CodeConflict, "role has reached maximum applicants")
	ErrAlreadyApplied   = dErrors.New(dErrors.CodeConflict, "candidate has already applied to this role")
)

// admitRetries bounds how often a lost compare-and-set race is retried
// before surfacing capacity exceeded.
const admitRetries = 3

// Service implements the placement operations over abstract stores.
type Service struct {
	candidates   ports.CandidateStore
	roles        ports.RoleStore
	applications ports.ApplicationStore

	logger  *slog.Logger
	metrics *placementmetrics.Metrics
	audit   audit.Publisher
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *placementmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(candidates ports.CandidateStore, roles ports.RoleStore, applications ports.ApplicationStore, opts ...Option) *Service {
	s := &Service{
		candidates:   candidates,
		roles:        roles,
		applications: applications,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Admit creates an application for candidate against role under the
// capacity bound. Preconditions are checked in order: role open, candidate
// not frozen, capacity available. The slot claim itself is the role store's
// atomic bounded increment, so a stale snapshot can never overshoot; a
// loser of the race receives ErrCapacityExceeded.
func (s *Service) Admit(ctx context.Context, candidateID id.CandidateID, roleID id.RoleID) (*models.Application, error) {
	candidate, err := s.candidates.FindByID(ctx, candidateID)
	if err != nil {
		return nil, wrapStoreErr(err, "candidate")
	}
	role, err := s.roles.FindByID(ctx, roleID)
	if err != nil {
		return nil, wrapStoreErr(err, "role")
	}

	// Snapshot preconditions, checked in contract order. The definitive
	// capacity check happens again inside the atomic claim below.
	if !role.IsOpen() {
		return nil, s.deny(ctx, candidateID, roleID, ErrRoleClosed, "role_closed")
	}
	if candidate.Frozen {
		return nil, s.deny(ctx, candidateID, roleID, ErrCandidateFrozen, "candidate_frozen")
	}
	if role.ApplicantCount >= role.MaxApplicants {
		return nil, s.deny(ctx, candidateID, roleID, ErrCapacityExceeded, "capacity_exceeded")
	}

	if _, err := s.applications.FindByCandidateAndRole(ctx, candidateID, roleID); err == nil {
		return nil, s.deny(ctx, candidateID, roleID, ErrAlreadyApplied, "already_applied")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing application")
	}

	queueRank, err := s.claimSlot(ctx, candidateID, roleID)
	if err != nil {
		return nil, err
	}

	score := matching.Score(candidate.Skills, role.Requirements, candidate.GPA)
	application, err := models.NewApplication(id.NewApplicationID(), candidateID, roleID, queueRank, score, s.now())
	if err != nil {
		s.releaseSlot(ctx, roleID)
		return nil, err
	}

	if err := s.applications.Create(ctx, application); err != nil {
		// The claimed slot has no application behind it; give it back so the
		// counter keeps tracking successful admissions only.
		s.releaseSlot(ctx, roleID)
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, s.deny(ctx, candidateID, roleID, ErrAlreadyApplied, "already_applied")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}

	s.emit(ctx, audit.Event{
		Action:      audit.EventApplicationAdmitted,
		CandidateID: candidateID,
		RoleID:      roleID,
	})
	if s.metrics != nil {
		s.metrics.IncrementAdmitted()
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "application admitted",
			"candidate_id", candidateID,
			"role_id", roleID,
			"queue_rank", queueRank,
			"match_score", score,
		)
	}
	return application, nil
}

// claimSlot invokes the store's atomic bounded increment, retrying transient
// conflicts a bounded number of times.
func (s *Service) claimSlot(ctx context.Context, candidateID id.CandidateID, roleID id.RoleID) (int, error) {
	var lastErr error
	for attempt := 0; attempt < admitRetries; attempt++ {
		rank, err := s.roles.AdmitApplicant(ctx, roleID)
		switch {
		case err == nil:
			return rank, nil
		case errors.Is(err, sentinel.ErrInvalidState):
			return 0, s.deny(ctx, candidateID, roleID, ErrRoleClosed, "role_closed")
		case errors.Is(err, sentinel.ErrCapacity):
			return 0, s.deny(ctx, candidateID, roleID, ErrCapacityExceeded, "capacity_exceeded")
		case errors.Is(err, sentinel.ErrNotFound):
			return 0, dErrors.New(dErrors.CodeNotFound, "role not found")
		case errors.Is(err, sentinel.ErrConflict):
			lastErr = err
			continue
		default:
			return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to claim applicant slot")
		}
	}
	// Retries exhausted: report the capacity bound rather than leaking the
	// transient conflict to the caller.
	if s.logger != nil {
		s.logger.WarnContext(ctx, "slot claim retries exhausted", "role_id", roleID, "error", lastErr)
	}
	return 0, s.deny(ctx, candidateID, roleID, ErrCapacityExceeded, "capacity_exceeded")
}

// releaseSlot returns a claimed slot after a failed admission. A release
// failure cannot fail the request any further; it is logged for repair.
func (s *Service) releaseSlot(ctx context.Context, roleID id.RoleID) {
	if err := s.roles.ReleaseApplicant(ctx, roleID); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to release claimed slot", "role_id", roleID, "error", err)
	}
}

func (s *Service) deny(ctx context.Context, candidateID id.CandidateID, roleID id.RoleID, denial error, reason string) error {
	s.emit(ctx, audit.Event{
		Action:      audit.EventAdmissionDenied,
		CandidateID: candidateID,
		RoleID:      roleID,
		Detail:      reason,
	})
	if s.metrics != nil {
		s.metrics.IncrementDenied(reason)
	}
	return denial
}

// RankedRole pairs an open role with the requesting candidate's match score.
type RankedRole struct {
	Role       *models.Role `json:"role"`
	MatchScore int          `json:"match_score"`
	HasApplied bool         `json:"has_applied"`
}

// RankedRoles returns open roles ordered by descending match score for the
// candidate, marking roles they already applied to.
func (s *Service) RankedRoles(ctx context.Context, candidateID id.CandidateID) ([]RankedRole, error) {
	candidate, err := s.candidates.FindByID(ctx, candidateID)
	if err != nil {
		return nil, wrapStoreErr(err, "candidate")
	}
	roles, err := s.roles.ListOpen(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list open roles")
	}
	applications, err := s.applications.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}

	applied := make(map[id.RoleID]struct{}, len(applications))
	for _, application := range applications {
		applied[application.RoleID] = struct{}{}
	}

	ranked := make([]RankedRole, 0, len(roles))
	for _, role := range roles {
		_, hasApplied := applied[role.ID]
		ranked = append(ranked, RankedRole{
			Role:       role,
			MatchScore: matching.Score(candidate.Skills, role.Requirements, candidate.GPA),
			HasApplied: hasApplied,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked, nil
}

// Applicants returns a role's applications in queue rank order.
func (s *Service) Applicants(ctx context.Context, roleID id.RoleID) ([]*models.Application, error) {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return nil, wrapStoreErr(err, "role")
	}
	applications, err := s.applications.ListByRole(ctx, roleID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applicants")
	}
	return applications, nil
}

// CandidateApplications returns a candidate's applications, most recent
// first.
func (s *Service) CandidateApplications(ctx context.Context, candidateID id.CandidateID) ([]*models.Application, error) {
	if _, err := s.candidates.FindByID(ctx, candidateID); err != nil {
		return nil, wrapStoreErr(err, "candidate")
	}
	applications, err := s.applications.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return applications, nil
}

// AdvanceApplication applies a forward-only status transition.
func (s *Service) AdvanceApplication(ctx context.Context, applicationID id.ApplicationID, next models.ApplicationStatus) (*models.Application, error) {
	now := s.now()
	application, err := s.applications.Execute(ctx, applicationID,
		func(a *models.Application) error {
			return a.CanAdvance(next)
		},
		func(a *models.Application) {
			a.ApplyAdvance(next, now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, err
	}

	s.emit(ctx, audit.Event{
		Action:      audit.EventApplicationAdvanced,
		CandidateID: application.CandidateID,
		RoleID:      application.RoleID,
		Detail:      string(next),
	})
	if s.metrics != nil {
		s.metrics.IncrementAdvanced()
	}
	return application, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", event.Action, "error", err)
	}
}

func wrapStoreErr(err error, entity string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+entity)
}
