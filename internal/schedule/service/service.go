// Package service assembles candidate timelines: it fans out to the event
// sources, merges them through the calendar aggregator, and flags interview
// conflicts.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"campushire/internal/schedule/calendar"
	"campushire/internal/schedule/conflict"
	"campushire/internal/schedule/models"
	"campushire/internal/schedule/ports"
	id "campushire/pkg/domain"
	dErrors "campushire/pkg/domain-errors"
	"campushire/pkg/platform/sentinel"
)

// Service implements the schedule operations.
type Service struct {
	interviews ports.InterviewStore
	deadlines  ports.DeadlineSource
	challenges ports.ChallengeDeadlineSource
	aggregator *calendar.Aggregator

	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the reference location for day bucketing.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.aggregator = calendar.New(loc) }
}

func New(interviews ports.InterviewStore, deadlines ports.DeadlineSource, challenges ports.ChallengeDeadlineSource, opts ...Option) *Service {
	s := &Service{
		interviews: interviews,
		deadlines:  deadlines,
		challenges: challenges,
		aggregator: calendar.New(time.Local),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule creates a new interview for a candidate.
func (s *Service) Schedule(ctx context.Context, candidateID id.CandidateID, roleID id.RoleID, companyName, stage string, at time.Time) (*models.Interview, error) {
	interview, err := models.NewInterview(id.NewInterviewID(), candidateID, roleID, companyName, stage, at, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.interviews.Create(ctx, interview); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create interview")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "interview scheduled",
			"interview_id", interview.ID,
			"candidate_id", candidateID,
			"scheduled_at", interview.ScheduledAt,
		)
	}
	return interview, nil
}

// SetStatus updates an interview's lifecycle status.
func (s *Service) SetStatus(ctx context.Context, interviewID id.InterviewID, status models.InterviewStatus) error {
	if !status.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown interview status")
	}
	if err := s.interviews.SetStatus(ctx, interviewID, status); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "interview not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update interview")
	}
	return nil
}

// Interviews returns a candidate's interviews in schedule order with
// conflicts flagged.
func (s *Service) Interviews(ctx context.Context, candidateID id.CandidateID) ([]conflict.Flagged, error) {
	interviews, err := s.interviews.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list interviews")
	}

	events := make([]models.CalendarEvent, 0, len(interviews))
	for _, interview := range interviews {
		if interview.Status == models.InterviewCancelled {
			continue
		}
		events = append(events, models.InterviewEvent{Interview: interview})
	}
	return conflict.DetectOverlaps(events), nil
}

// Timeline fetches all three event sources concurrently and merges them
// into a day-bucketed timeline for the candidate.
func (s *Service) Timeline(ctx context.Context, candidateID id.CandidateID) (*calendar.Timeline, error) {
	var (
		interviews         []*models.Interview
		roleDeadlines      []models.DeadlineEvent
		challengeDeadlines []models.ChallengeEvent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		interviews, err = s.interviews.ListByCandidate(gctx, candidateID)
		return err
	})
	g.Go(func() error {
		var err error
		roleDeadlines, err = s.deadlines.RoleDeadlines(gctx, candidateID)
		return err
	})
	g.Go(func() error {
		var err error
		challengeDeadlines, err = s.challenges.ChallengeDeadlines(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assemble timeline")
	}

	return s.aggregator.Aggregate(interviews, roleDeadlines, challengeDeadlines), nil
}

// Month is Timeline narrowed to one month's grid.
func (s *Service) Month(ctx context.Context, candidateID id.CandidateID, year int, month time.Month) (calendar.MonthView, error) {
	timeline, err := s.Timeline(ctx, candidateID)
	if err != nil {
		return calendar.MonthView{}, err
	}
	return timeline.Month(year, month), nil
}
