// Package service orchestrates challenge submissions: deadline checks,
// sandboxed grading, persistence, and reward points.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"campushire/internal/challenge/grader"
	challengemetrics "campushire/internal/challenge/metrics"
	"campushire/internal/challenge/models"
	"campushire/internal/challenge/ports"
	id "campushire/pkg/domain"
	dErrors "campushire/pkg/domain-errors"
	"campushire/pkg/platform/audit"
	"campushire/pkg/platform/sentinel"
)

// ErrDeadlinePassed is returned when a submission arrives after the
// challenge deadline.
var ErrDeadlinePassed = dErrors.New(dErrors.CodeConflict, "challenge deadline has passed")

// Grader is the grading engine the service submits code to.
type Grader interface {
	Grade(ctx context.Context, code string, cases []models.TestCase) (grader.GradeResult, error)
}

// Service implements the challenge operations.
type Service struct {
	challenges  ports.ChallengeStore
	submissions ports.SubmissionStore
	leaderboard ports.Leaderboard
	grader      Grader

	logger  *slog.Logger
	metrics *challengemetrics.Metrics
	audit   audit.Publisher
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *challengemetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(challenges ports.ChallengeStore, submissions ports.SubmissionStore, leaderboard ports.Leaderboard, g Grader, opts ...Option) *Service {
	s := &Service{
		challenges:  challenges,
		submissions: submissions,
		leaderboard: leaderboard,
		grader:      g,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateChallenge persists a new challenge definition.
func (s *Service) CreateChallenge(ctx context.Context, title, description string, difficulty models.Difficulty, rewardPoints int, deadline time.Time, cases []models.TestCase) (*models.Challenge, error) {
	challenge, err := models.NewChallenge(id.NewChallengeID(), title, description, difficulty, rewardPoints, deadline, cases, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.challenges.Create(ctx, challenge); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create challenge")
	}
	return challenge, nil
}

// Challenge returns one challenge with hidden test cases stripped.
func (s *Service) Challenge(ctx context.Context, challengeID id.ChallengeID) (*models.Challenge, error) {
	challenge, err := s.challenges.FindByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "challenge not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load challenge")
	}
	challenge.TestCases = challenge.VisibleCases()
	return challenge, nil
}

// Challenges returns all challenges with hidden test cases stripped.
func (s *Service) Challenges(ctx context.Context) ([]*models.Challenge, error) {
	challenges, err := s.challenges.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list challenges")
	}
	for _, challenge := range challenges {
		challenge.TestCases = challenge.VisibleCases()
	}
	return challenges, nil
}

// SubmitResult is what a candidate gets back after grading: the stored
// submission plus per-case feedback with hidden cases removed.
type SubmitResult struct {
	Submission    *models.Submission  `json:"submission"`
	Feedback      []grader.CaseResult `json:"feedback"`
	PointsAwarded int                 `json:"points_awarded"`
}

// Submit grades code against the challenge and persists the outcome. Reward
// points are granted once per candidate per challenge, on the first fully
// passed submission. Grading runs against all cases including hidden ones;
// the returned feedback excludes them.
func (s *Service) Submit(ctx context.Context, candidateID id.CandidateID, challengeID id.ChallengeID, code string) (*SubmitResult, error) {
	if code == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "code cannot be empty")
	}

	challenge, err := s.challenges.FindByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "challenge not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load challenge")
	}

	now := s.now()
	if !challenge.IsOpen(now) {
		return nil, ErrDeadlinePassed
	}

	alreadyPassed, err := s.submissions.HasPassed(ctx, candidateID, challengeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check prior submissions")
	}

	start := time.Now()
	result, gradeErr := s.grader.Grade(ctx, code, challenge.TestCases)
	if gradeErr != nil && result.Verdict != models.VerdictError {
		return nil, dErrors.Wrap(gradeErr, dErrors.CodeInternal, "grading failed")
	}
	if s.metrics != nil {
		s.metrics.ObserveGrading(string(result.Verdict), time.Since(start).Seconds())
	}

	submission := &models.Submission{
		ID:          id.NewSubmissionID(),
		ChallengeID: challengeID,
		CandidateID: candidateID,
		Code:        code,
		Passed:      result.Passed,
		Total:       result.Total,
		Score:       result.Score,
		Verdict:     result.Verdict,
		SubmittedAt: now,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist submission")
	}

	s.emit(ctx, audit.Event{
		Action:      audit.EventChallengeSubmitted,
		CandidateID: candidateID,
		ChallengeID: challengeID,
		Detail:      string(result.Verdict),
	})

	awarded := 0
	if result.Verdict == models.VerdictPassed && !alreadyPassed && challenge.RewardPoints > 0 {
		if err := s.leaderboard.Award(ctx, candidateID, challenge.RewardPoints); err != nil {
			// The submission is already stored; losing the points is worth a
			// log line, not a failed request.
			if s.logger != nil {
				s.logger.ErrorContext(ctx, "failed to award points",
					"candidate_id", candidateID,
					"challenge_id", challengeID,
					"points", challenge.RewardPoints,
					"error", err,
				)
			}
		} else {
			awarded = challenge.RewardPoints
			if s.metrics != nil {
				s.metrics.AddPointsAwarded(awarded)
			}
			s.emit(ctx, audit.Event{
				Action:      audit.EventRewardGranted,
				CandidateID: candidateID,
				ChallengeID: challengeID,
			})
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "submission graded",
			"candidate_id", candidateID,
			"challenge_id", challengeID,
			"verdict", submission.Verdict,
			"score", submission.Score,
			"points_awarded", awarded,
		)
	}

	return &SubmitResult{
		Submission:    submission,
		Feedback:      visibleFeedback(result.Cases),
		PointsAwarded: awarded,
	}, nil
}

// Submissions returns a candidate's grading history.
func (s *Service) Submissions(ctx context.Context, candidateID id.CandidateID) ([]*models.Submission, error) {
	submissions, err := s.submissions.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list submissions")
	}
	return submissions, nil
}

// Leaderboard returns the top n candidates by elite points.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	if n < 1 {
		n = 10
	}
	entries, err := s.leaderboard.Top(ctx, n)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read leaderboard")
	}
	return entries, nil
}

// visibleFeedback strips hidden cases and blanks nothing else: candidates
// see their own output only for cases the challenge exposes.
func visibleFeedback(cases []grader.CaseResult) []grader.CaseResult {
	feedback := make([]grader.CaseResult, 0, len(cases))
	for _, c := range cases {
		if c.Hidden {
			continue
		}
		feedback = append(feedback, c)
	}
	return feedback
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", event.Action, "error", err)
	}
}
