package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campushire/internal/challenge/grader"
	"campushire/internal/challenge/models"
	"campushire/internal/challenge/service"
	challengestore "campushire/internal/challenge/store/challenge"
	leaderboardstore "campushire/internal/challenge/store/leaderboard"
	submissionstore "campushire/internal/challenge/store/submission"
	id "campushire/pkg/domain"
	dErrors "campushire/pkg/domain-errors"
)

// echoRunner pretends the program echoes its input back.
type echoRunner struct{}

func (echoRunner) Run(_ context.Context, _, input string) (string, error) {
	return input, nil
}

type ChallengeSuite struct {
	suite.Suite

	challenges  *challengestore.InMemory
	submissions *submissionstore.InMemory
	leaderboard *leaderboardstore.InMemory
	svc         *service.Service

	candidateID id.CandidateID
	now         time.Time
}

func TestChallengeSuite(t *testing.T) {
	suite.Run(t, new(ChallengeSuite))
}

func (s *ChallengeSuite) SetupTest() {
	s.challenges = challengestore.NewInMemory()
	s.submissions = submissionstore.NewInMemory()
	s.leaderboard = leaderboardstore.NewInMemory()
	s.candidateID = id.NewCandidateID()
	s.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	s.svc = service.New(
		s.challenges,
		s.submissions,
		s.leaderboard,
		grader.New(echoRunner{}, time.Second),
		service.WithClock(func() time.Time { return s.now }),
	)
}

func (s *ChallengeSuite) seedChallenge(points int, deadline time.Time, cases []models.TestCase) *models.Challenge {
	challenge, err := s.svc.CreateChallenge(context.Background(), "Echo Chamber", "print the input",
		models.DifficultyEasy, points, deadline, cases)
	s.Require().NoError(err)
	return challenge
}

func (s *ChallengeSuite) TestSubmitFullPassAwardsPoints() {
	challenge := s.seedChallenge(50, s.now.Add(24*time.Hour), []models.TestCase{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "2", ExpectedOutput: "2", Hidden: true},
	})

	result, err := s.svc.Submit(context.Background(), s.candidateID, challenge.ID, "print(input())")
	s.Require().NoError(err)

	s.Equal(models.VerdictPassed, result.Submission.Verdict)
	s.Equal(100, result.Submission.Score)
	s.Equal(50, result.PointsAwarded)

	top, err := s.svc.Leaderboard(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal(50, top[0].Points)
	s.Equal(1, top[0].Rank)
}

func (s *ChallengeSuite) TestSubmitFeedbackExcludesHiddenCases() {
	challenge := s.seedChallenge(10, s.now.Add(24*time.Hour), []models.TestCase{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "secret", ExpectedOutput: "secret", Hidden: true},
	})

	result, err := s.svc.Submit(context.Background(), s.candidateID, challenge.ID, "code")
	s.Require().NoError(err)

	// Both cases graded, only the visible one in feedback.
	s.Equal(2, result.Submission.Total)
	s.Require().Len(result.Feedback, 1)
	s.Equal("1", result.Feedback[0].Input)
}

func (s *ChallengeSuite) TestSubmitPointsAwardedOnce() {
	challenge := s.seedChallenge(50, s.now.Add(24*time.Hour), []models.TestCase{
		{Input: "1", ExpectedOutput: "1"},
	})

	first, err := s.svc.Submit(context.Background(), s.candidateID, challenge.ID, "code")
	s.Require().NoError(err)
	s.Equal(50, first.PointsAwarded)

	second, err := s.svc.Submit(context.Background(), s.candidateID, challenge.ID, "code")
	s.Require().NoError(err)
	s.Equal(0, second.PointsAwarded)

	top, err := s.svc.Leaderboard(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal(50, top[0].Points)
}

func (s *ChallengeSuite) TestSubmitAfterDeadline() {
	challenge := s.seedChallenge(50, s.now.Add(-time.Hour), []models.TestCase{
		{Input: "1", ExpectedOutput: "1"},
	})

	_, err := s.svc.Submit(context.Background(), s.candidateID, challenge.ID, "code")
	s.Require().ErrorIs(err, service.ErrDeadlinePassed)
}

func (s *ChallengeSuite) TestSubmitUnknownChallenge() {
	_, err := s.svc.Submit(context.Background(), s.candidateID, id.NewChallengeID(), "code")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ChallengeSuite) TestSubmitEmptyCode() {
	challenge := s.seedChallenge(50, s.now.Add(24*time.Hour), []models.TestCase{
		{Input: "1", ExpectedOutput: "1"},
	})

	_, err := s.svc.Submit(context.Background(), s.candidateID, challenge.ID, "")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ChallengeSuite) TestChallengeHidesSecretCases() {
	challenge := s.seedChallenge(50, s.now.Add(24*time.Hour), []models.TestCase{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "secret", ExpectedOutput: "secret", Hidden: true},
	})

	fetched, err := s.svc.Challenge(context.Background(), challenge.ID)
	s.Require().NoError(err)
	s.Require().Len(fetched.TestCases, 1)
	s.False(fetched.TestCases[0].Hidden)

	// The stored record keeps all cases for grading.
	stored, err := s.challenges.FindByID(context.Background(), challenge.ID)
	s.Require().NoError(err)
	s.Len(stored.TestCases, 2)
}

func (s *ChallengeSuite) TestLeaderboardOrdering() {
	challenge := s.seedChallenge(30, s.now.Add(24*time.Hour), []models.TestCase{
		{Input: "1", ExpectedOutput: "1"},
	})
	other := id.NewCandidateID()

	s.Require().NoError(s.leaderboard.Award(context.Background(), other, 90))
	_, err := s.svc.Submit(context.Background(), s.candidateID, challenge.ID, "code")
	s.Require().NoError(err)

	top, err := s.svc.Leaderboard(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(other, top[0].CandidateID)
	s.Equal(90, top[0].Points)
	s.Equal(s.candidateID, top[1].CandidateID)
}

func (s *ChallengeSuite) TestDeadlineSourceSkipsUndated() {
	s.seedChallenge(10, s.now.Add(24*time.Hour), []models.TestCase{{Input: "1", ExpectedOutput: "1"}})
	s.seedChallenge(10, time.Time{}, []models.TestCase{{Input: "1", ExpectedOutput: "1"}})

	events, err := service.NewDeadlineSource(s.challenges).ChallengeDeadlines(context.Background())
	s.Require().NoError(err)
	s.Len(events, 1)
}
