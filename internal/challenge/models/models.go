// Package models holds the coding challenge aggregates: challenges, their
// test cases, and graded submissions.
package models

import (
	"time"

	id "campushire/pkg/domain"
	dErrors "campushire/pkg/domain-errors"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// TestCase is one input/output pair a submission is judged against. Hidden
// cases count toward the score but are stripped from candidate feedback.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Hidden         bool   `json:"hidden"`
}

// Challenge is a timed coding problem with a points reward.
type Challenge struct {
	ID           id.ChallengeID `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Difficulty   Difficulty     `json:"difficulty"`
	RewardPoints int            `json:"reward_points"`
	Deadline     time.Time      `json:"deadline"`
	TestCases    []TestCase     `json:"test_cases"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func NewChallenge(challengeID id.ChallengeID, title, description string, difficulty Difficulty, rewardPoints int, deadline time.Time, cases []TestCase, now time.Time) (*Challenge, error) {
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "challenge title cannot be empty")
	}
	if !difficulty.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown challenge difficulty")
	}
	if rewardPoints < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reward points cannot be negative")
	}
	if len(cases) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "challenge needs at least one test case")
	}
	return &Challenge{
		ID:           challengeID,
		Title:        title,
		Description:  description,
		Difficulty:   difficulty,
		RewardPoints: rewardPoints,
		Deadline:     deadline,
		TestCases:    cases,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// IsOpen reports whether submissions are still accepted at the given time.
func (c *Challenge) IsOpen(at time.Time) bool {
	return c.Deadline.IsZero() || at.Before(c.Deadline)
}

// VisibleCases returns the test cases a candidate may see.
func (c *Challenge) VisibleCases() []TestCase {
	visible := make([]TestCase, 0, len(c.TestCases))
	for _, tc := range c.TestCases {
		if !tc.Hidden {
			visible = append(visible, tc)
		}
	}
	return visible
}

type Verdict string

const (
	VerdictPassed Verdict = "passed"
	VerdictFailed Verdict = "failed"
	VerdictError  Verdict = "error"
)

// Submission is one graded attempt at a challenge.
type Submission struct {
	ID          id.SubmissionID `json:"id"`
	ChallengeID id.ChallengeID  `json:"challenge_id"`
	CandidateID id.CandidateID  `json:"candidate_id"`
	Code        string          `json:"code"`
	Passed      int             `json:"passed"`
	Total       int             `json:"total"`
	Score       int             `json:"score"`
	Verdict     Verdict         `json:"verdict"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// LeaderboardEntry is one row of the elite points ranking.
type LeaderboardEntry struct {
	CandidateID id.CandidateID `json:"candidate_id"`
	Points      int            `json:"points"`
	Rank        int            `json:"rank"`
}
