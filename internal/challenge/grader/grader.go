// Package grader judges challenge submissions by executing candidate code
// against test cases inside a sandboxed runner.
package grader

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"campushire/internal/challenge/models"
)

// ErrExecution marks a failure of the candidate's program itself (crash,
// non-zero exit, timeout). Runners wrap these so the grader can count the
// case as failed instead of aborting the whole run.
var ErrExecution = errors.New("program execution failed")

// Runner executes untrusted code once with the given stdin and returns its
// stdout. Implementations are responsible for isolation and resource limits.
type Runner interface {
	Run(ctx context.Context, code, input string) (string, error)
}

// CaseResult is the outcome of one test case. Output and Expected are only
// populated for non-hidden cases by the service layer.
type CaseResult struct {
	Index    int    `json:"index"`
	Passed   bool   `json:"passed"`
	Hidden   bool   `json:"hidden"`
	Input    string `json:"input,omitempty"`
	Expected string `json:"expected,omitempty"`
	Output   string `json:"output,omitempty"`
}

// GradeResult summarizes a full grading run.
type GradeResult struct {
	Passed  int            `json:"passed"`
	Total   int            `json:"total"`
	Score   int            `json:"score"`
	Verdict models.Verdict `json:"verdict"`
	Cases   []CaseResult   `json:"cases"`
}

// Grader runs every test case through the runner with a hard per-case
// timeout.
type Grader struct {
	runner      Runner
	caseTimeout time.Duration
}

func New(runner Runner, caseTimeout time.Duration) *Grader {
	if caseTimeout <= 0 {
		caseTimeout = 5 * time.Second
	}
	return &Grader{runner: runner, caseTimeout: caseTimeout}
}

// Grade executes the submission against all cases. A program failure counts
// the case as failed and grading continues; an infrastructure fault aborts
// with verdict error and zero passes, so a broken sandbox never awards
// points.
func (g *Grader) Grade(ctx context.Context, code string, cases []models.TestCase) (GradeResult, error) {
	result := GradeResult{Total: len(cases)}

	for i, tc := range cases {
		caseResult := CaseResult{Index: i, Hidden: tc.Hidden}

		output, err := g.runCase(ctx, code, tc.Input)
		switch {
		case err == nil:
			caseResult.Output = output
			caseResult.Passed = normalize(output) == normalize(tc.ExpectedOutput)
		case errors.Is(err, ErrExecution):
			caseResult.Output = output
		default:
			result.Passed = 0
			result.Score = 0
			result.Verdict = models.VerdictError
			result.Cases = nil
			return result, err
		}

		caseResult.Input = tc.Input
		caseResult.Expected = tc.ExpectedOutput
		if caseResult.Passed {
			result.Passed++
		}
		result.Cases = append(result.Cases, caseResult)
	}

	result.Score = score(result.Passed, result.Total)
	if result.Passed == result.Total && result.Total > 0 {
		result.Verdict = models.VerdictPassed
	} else {
		result.Verdict = models.VerdictFailed
	}
	return result, nil
}

func (g *Grader) runCase(ctx context.Context, code, input string) (string, error) {
	caseCtx, cancel := context.WithTimeout(ctx, g.caseTimeout)
	defer cancel()
	return g.runner.Run(caseCtx, code, input)
}

func score(passed, total int) int {
	if total < 1 {
		total = 1
	}
	return int(math.Round(100 * float64(passed) / float64(total)))
}

// normalize strips trailing whitespace per line and at the end so judge
// comparisons are not defeated by newline conventions.
func normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
