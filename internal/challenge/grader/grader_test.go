package grader_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campushire/internal/challenge/grader"
	"campushire/internal/challenge/models"
)

// echoRunner pretends the program echoes its input back.
type echoRunner struct{}

func (echoRunner) Run(_ context.Context, _, input string) (string, error) {
	return input, nil
}

// scriptedRunner maps inputs to canned outcomes.
type scriptedRunner struct {
	outputs map[string]string
	errs    map[string]error
}

func (r *scriptedRunner) Run(_ context.Context, _, input string) (string, error) {
	if err, ok := r.errs[input]; ok {
		return "", err
	}
	return r.outputs[input], nil
}

func TestGradeAllPass(t *testing.T) {
	g := grader.New(echoRunner{}, time.Second)

	result, err := g.Grade(context.Background(), "code", []models.TestCase{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "2", ExpectedOutput: "2"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, models.VerdictPassed, result.Verdict)
}

func TestGradePartialFail(t *testing.T) {
	g := grader.New(&scriptedRunner{outputs: map[string]string{
		"a": "right",
		"b": "wrong",
		"c": "right",
	}}, time.Second)

	result, err := g.Grade(context.Background(), "code", []models.TestCase{
		{Input: "a", ExpectedOutput: "right"},
		{Input: "b", ExpectedOutput: "right"},
		{Input: "c", ExpectedOutput: "right"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, models.VerdictFailed, result.Verdict)
	assert.Equal(t, 67, result.Score)
	assert.False(t, result.Cases[1].Passed)
}

func TestGradeProgramCrashCountsAsFailedCase(t *testing.T) {
	g := grader.New(&scriptedRunner{
		outputs: map[string]string{"a": "right"},
		errs:    map[string]error{"b": fmt.Errorf("%w: exit code 1", grader.ErrExecution)},
	}, time.Second)

	result, err := g.Grade(context.Background(), "code", []models.TestCase{
		{Input: "a", ExpectedOutput: "right"},
		{Input: "b", ExpectedOutput: "right"},
	})
	require.NoError(t, err)

	// The crash fails its case but grading continues.
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, models.VerdictFailed, result.Verdict)
	assert.Equal(t, 50, result.Score)
}

func TestGradeInfrastructureFault(t *testing.T) {
	g := grader.New(&scriptedRunner{
		errs: map[string]error{"a": errors.New("docker daemon unreachable")},
	}, time.Second)

	result, err := g.Grade(context.Background(), "code", []models.TestCase{
		{Input: "a", ExpectedOutput: "x"},
	})
	require.Error(t, err)

	// A broken sandbox never awards points.
	assert.Equal(t, models.VerdictError, result.Verdict)
	assert.Equal(t, 0, result.Passed)
	assert.Equal(t, 0, result.Score)
}

func TestGradeNormalizesTrailingWhitespace(t *testing.T) {
	g := grader.New(&scriptedRunner{outputs: map[string]string{
		"a": "hello  \nworld\n",
	}}, time.Second)

	result, err := g.Grade(context.Background(), "code", []models.TestCase{
		{Input: "a", ExpectedOutput: "hello\nworld"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerdictPassed, result.Verdict)
}

func TestGradeNoCases(t *testing.T) {
	g := grader.New(echoRunner{}, time.Second)

	result, err := g.Grade(context.Background(), "code", nil)
	require.NoError(t, err)
	assert.Equal(t, models.VerdictFailed, result.Verdict)
	assert.Equal(t, 0, result.Score)
}
