package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cannedGenerator returns a fixed response or error.
type cannedGenerator struct {
	response string
	err      error
}

func (g *cannedGenerator) GenerateContent(context.Context, string) (string, error) {
	return g.response, g.err
}

func TestAnalyzeResumeParsesModelOutput(t *testing.T) {
	svc := New(&cannedGenerator{response: `Here is my assessment:
{"ats_score": 88, "sections": {"skills": {"score": 90, "feedback": "strong"}}, "suggestions": ["tighten summary"]}`})

	analysis := svc.AnalyzeResume(context.Background(), "resume text")

	assert.Equal(t, 88, analysis.ATSScore)
	assert.Equal(t, 90, analysis.Sections["skills"].Score)
	assert.False(t, analysis.Fallback)
}

func TestAnalyzeResumeFallsBackOnGeneratorError(t *testing.T) {
	svc := New(&cannedGenerator{err: errors.New("quota exhausted")})

	analysis := svc.AnalyzeResume(context.Background(), "resume text")

	assert.True(t, analysis.Fallback)
	assert.Equal(t, 75, analysis.ATSScore)
	assert.Len(t, analysis.Suggestions, 5)
}

func TestAnalyzeResumeFallsBackOnGarbageOutput(t *testing.T) {
	svc := New(&cannedGenerator{response: "I cannot help with that."})

	analysis := svc.AnalyzeResume(context.Background(), "resume text")
	assert.True(t, analysis.Fallback)
}

func TestAnalyzeResumeNilGenerator(t *testing.T) {
	svc := New(nil)

	analysis := svc.AnalyzeResume(context.Background(), "resume text")
	assert.True(t, analysis.Fallback)
}

func TestAnalyzeInterviewParsesModelOutput(t *testing.T) {
	svc := New(&cannedGenerator{response: `{"sentiment": 82, "eye_contact": 75, "filler_words": 90, "technical_depth": 85, "overall_score": 83, "feedback": "solid"}`})

	analysis := svc.AnalyzeInterview(context.Background(), "my answer", "question", "backend")

	assert.Equal(t, 83, analysis.OverallScore)
	assert.Equal(t, "my answer", analysis.Transcript)
	assert.False(t, analysis.Fallback)
}

func TestAnalyzeInterviewFallbackCountsFillerWords(t *testing.T) {
	svc := New(&cannedGenerator{err: errors.New("unavailable")})

	analysis := svc.AnalyzeInterview(context.Background(),
		"Um, well, I like to, you know, write code", "question", "backend")

	require.True(t, analysis.Fallback)
	// um, well, like, you know = 4 fillers, 100 - 40.
	assert.Equal(t, 60, analysis.FillerWords)
	assert.Equal(t, 72, analysis.OverallScore)
}

func TestAnalyzeInterviewFallbackFloorsAtZero(t *testing.T) {
	svc := New(nil)

	transcript := "um um um um um um um um um um um"
	analysis := svc.AnalyzeInterview(context.Background(), transcript, "q", "f")
	assert.Equal(t, 0, analysis.FillerWords)
}

func TestUnmarshalEmbeddedJSON(t *testing.T) {
	var out map[string]int
	err := unmarshalEmbeddedJSON("prefix {\"a\": 1} suffix", &out)
	require.NoError(t, err)
	assert.Equal(t, 1, out["a"])

	err = unmarshalEmbeddedJSON("no braces here", &out)
	assert.Error(t, err)
}
