// Package service provides best-effort AI analysis of resumes and interview
// answers. The generator is a collaborator, never a dependency: when it
// fails, a documented static fallback is returned instead of an error.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"campushire/internal/scoring/models"
)

// Generator produces model output for a prompt. The Vertex AI client
// implements it; tests use canned responses.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Service implements the scoring operations.
type Service struct {
	generator Generator
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New builds the service. A nil generator is allowed and means every call
// takes the fallback path.
func New(generator Generator, opts ...Option) *Service {
	s := &Service{generator: generator}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeResume reviews resume text. Never returns an error for generator
// failure; the result's Fallback flag tells the caller what happened.
func (s *Service) AnalyzeResume(ctx context.Context, resumeText string) models.ResumeAnalysis {
	if s.generator != nil {
		raw, err := s.generator.GenerateContent(ctx, resumePrompt(resumeText))
		if err == nil {
			var analysis models.ResumeAnalysis
			if err := unmarshalEmbeddedJSON(raw, &analysis); err == nil {
				return analysis
			} else if s.logger != nil {
				s.logger.WarnContext(ctx, "unparseable resume analysis response", "error", err)
			}
		} else if s.logger != nil {
			s.logger.WarnContext(ctx, "resume analysis unavailable", "error", err)
		}
	}
	return fallbackResumeAnalysis()
}

// AnalyzeInterview reviews one interview answer transcript against its
// question and field. Same best-effort contract as AnalyzeResume.
func (s *Service) AnalyzeInterview(ctx context.Context, transcript, question, field string) models.InterviewAnalysis {
	if s.generator != nil {
		raw, err := s.generator.GenerateContent(ctx, interviewPrompt(transcript, question, field))
		if err == nil {
			var analysis models.InterviewAnalysis
			if err := unmarshalEmbeddedJSON(raw, &analysis); err == nil {
				analysis.Transcript = transcript
				return analysis
			} else if s.logger != nil {
				s.logger.WarnContext(ctx, "unparseable interview analysis response", "error", err)
			}
		} else if s.logger != nil {
			s.logger.WarnContext(ctx, "interview analysis unavailable", "error", err)
		}
	}
	return fallbackInterviewAnalysis(transcript)
}

func resumePrompt(resumeText string) string {
	var sb strings.Builder
	sb.WriteString("Analyze this resume text and provide a structured JSON response with:\n")
	sb.WriteString("1. ATS score (0-100)\n")
	sb.WriteString("2. Section-wise scores and feedback for: personal, education, experience, skills, projects\n")
	sb.WriteString("3. Top 5 suggestions for improvement\n\n")
	sb.WriteString("Resume text:\n")
	sb.WriteString(resumeText)
	sb.WriteString("\n\nReturn ONLY valid JSON in this format:\n")
	sb.WriteString(`{"ats_score": number, "sections": {"personal": {"score": number, "feedback": "string"}, `)
	sb.WriteString(`"education": {...}, "experience": {...}, "skills": {...}, "projects": {...}}, `)
	sb.WriteString(`"suggestions": ["string"]}`)
	return sb.String()
}

func interviewPrompt(transcript, question, field string) string {
	var sb strings.Builder
	sb.WriteString("Analyze this interview answer transcript and provide a structured JSON response.\n\n")
	fmt.Fprintf(&sb, "Question: %s\nField: %s\nAnswer Transcript: %s\n\n", question, field, transcript)
	sb.WriteString("Evaluate on a 0-100 scale: sentiment, eye_contact, filler_words (lower score means more filler), ")
	sb.WriteString("technical_depth, overall_score, plus detailed feedback.\n\n")
	sb.WriteString("Return ONLY valid JSON:\n")
	sb.WriteString(`{"sentiment": number, "eye_contact": number, "filler_words": number, `)
	sb.WriteString(`"technical_depth": number, "overall_score": number, "feedback": "string"}`)
	return sb.String()
}

// unmarshalEmbeddedJSON pulls the first {...} block out of model output,
// tolerating prose around it.
func unmarshalEmbeddedJSON(raw string, v any) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("no JSON object in model response")
	}
	return json.Unmarshal([]byte(raw[start:end+1]), v)
}

func fallbackResumeAnalysis() models.ResumeAnalysis {
	return models.ResumeAnalysis{
		ATSScore: 75,
		Sections: map[string]models.SectionScore{
			"personal":   {Score: 80, Feedback: "Good personal information"},
			"education":  {Score: 75, Feedback: "Education section is clear"},
			"experience": {Score: 70, Feedback: "Could add more details"},
			"skills":     {Score: 80, Feedback: "Skills are well listed"},
			"projects":   {Score: 70, Feedback: "Projects need more description"},
		},
		Suggestions: []string{
			"Add more quantifiable achievements",
			"Include relevant keywords from job descriptions",
			"Expand on project descriptions",
			"Add certifications if any",
			"Optimize formatting for ATS systems",
		},
		Fallback: true,
	}
}

var fillerWords = regexp.MustCompile(`(?i)\b(um|uh|like|you know|so|well)\b`)

// fallbackInterviewAnalysis still gives the candidate one honest signal: a
// filler-word count computed locally from the transcript.
func fallbackInterviewAnalysis(transcript string) models.InterviewAnalysis {
	fillerScore := 100 - 10*len(fillerWords.FindAllString(transcript, -1))
	if fillerScore < 0 {
		fillerScore = 0
	}
	return models.InterviewAnalysis{
		Sentiment:      75,
		EyeContact:     70,
		FillerWords:    fillerScore,
		TechnicalDepth: 70,
		OverallScore:   72,
		Feedback:       "Good answer structure. Try to reduce filler words and provide more specific examples.",
		Transcript:     transcript,
		Fallback:       true,
	}
}
