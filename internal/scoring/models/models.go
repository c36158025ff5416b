// Package models holds the AI scoring result shapes.
package models

// SectionScore is one resume section's assessment.
type SectionScore struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// ResumeAnalysis is the structured outcome of a resume review.
type ResumeAnalysis struct {
	ATSScore    int                     `json:"ats_score"`
	Sections    map[string]SectionScore `json:"sections"`
	Suggestions []string                `json:"suggestions"`
	Fallback    bool                    `json:"fallback"`
}

// InterviewAnalysis is the structured outcome of one interview answer
// review. All sub-scores are on a 0-100 scale.
type InterviewAnalysis struct {
	Sentiment      int    `json:"sentiment"`
	EyeContact     int    `json:"eye_contact"`
	FillerWords    int    `json:"filler_words"`
	TechnicalDepth int    `json:"technical_depth"`
	OverallScore   int    `json:"overall_score"`
	Feedback       string `json:"feedback"`
	Transcript     string `json:"transcript"`
	Fallback       bool   `json:"fallback"`
}
