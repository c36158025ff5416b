// Package models holds the scheduling aggregates: interviews and the
// calendar events derived from them.
package models

import (
	"encoding/json"
	"time"

	id "campushire/pkg/domain"
	dErrors "campushire/pkg/domain-errors"
)

type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "scheduled"
	InterviewCompleted InterviewStatus = "completed"
	InterviewCancelled InterviewStatus = "cancelled"
)

func (s InterviewStatus) IsValid() bool {
	switch s {
	case InterviewScheduled, InterviewCompleted, InterviewCancelled:
		return true
	}
	return false
}

// Interview is a scheduled conversation between a candidate and a company.
// ScheduledAt is stored in UTC; calendar placement happens at read time in
// the aggregator's reference location.
type Interview struct {
	ID          id.InterviewID  `json:"id"`
	CandidateID id.CandidateID  `json:"candidate_id"`
	RoleID      id.RoleID       `json:"role_id"`
	CompanyName string          `json:"company_name"`
	Stage       string          `json:"stage"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Status      InterviewStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewInterview(interviewID id.InterviewID, candidateID id.CandidateID, roleID id.RoleID, companyName, stage string, scheduledAt, now time.Time) (*Interview, error) {
	if scheduledAt.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "interview time is required")
	}
	return &Interview{
		ID:          interviewID,
		CandidateID: candidateID,
		RoleID:      roleID,
		CompanyName: companyName,
		Stage:       stage,
		ScheduledAt: scheduledAt.UTC(),
		Status:      InterviewScheduled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// EventKind discriminates calendar event sources.
type EventKind string

const (
	KindInterview         EventKind = "interview"
	KindRoleDeadline      EventKind = "role_deadline"
	KindChallengeDeadline EventKind = "challenge_deadline"
)

// CalendarEvent is the closed set of things that appear on a candidate's
// timeline. Each variant carries its own identity; Kind discriminates when
// flattening to the wire.
type CalendarEvent interface {
	Kind() EventKind
	When() time.Time
	Label() string
}

// InterviewEvent places a scheduled interview on the calendar.
type InterviewEvent struct {
	Interview *Interview `json:"interview"`
}

func (e InterviewEvent) Kind() EventKind { return KindInterview }
func (e InterviewEvent) When() time.Time { return e.Interview.ScheduledAt }
func (e InterviewEvent) Label() string   { return e.Interview.CompanyName + " interview" }

func (e InterviewEvent) MarshalJSON() ([]byte, error) { return marshalEvent(e, e.Interview) }

// DeadlineEvent places a role's application deadline on the calendar.
type DeadlineEvent struct {
	RoleID id.RoleID `json:"role_id"`
	Title  string    `json:"title"`
	At     time.Time `json:"at"`
}

func (e DeadlineEvent) Kind() EventKind { return KindRoleDeadline }
func (e DeadlineEvent) When() time.Time { return e.At }
func (e DeadlineEvent) Label() string   { return e.Title + " deadline" }

func (e DeadlineEvent) MarshalJSON() ([]byte, error) {
	type body DeadlineEvent
	return marshalEvent(e, body(e))
}

// ChallengeEvent places a coding challenge deadline on the calendar.
type ChallengeEvent struct {
	ChallengeID id.ChallengeID `json:"challenge_id"`
	Title       string         `json:"title"`
	At          time.Time      `json:"at"`
}

func (e ChallengeEvent) Kind() EventKind { return KindChallengeDeadline }
func (e ChallengeEvent) When() time.Time { return e.At }
func (e ChallengeEvent) Label() string   { return e.Title + " challenge due" }

func (e ChallengeEvent) MarshalJSON() ([]byte, error) {
	type body ChallengeEvent
	return marshalEvent(e, body(e))
}

// eventPayload is the marshaling shadow: the variant's own fields embedded
// next to the shared discriminator and display fields.
type eventPayload struct {
	Kind  EventKind `json:"kind"`
	Label string    `json:"label"`
	At    time.Time `json:"at"`
	Body  any       `json:"detail"`
}

func marshalEvent(event CalendarEvent, body any) ([]byte, error) {
	return json.Marshal(eventPayload{
		Kind:  event.Kind(),
		Label: event.Label(),
		At:    event.When(),
		Body:  body,
	})
}
