// Package audit records security- and fairness-relevant platform events:
// admissions, status transitions, challenge submissions. Stores persist the
// events; the publisher decouples emitters from store latency.
package audit

import (
	"context"
	"time"

	id "campushire/pkg/domain"
)

// Well-known audit actions.
const (
	EventApplicationAdmitted = "application_admitted"
	EventAdmissionDenied     = "admission_denied"
	EventApplicationAdvanced = "application_advanced"
	EventChallengeSubmitted  = "challenge_submitted"
	EventRewardGranted       = "reward_granted"
)

// Event is a single audit record. CandidateID is the acting subject; Detail
// carries the action-specific reason or outcome.
type Event struct {
	Action      string
	CandidateID id.CandidateID
	RoleID      id.RoleID
	ChallengeID id.ChallengeID
	Detail      string
	Timestamp   time.Time
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher is the interface services depend on to emit audit events.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}
