// Package domain defines typed identifiers shared across bounded contexts.
// Wrapping uuid.UUID in distinct named types makes cross-entity ID mixups a
// compile error instead of a data corruption bug.
package domain

import (
	"fmt"

	"github.com/google/uuid"

	dErrors "campushire/pkg/domain-errors"
)

type (
	CandidateID   uuid.UUID
	RoleID        uuid.UUID
	ApplicationID uuid.UUID
	InterviewID   uuid.UUID
	ChallengeID   uuid.UUID
	SubmissionID  uuid.UUID
)

func (id CandidateID) String() string   { return uuid.UUID(id).String() }
func (id RoleID) String() string        { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id InterviewID) String() string   { return uuid.UUID(id).String() }
func (id ChallengeID) String() string   { return uuid.UUID(id).String() }
func (id SubmissionID) String() string  { return uuid.UUID(id).String() }

func (id CandidateID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id RoleID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id InterviewID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ChallengeID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id SubmissionID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps IDs as canonical UUID strings on every JSON
// surface. Named types do not inherit uuid.UUID's methods, so each wrapper
// carries its own pair.

func (id CandidateID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id RoleID) MarshalText() ([]byte, error)        { return []byte(id.String()), nil }
func (id ApplicationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id InterviewID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id ChallengeID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id SubmissionID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func (id *CandidateID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = CandidateID(parsed)
	return nil
}

func (id *RoleID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = RoleID(parsed)
	return nil
}

func (id *ApplicationID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = ApplicationID(parsed)
	return nil
}

func (id *InterviewID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = InterviewID(parsed)
	return nil
}

func (id *ChallengeID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = ChallengeID(parsed)
	return nil
}

func (id *SubmissionID) UnmarshalText(text []byte) error {
	parsed, err := uuid.Parse(string(text))
	if err != nil {
		return err
	}
	*id = SubmissionID(parsed)
	return nil
}

// parseUUID enforces the shared invariant: IDs at trust boundaries must be
// valid, non-empty, non-nil UUIDs.
func parseUUID(raw, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s is required", kind))
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s is not a valid UUID", kind))
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("%s must not be the nil UUID", kind))
	}
	return parsed, nil
}

func ParseCandidateID(raw string) (CandidateID, error) {
	parsed, err := parseUUID(raw, "candidate_id")
	return CandidateID(parsed), err
}

func ParseRoleID(raw string) (RoleID, error) {
	parsed, err := parseUUID(raw, "role_id")
	return RoleID(parsed), err
}

func ParseApplicationID(raw string) (ApplicationID, error) {
	parsed, err := parseUUID(raw, "application_id")
	return ApplicationID(parsed), err
}

func ParseInterviewID(raw string) (InterviewID, error) {
	parsed, err := parseUUID(raw, "interview_id")
	return InterviewID(parsed), err
}

func ParseChallengeID(raw string) (ChallengeID, error) {
	parsed, err := parseUUID(raw, "challenge_id")
	return ChallengeID(parsed), err
}

func ParseSubmissionID(raw string) (SubmissionID, error) {
	parsed, err := parseUUID(raw, "submission_id")
	return SubmissionID(parsed), err
}

func NewCandidateID() CandidateID     { return CandidateID(uuid.New()) }
func NewRoleID() RoleID               { return RoleID(uuid.New()) }
func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }
func NewInterviewID() InterviewID     { return InterviewID(uuid.New()) }
func NewChallengeID() ChallengeID     { return ChallengeID(uuid.New()) }
func NewSubmissionID() SubmissionID   { return SubmissionID(uuid.New()) }
