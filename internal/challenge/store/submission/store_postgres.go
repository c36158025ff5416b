package submission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campushire/internal/challenge/models"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
	txcontext "campushire/pkg/platform/tx"
)

// PostgresStore implements ports.SubmissionStore on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const submissionColumns = `id, challenge_id, candidate_id, code, passed, total, score, verdict, submitted_at`

func (s *PostgresStore) Create(ctx context.Context, submission *models.Submission) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO submissions (`+submissionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		submission.ID.String(), submission.ChallengeID.String(), submission.CandidateID.String(),
		submission.Code, submission.Passed, submission.Total, submission.Score,
		string(submission.Verdict), submission.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]*models.Submission, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT `+submissionColumns+` FROM submissions
		WHERE candidate_id = $1 ORDER BY submitted_at DESC`, candidateID.String())
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []*models.Submission
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, submission)
	}
	return out, rows.Err()
}

func (s *PostgresStore) HasPassed(ctx context.Context, candidateID id.CandidateID, challengeID id.ChallengeID) (bool, error) {
	var exists bool
	err := s.q(ctx).QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM submissions
			WHERE candidate_id = $1 AND challenge_id = $2 AND verdict = 'passed'
		)`, candidateID.String(), challengeID.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check passed submission: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var (
		submission     models.Submission
		rawID          string
		rawChallengeID string
		rawCandidateID string
		verdict        string
	)
	err := row.Scan(&rawID, &rawChallengeID, &rawCandidateID, &submission.Code,
		&submission.Passed, &submission.Total, &submission.Score, &verdict,
		&submission.SubmittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan submission: %w", err)
	}

	submissionID, err := id.ParseSubmissionID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse submission id: %w", err)
	}
	challengeID, err := id.ParseChallengeID(rawChallengeID)
	if err != nil {
		return nil, fmt.Errorf("parse challenge id: %w", err)
	}
	candidateID, err := id.ParseCandidateID(rawCandidateID)
	if err != nil {
		return nil, fmt.Errorf("parse candidate id: %w", err)
	}

	submission.ID = submissionID
	submission.ChallengeID = challengeID
	submission.CandidateID = candidateID
	submission.Verdict = models.Verdict(verdict)
	return &submission, nil
}
