package interview

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campushire/internal/schedule/models"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
	txcontext "campushire/pkg/platform/tx"
)

// PostgresStore implements ports.InterviewStore on PostgreSQL.
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

const interviewColumns = `id, candidate_id, role_id, company_name, stage, scheduled_at, status, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, interview *models.Interview) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO interviews (`+interviewColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		interview.ID.String(), interview.CandidateID.String(), interview.RoleID.String(),
		interview.CompanyName, interview.Stage, interview.ScheduledAt,
		string(interview.Status), interview.CreatedAt, interview.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, interviewID id.InterviewID) (*models.Interview, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, interviewID.String())
	return scanInterview(row)
}

func (s *PostgresStore) ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]*models.Interview, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT `+interviewColumns+` FROM interviews
		WHERE candidate_id = $1 ORDER BY scheduled_at ASC`, candidateID.String())
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()

	var out []*models.Interview
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, interview)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetStatus(ctx context.Context, interviewID id.InterviewID, status models.InterviewStatus) error {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE interviews SET status = $2, updated_at = now() WHERE id = $1`,
		interviewID.String(), string(status))
	if err != nil {
		return fmt.Errorf("set interview status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set interview status: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInterview(row rowScanner) (*models.Interview, error) {
	var (
		interview      models.Interview
		rawID          string
		rawCandidateID string
		rawRoleID      string
		status         string
	)
	err := row.Scan(&rawID, &rawCandidateID, &rawRoleID, &interview.CompanyName,
		&interview.Stage, &interview.ScheduledAt, &status,
		&interview.CreatedAt, &interview.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan interview: %w", err)
	}

	interviewID, err := id.ParseInterviewID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse interview id: %w", err)
	}
	candidateID, err := id.ParseCandidateID(rawCandidateID)
	if err != nil {
		return nil, fmt.Errorf("parse candidate id: %w", err)
	}
	roleID, err := id.ParseRoleID(rawRoleID)
	if err != nil {
		return nil, fmt.Errorf("parse role id: %w", err)
	}

	interview.ID = interviewID
	interview.CandidateID = candidateID
	interview.RoleID = roleID
	interview.Status = models.InterviewStatus(status)
	return &interview, nil
}
