package candidate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"campushire/internal/placement/models"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
	txcontext "campushire/pkg/platform/tx"
)

// PostgresStore implements ports.CandidateStore on PostgreSQL. Skills are
// stored as a jsonb document.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, candidate *models.Candidate) error {
	skills, err := json.Marshal(candidate.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}

	_, err = s.q(ctx).ExecContext(ctx, `
		INSERT INTO candidates (id, name, skills, gpa, frozen, elite_points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		candidate.ID.String(), candidate.Name, skills, candidate.GPA,
		candidate.Frozen, candidate.ElitePoints, candidate.CreatedAt, candidate.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	var (
		candidate models.Candidate
		rawID     string
		skills    []byte
	)
	err := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, name, skills, gpa, frozen, elite_points, created_at, updated_at
		FROM candidates WHERE id = $1`, candidateID.String(),
	).Scan(&rawID, &candidate.Name, &skills, &candidate.GPA,
		&candidate.Frozen, &candidate.ElitePoints, &candidate.CreatedAt, &candidate.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan candidate: %w", err)
	}

	parsed, err := id.ParseCandidateID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse candidate id: %w", err)
	}
	candidate.ID = parsed

	if err := json.Unmarshal(skills, &candidate.Skills); err != nil {
		return nil, fmt.Errorf("unmarshal skills: %w", err)
	}
	return &candidate, nil
}

func (s *PostgresStore) SetFrozen(ctx context.Context, candidateID id.CandidateID, frozen bool) error {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE candidates SET frozen = $2, updated_at = now() WHERE id = $1`,
		candidateID.String(), frozen)
	if err != nil {
		return fmt.Errorf("set frozen: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set frozen: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	type coder interface{ SQLState() string }
	var c coder
	if errors.As(err, &c) {
		return c.SQLState() == "23505"
	}
	return false
}
