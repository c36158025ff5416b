package application

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campushire/internal/placement/models"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
	txcontext "campushire/pkg/platform/tx"
)

// PostgresStore implements ports.ApplicationStore on PostgreSQL. Uniqueness
// of (candidate_id, role_id) and (role_id, queue_rank) is enforced by
// database constraints, so racing writers surface as sentinel.ErrConflict.
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

const applicationColumns = `id, candidate_id, role_id, status, queue_rank, match_score, applied_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, application *models.Application) error {
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		application.ID.String(), application.CandidateID.String(), application.RoleID.String(),
		string(application.Status), application.QueueRank, application.MatchScore,
		application.AppliedAt, application.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, applicationID id.ApplicationID) (*models.Application, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT `+applicationColumns+` FROM applications WHERE id = $1`, applicationID.String())
	return scanApplication(row)
}

func (s *PostgresStore) FindByCandidateAndRole(ctx context.Context, candidateID id.CandidateID, roleID id.RoleID) (*models.Application, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE candidate_id = $1 AND role_id = $2`,
		candidateID.String(), roleID.String())
	return scanApplication(row)
}

func (s *PostgresStore) ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]*models.Application, error) {
	return s.list(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE candidate_id = $1 ORDER BY applied_at DESC`, candidateID.String())
}

func (s *PostgresStore) ListByRole(ctx context.Context, roleID id.RoleID) ([]*models.Application, error) {
	return s.list(ctx, `
		SELECT `+applicationColumns+` FROM applications
		WHERE role_id = $1 ORDER BY queue_rank ASC`, roleID.String())
}

func (s *PostgresStore) list(ctx context.Context, query string, arg any) ([]*models.Application, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []*models.Application
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, application)
	}
	return out, rows.Err()
}

// Execute runs validate-then-mutate under SELECT ... FOR UPDATE inside a
// transaction, mirroring the memory store's critical section.
func (s *PostgresStore) Execute(ctx context.Context, applicationID id.ApplicationID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error) {
	var result *models.Application

	err := txcontext.RunInTx(ctx, s.db, func(txCtx context.Context) error {
		row := s.q(txCtx).QueryRowContext(txCtx, `
			SELECT `+applicationColumns+` FROM applications WHERE id = $1 FOR UPDATE`,
			applicationID.String())
		application, err := scanApplication(row)
		if err != nil {
			return err
		}

		if err := validate(application); err != nil {
			return err
		}
		mutate(application)

		_, err = s.q(txCtx).ExecContext(txCtx, `
			UPDATE applications SET status = $2, updated_at = $3 WHERE id = $1`,
			application.ID.String(), string(application.Status), application.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}

		result = application
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		application    models.Application
		rawID          string
		rawCandidateID string
		rawRoleID      string
		status         string
	)
	err := row.Scan(&rawID, &rawCandidateID, &rawRoleID, &status,
		&application.QueueRank, &application.MatchScore,
		&application.AppliedAt, &application.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan application: %w", err)
	}

	appID, err := id.ParseApplicationID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse application id: %w", err)
	}
	candidateID, err := id.ParseCandidateID(rawCandidateID)
	if err != nil {
		return nil, fmt.Errorf("parse candidate id: %w", err)
	}
	roleID, err := id.ParseRoleID(rawRoleID)
	if err != nil {
		return nil, fmt.Errorf("parse role id: %w", err)
	}

	application.ID = appID
	application.CandidateID = candidateID
	application.RoleID = roleID
	application.Status = models.ApplicationStatus(status)
	return &application, nil
}

func isUniqueViolation(err error) bool {
	type coder interface{ SQLState() string }
	var c coder
	if errors.As(err, &c) {
		return c.SQLState() == "23505"
	}
	return false
}
