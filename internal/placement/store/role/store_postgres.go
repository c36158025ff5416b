package role

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

// PostgresStore implements ports.RoleStore on PostgreSQL. The bounded
// increment is a single conditional UPDATE, so the capacity guard and the
// counter write commit atomically under any isolation level.
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

func (s *PostgresStore) Create(ctx context.Context, role *models.Role) error {
	requirements, err := json.Marshal(role.Requirements)
	if err != nil {
		return fmt.Errorf("marshal requirements: %w", err)
	}

	_, err = s.q(ctx).ExecContext(ctx, `
		INSERT INTO roles (id, company_name, title, requirements, max_applicants, applicant_count, status, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		role.ID.String(), role.CompanyName, role.Title, requirements,
		role.MaxApplicants, role.ApplicantCount, string(role.Status),
		role.Deadline, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, roleID id.RoleID) (*models.Role, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT id, company_name, title, requirements, max_applicants, applicant_count, status, deadline, created_at, updated_at
		FROM roles WHERE id = $1`, roleID.String())
	return scanRole(row)
}

func (s *PostgresStore) ListOpen(ctx context.Context) ([]*models.Role, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT id, company_name, title, requirements, max_applicants, applicant_count, status, deadline, created_at, updated_at
		FROM roles WHERE status = 'open' ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list open roles: %w", err)
	}
	defer rows.Close()

	var out []*models.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// AdmitApplicant claims a slot with one conditional UPDATE. When no row
// matches, a follow-up read disambiguates missing, closed, and full.
func (s *PostgresStore) AdmitApplicant(ctx context.Context, roleID id.RoleID) (int, error) {
	var count int
	err := s.q(ctx).QueryRowContext(ctx, `
		UPDATE roles
		SET applicant_count = applicant_count + 1, updated_at = now()
		WHERE id = $1 AND status = 'open' AND applicant_count < max_applicants
		RETURNING applicant_count`, roleID.String()).Scan(&count)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("admit applicant: %w", err)
	}

	role, ferr := s.FindByID(ctx, roleID)
	if ferr != nil {
		return 0, ferr
	}
	if !role.IsOpen() {
		return 0, sentinel.ErrInvalidState
	}
	return 0, sentinel.ErrCapacity
}

// ReleaseApplicant decrements the counter claimed by AdmitApplicant when
// the admission could not complete. The conditional UPDATE keeps the
// counter from going negative under concurrent releases.
func (s *PostgresStore) ReleaseApplicant(ctx context.Context, roleID id.RoleID) error {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE roles
		SET applicant_count = applicant_count - 1, updated_at = now()
		WHERE id = $1 AND applicant_count > 0`, roleID.String())
	if err != nil {
		return fmt.Errorf("release applicant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release applicant: %w", err)
	}
	if affected == 1 {
		return nil
	}

	if _, ferr := s.FindByID(ctx, roleID); ferr != nil {
		return ferr
	}
	return sentinel.ErrInvalidState
}

func (s *PostgresStore) Close(ctx context.Context, roleID id.RoleID) error {
	res, err := s.q(ctx).ExecContext(ctx, `
		UPDATE roles SET status = 'closed', updated_at = now() WHERE id = $1`, roleID.String())
	if err != nil {
		return fmt.Errorf("close role: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("close role: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRole(row rowScanner) (*models.Role, error) {
	var (
		role         models.Role
		rawID        string
		requirements []byte
		status       string
	)
	err := row.Scan(&rawID, &role.CompanyName, &role.Title, &requirements,
		&role.MaxApplicants, &role.ApplicantCount, &status,
		&role.Deadline, &role.CreatedAt, &role.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan role: %w", err)
	}

	parsed, err := id.ParseRoleID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse role id: %w", err)
	}
	role.ID = parsed
	role.Status = models.RoleStatus(status)

	if err := json.Unmarshal(requirements, &role.Requirements); err != nil {
		return nil, fmt.Errorf("unmarshal requirements: %w", err)
	}
	return &role, nil
}

// isUniqueViolation matches PostgreSQL error code 23505 without binding the
// store to a specific driver error type.
func isUniqueViolation(err error) bool {
	type coder interface{ SQLState() string }
	var c coder
	if errors.As(err, &c) {
		return c.SQLState() == "23505"
	}
	return false
}
