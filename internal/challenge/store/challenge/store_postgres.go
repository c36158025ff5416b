package challenge

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"campushire/internal/challenge/models"
	id "campushire/pkg/domain"
	"campushire/pkg/platform/sentinel"
	txcontext "campushire/pkg/platform/tx"
)

// PostgresStore implements ports.ChallengeStore on PostgreSQL. Test cases
// are stored as a jsonb document alongside the challenge row.
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

const challengeColumns = `id, title, description, difficulty, reward_points, deadline, test_cases, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, challenge *models.Challenge) error {
	cases, err := json.Marshal(challenge.TestCases)
	if err != nil {
		return fmt.Errorf("marshal test cases: %w", err)
	}

	_, err = s.q(ctx).ExecContext(ctx, `
		INSERT INTO challenges (`+challengeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		challenge.ID.String(), challenge.Title, challenge.Description,
		string(challenge.Difficulty), challenge.RewardPoints, challenge.Deadline,
		cases, challenge.CreatedAt, challenge.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert challenge: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, challengeID id.ChallengeID) (*models.Challenge, error) {
	row := s.q(ctx).QueryRowContext(ctx, `
		SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, challengeID.String())
	return scanChallenge(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Challenge, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `
		SELECT `+challengeColumns+` FROM challenges ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list challenges: %w", err)
	}
	defer rows.Close()

	var out []*models.Challenge
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, challenge)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChallenge(row rowScanner) (*models.Challenge, error) {
	var (
		challenge  models.Challenge
		rawID      string
		difficulty string
		cases      []byte
	)
	err := row.Scan(&rawID, &challenge.Title, &challenge.Description, &difficulty,
		&challenge.RewardPoints, &challenge.Deadline, &cases,
		&challenge.CreatedAt, &challenge.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan challenge: %w", err)
	}

	challengeID, err := id.ParseChallengeID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse challenge id: %w", err)
	}
	challenge.ID = challengeID
	challenge.Difficulty = models.Difficulty(difficulty)

	if err := json.Unmarshal(cases, &challenge.TestCases); err != nil {
		return nil, fmt.Errorf("unmarshal test cases: %w", err)
	}
	return &challenge, nil
}
