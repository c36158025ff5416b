package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the schema idempotently at startup. The statements are
// ordered so foreign keys always reference existing tables.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS candidates (
			id           UUID PRIMARY KEY,
			name         TEXT NOT NULL,
			skills       JSONB NOT NULL DEFAULT '[]',
			gpa          DOUBLE PRECISION NOT NULL DEFAULT 0,
			frozen       BOOLEAN NOT NULL DEFAULT FALSE,
			elite_points INTEGER NOT NULL DEFAULT 0,
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS roles (
			id              UUID PRIMARY KEY,
			company_name    TEXT NOT NULL,
			title           TEXT NOT NULL,
			requirements    JSONB NOT NULL DEFAULT '[]',
			max_applicants  INTEGER NOT NULL CHECK (max_applicants > 0),
			applicant_count INTEGER NOT NULL DEFAULT 0 CHECK (applicant_count >= 0 AND applicant_count <= max_applicants),
			status          TEXT NOT NULL,
			deadline        TIMESTAMPTZ,
			created_at      TIMESTAMPTZ NOT NULL,
			updated_at      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id           UUID PRIMARY KEY,
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			role_id      UUID NOT NULL REFERENCES roles(id),
			status       TEXT NOT NULL,
			queue_rank   INTEGER NOT NULL CHECK (queue_rank >= 1),
			match_score  INTEGER NOT NULL CHECK (match_score BETWEEN 0 AND 100),
			applied_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL,
			UNIQUE (candidate_id, role_id),
			UNIQUE (role_id, queue_rank)
		)`,
		`CREATE TABLE IF NOT EXISTS interviews (
			id           UUID PRIMARY KEY,
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			role_id      UUID NOT NULL REFERENCES roles(id),
			company_name TEXT NOT NULL,
			stage        TEXT NOT NULL DEFAULT '',
			scheduled_at TIMESTAMPTZ NOT NULL,
			status       TEXT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS challenges (
			id            UUID PRIMARY KEY,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			difficulty    TEXT NOT NULL,
			reward_points INTEGER NOT NULL DEFAULT 0,
			deadline      TIMESTAMPTZ,
			test_cases    JSONB NOT NULL DEFAULT '[]',
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS submissions (
			id           UUID PRIMARY KEY,
			challenge_id UUID NOT NULL REFERENCES challenges(id),
			candidate_id UUID NOT NULL REFERENCES candidates(id),
			code         TEXT NOT NULL,
			passed       INTEGER NOT NULL,
			total        INTEGER NOT NULL,
			score        INTEGER NOT NULL CHECK (score BETWEEN 0 AND 100),
			verdict      TEXT NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_candidate ON applications (candidate_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interviews_candidate ON interviews (candidate_id, scheduled_at)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_candidate ON submissions (candidate_id, submitted_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
