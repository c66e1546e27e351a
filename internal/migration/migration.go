package migration

import (
	"context"

	"exoml/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the persistence tables. The DDL sticks to types
// both postgres and sqlite accept, and timestamps are stored as ISO text.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createSavedCandidatesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create saved_candidates table")
	}

	if err := r.createFeedbackSubmissionsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create feedback_submissions table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createSavedCandidatesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS saved_candidates (
			id VARCHAR(36) PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL,
			sample_id VARCHAR(64) NOT NULL,
			sample_name VARCHAR(255) NOT NULL,
			criteria_json TEXT NOT NULL,
			disposition VARCHAR(32) NOT NULL,
			confidence VARCHAR(32) NOT NULL,
			saved_at VARCHAR(32) NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createFeedbackSubmissionsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS feedback_submissions (
			id VARCHAR(36) PRIMARY KEY,
			session_id VARCHAR(36) NOT NULL DEFAULT '',
			sample_id VARCHAR(64) NOT NULL,
			criteria_json TEXT NOT NULL,
			submitted_at VARCHAR(32) NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_saved_candidates_sample ON saved_candidates(sample_id, saved_at)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_submissions_sample ON feedback_submissions(sample_id, submitted_at)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
