package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"exoml/domain/core"
	"exoml/domain/sample"
	"exoml/internal/errors"
	"exoml/ports"

	"github.com/jmoiron/sqlx"
)

// CandidateRepositoryImpl implements CandidateRepository on sqlx. Queries
// are written with '?' and rebound for the connected driver.
type CandidateRepositoryImpl struct {
	db *sqlx.DB
}

// NewCandidateRepository creates a new SQL candidate repository
func NewCandidateRepository(db *sqlx.DB) ports.CandidateRepository {
	return &CandidateRepositoryImpl{db: db}
}

type candidateRow struct {
	ID           string `db:"id"`
	SessionID    string `db:"session_id"`
	SampleID     string `db:"sample_id"`
	SampleName   string `db:"sample_name"`
	CriteriaJSON string `db:"criteria_json"`
	Disposition  string `db:"disposition"`
	Confidence   string `db:"confidence"`
	SavedAt      string `db:"saved_at"`
}

type feedbackRow struct {
	ID           string `db:"id"`
	SessionID    string `db:"session_id"`
	SampleID     string `db:"sample_id"`
	CriteriaJSON string `db:"criteria_json"`
	SubmittedAt  string `db:"submitted_at"`
}

// SaveCandidate inserts a saved candidate, assigning ID and time when unset
func (r *CandidateRepositoryImpl) SaveCandidate(ctx context.Context, c *ports.SavedCandidate) error {
	if c.ID == "" {
		c.ID = core.CandidateID(core.NewID())
	}
	if c.SavedAt.IsZero() {
		c.SavedAt = core.Now()
	}
	criteria, err := json.Marshal(c.Criteria)
	if err != nil {
		return errors.Wrap(err, "failed to encode criteria")
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO saved_candidates (id, session_id, sample_id, sample_name, criteria_json, disposition, confidence, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), c.ID.String(), c.SessionID.String(), c.SampleID.String(), c.SampleName, string(criteria),
		string(c.Disposition), c.Confidence, c.SavedAt.ISO())
	if err != nil {
		return errors.DatabaseError("failed to save candidate", err)
	}
	return nil
}

// ListCandidates returns the newest saved candidates, optionally for one sample
func (r *CandidateRepositoryImpl) ListCandidates(ctx context.Context, sampleID core.SampleID, limit int) ([]*ports.SavedCandidate, error) {
	query := `SELECT id, session_id, sample_id, sample_name, criteria_json, disposition, confidence, saved_at FROM saved_candidates`
	var args []interface{}
	if sampleID != "" {
		query += ` WHERE sample_id = ?`
		args = append(args, sampleID.String())
	}
	query += ` ORDER BY saved_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []candidateRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.DatabaseError("failed to list candidates", err)
	}

	out := make([]*ports.SavedCandidate, 0, len(rows))
	for _, row := range rows {
		c, err := row.toCandidate()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// SaveFeedback inserts a feedback submission, assigning ID and time when unset
func (r *CandidateRepositoryImpl) SaveFeedback(ctx context.Context, f *ports.FeedbackSubmission) error {
	if f.ID == "" {
		f.ID = core.FeedbackID(core.NewID())
	}
	if f.SubmittedAt.IsZero() {
		f.SubmittedAt = core.Now()
	}
	criteria, err := json.Marshal(f.Criteria)
	if err != nil {
		return errors.Wrap(err, "failed to encode criteria")
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO feedback_submissions (id, session_id, sample_id, criteria_json, submitted_at)
		VALUES (?, ?, ?, ?, ?)
	`), f.ID.String(), f.SessionID.String(), f.SampleID.String(), string(criteria), f.SubmittedAt.ISO())
	if err != nil {
		return errors.DatabaseError("failed to save feedback", err)
	}
	return nil
}

// ListFeedback returns the newest feedback submissions, optionally for one sample
func (r *CandidateRepositoryImpl) ListFeedback(ctx context.Context, sampleID core.SampleID, limit int) ([]*ports.FeedbackSubmission, error) {
	query := `SELECT id, session_id, sample_id, criteria_json, submitted_at FROM feedback_submissions`
	var args []interface{}
	if sampleID != "" {
		query += ` WHERE sample_id = ?`
		args = append(args, sampleID.String())
	}
	query += ` ORDER BY submitted_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []feedbackRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.DatabaseError("failed to list feedback", err)
	}

	out := make([]*ports.FeedbackSubmission, 0, len(rows))
	for _, row := range rows {
		f, err := row.toFeedback()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (row candidateRow) toCandidate() (*ports.SavedCandidate, error) {
	var criteria sample.Criteria
	if err := json.Unmarshal([]byte(row.CriteriaJSON), &criteria); err != nil {
		return nil, fmt.Errorf("candidate %s: %w", row.ID, err)
	}
	savedAt, err := core.ParseTimestamp(row.SavedAt)
	if err != nil {
		return nil, fmt.Errorf("candidate %s: %w", row.ID, err)
	}
	return &ports.SavedCandidate{
		ID:          core.CandidateID(row.ID),
		SessionID:   core.SessionID(row.SessionID),
		SampleID:    core.SampleID(row.SampleID),
		SampleName:  row.SampleName,
		Criteria:    criteria,
		Disposition: sample.Disposition(row.Disposition),
		Confidence:  row.Confidence,
		SavedAt:     savedAt,
	}, nil
}

func (row feedbackRow) toFeedback() (*ports.FeedbackSubmission, error) {
	var criteria sample.Criteria
	if err := json.Unmarshal([]byte(row.CriteriaJSON), &criteria); err != nil {
		return nil, fmt.Errorf("feedback %s: %w", row.ID, err)
	}
	submittedAt, err := core.ParseTimestamp(row.SubmittedAt)
	if err != nil {
		return nil, fmt.Errorf("feedback %s: %w", row.ID, err)
	}
	return &ports.FeedbackSubmission{
		ID:          core.FeedbackID(row.ID),
		SessionID:   core.SessionID(row.SessionID),
		SampleID:    core.SampleID(row.SampleID),
		Criteria:    criteria,
		SubmittedAt: submittedAt,
	}, nil
}
