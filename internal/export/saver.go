package export

import (
	"context"
	"encoding/json"

	"exoml/domain/core"
	"exoml/internal"
	"exoml/internal/errors"
	"exoml/internal/viewer"
	"exoml/ports"
)

// Saver records saved candidates and submitted corrections. The log line is
// always written; the repository is optional.
type Saver struct {
	repo   ports.CandidateRepository
	logger *internal.Logger
}

// NewSaver creates a saver. repo may be nil.
func NewSaver(repo ports.CandidateRepository, logger *internal.Logger) *Saver {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Saver{repo: repo, logger: logger}
}

// Persistent reports whether saves reach a repository
func (s *Saver) Persistent() bool { return s.repo != nil }

// SaveCandidate logs the current state and stores it when a repository is configured
func (s *Saver) SaveCandidate(ctx context.Context, sessionID core.SessionID, st viewer.State) (*ports.SavedCandidate, error) {
	rec := NewRecord(st, core.Now())
	candidate := &ports.SavedCandidate{
		ID:          core.CandidateID(core.NewID()),
		SessionID:   sessionID,
		SampleID:    rec.SampleID,
		SampleName:  rec.SampleName,
		Criteria:    rec.Criteria,
		Disposition: st.Sample.Disposition,
		Confidence:  rec.Confidence,
		SavedAt:     rec.Timestamp,
	}

	body, err := json.Marshal(candidate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode candidate")
	}
	s.logger.Info("[Export] Saving candidate: %s", body)

	if s.repo != nil {
		if err := s.repo.SaveCandidate(ctx, candidate); err != nil {
			return nil, errors.Wrapf(err, "failed to save candidate %s", rec.SampleID)
		}
	}
	return candidate, nil
}

// RecordFeedback stores the working criteria as a correction for retraining
func (s *Saver) RecordFeedback(ctx context.Context, sessionID core.SessionID, st viewer.State) (*ports.FeedbackSubmission, error) {
	fb := &ports.FeedbackSubmission{
		ID:          core.FeedbackID(core.NewID()),
		SessionID:   sessionID,
		SampleID:    st.Sample.ID,
		Criteria:    st.Criteria,
		SubmittedAt: core.Now(),
	}
	s.logger.Debug("[Export] Feedback for %s: %v", fb.SampleID, fb.Criteria.Map())

	if s.repo != nil {
		if err := s.repo.SaveFeedback(ctx, fb); err != nil {
			return nil, errors.Wrapf(err, "failed to record feedback for %s", fb.SampleID)
		}
	}
	return fb, nil
}
