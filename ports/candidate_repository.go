package ports

import (
	"context"

	"exoml/domain/core"
	"exoml/domain/sample"
)

// SavedCandidate is a snapshot of the viewer state captured by "save candidate"
type SavedCandidate struct {
	ID          core.CandidateID   `json:"id"`
	SessionID   core.SessionID     `json:"session_id"`
	SampleID    core.SampleID      `json:"sampleId"`
	SampleName  string             `json:"sampleName"`
	Criteria    sample.Criteria    `json:"criteria"`
	Disposition sample.Disposition `json:"disposition"`
	Confidence  string             `json:"confidence"`
	SavedAt     core.Timestamp     `json:"timestamp"`
}

// FeedbackSubmission is a set of corrected criteria sent for retraining
type FeedbackSubmission struct {
	ID          core.FeedbackID `json:"id"`
	SessionID   core.SessionID  `json:"session_id,omitempty"`
	SampleID    core.SampleID   `json:"sample_id"`
	Criteria    sample.Criteria `json:"criteria"`
	SubmittedAt core.Timestamp  `json:"submitted_at"`
}

// CandidateRepository persists saved candidates and feedback submissions
type CandidateRepository interface {
	SaveCandidate(ctx context.Context, c *SavedCandidate) error
	ListCandidates(ctx context.Context, sampleID core.SampleID, limit int) ([]*SavedCandidate, error)

	SaveFeedback(ctx context.Context, f *FeedbackSubmission) error
	ListFeedback(ctx context.Context, sampleID core.SampleID, limit int) ([]*FeedbackSubmission, error)
}
