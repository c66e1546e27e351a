package export

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"exoml/adapters/catalog"
	"exoml/domain/core"
	"exoml/domain/sample"
	"exoml/internal"
	"exoml/internal/viewer"
	"exoml/ports"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) SaveCandidate(ctx context.Context, c *ports.SavedCandidate) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepo) ListCandidates(ctx context.Context, sampleID core.SampleID, limit int) ([]*ports.SavedCandidate, error) {
	args := m.Called(ctx, sampleID, limit)
	return args.Get(0).([]*ports.SavedCandidate), args.Error(1)
}

func (m *mockRepo) SaveFeedback(ctx context.Context, f *ports.FeedbackSubmission) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockRepo) ListFeedback(ctx context.Context, sampleID core.SampleID, limit int) ([]*ports.FeedbackSubmission, error) {
	args := m.Called(ctx, sampleID, limit)
	return args.Get(0).([]*ports.FeedbackSubmission), args.Error(1)
}

func testState(index int) viewer.State {
	samples := catalog.BuiltinSamples()
	return viewer.State{
		Index:    index,
		Total:    len(samples),
		Sample:   samples[index],
		Criteria: samples[index].Criteria,
	}
}

func TestRecordJSONShape(t *testing.T) {
	st := testState(3)
	st.Criteria = st.Criteria.With(sample.TransitSignal, 0)
	at := core.NewTimestamp(time.Date(2026, 10, 19, 8, 30, 0, 123e6, time.UTC))

	body, err := NewRecord(st, at).JSON()
	require.NoError(t, err)

	want := `{
  "sampleId": "K00754.01",
  "sampleName": "False Positive",
  "criteria": {
    "transit-signal": 0,
    "false-positive": 95,
    "planetary-plausibility": 15,
    "orbit-plausibility": 8,
    "temperature-habitability": 12
  },
  "disposition": "FALSE POSITIVE",
  "confidence": "74% Confidence",
  "timestamp": "2026-10-19T08:30:00.123Z"
}`
	assert.Equal(t, want, string(body))
}

func TestRecordRoundTripsCriteria(t *testing.T) {
	for v := 0; v <= 100; v += 7 {
		st := testState(2)
		st.Criteria = st.Criteria.With(sample.OrbitPlausibility, v)

		body, err := NewRecord(st, core.Now()).JSON()
		require.NoError(t, err)
		rec, err := ParseRecord(body)
		require.NoError(t, err)
		assert.Equal(t, st.Criteria, rec.Criteria)
	}

	_, err := ParseRecord([]byte(`{"criteria": {"transit-signal": 1}}`))
	assert.Error(t, err)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "exoml-data-K00752.01.json", DataFileName("K00752.01"))
	assert.Equal(t, "exoml-visualization-K00752.01.png", VisualizationFileName("K00752.01"))
}

func TestSaveCandidateLogsWithoutRepository(t *testing.T) {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	s := NewSaver(nil, internal.NewLogger(internal.LogLevelInfo))
	assert.False(t, s.Persistent())

	c, err := s.SaveCandidate(context.Background(), core.NewSessionID(), testState(0))
	require.NoError(t, err)
	assert.Equal(t, "85% Confidence", c.Confidence)
	assert.Contains(t, buf.String(), "Saving candidate")
	assert.Contains(t, buf.String(), `"sampleId":"K00752.01"`)
}

func TestSaveCandidatePersists(t *testing.T) {
	repo := new(mockRepo)
	session := core.NewSessionID()
	repo.On("SaveCandidate", mock.Anything, mock.MatchedBy(func(c *ports.SavedCandidate) bool {
		return c.SessionID == session && c.SampleID == "K00753.01" && c.Confidence == "51% Confidence"
	})).Return(nil)

	s := NewSaver(repo, internal.NewLogger(internal.LogLevelError))
	_, err := s.SaveCandidate(context.Background(), session, testState(2))
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecordFeedbackSurfacesRepositoryError(t *testing.T) {
	repo := new(mockRepo)
	repo.On("SaveFeedback", mock.Anything, mock.Anything).Return(fmt.Errorf("disk full"))

	s := NewSaver(repo, internal.NewLogger(internal.LogLevelError))
	_, err := s.RecordFeedback(context.Background(), core.NewSessionID(), testState(1))
	assert.ErrorContains(t, err, "disk full")
	repo.AssertExpectations(t)
}
