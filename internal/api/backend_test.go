package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exoml/adapters/catalog"
	"exoml/internal/explain"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	store, err := catalog.NewStore(catalog.BuiltinSamples())
	require.NoError(t, err)
	return NewBackend(explain.NewService(store, nil), []string{"http://localhost:3000"})
}

func TestExplainSampleEndpoint(t *testing.T) {
	b := newBackend(t)

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"first sample", "?index=0", http.StatusOK},
		{"last sample", "?index=4", http.StatusOK},
		{"out of range", "?index=5", http.StatusNotFound},
		{"negative", "?index=-1", http.StatusNotFound},
		{"not a number", "?index=abc", http.StatusBadRequest},
		{"missing defaults to first", "", http.StatusOK},
		{"empty value", "?index=", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			b.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/explain_sample"+tt.query, nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestExplainSampleDefaultsToFirst(t *testing.T) {
	b := newBackend(t)

	bare := httptest.NewRecorder()
	b.ServeHTTP(bare, httptest.NewRequest(http.MethodGet, "/api/explain_sample", nil))
	require.Equal(t, http.StatusOK, bare.Code)

	first := httptest.NewRecorder()
	b.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/explain_sample?index=0", nil))
	assert.JSONEq(t, first.Body.String(), bare.Body.String())
}

func TestExplainSamplePayload(t *testing.T) {
	rec := httptest.NewRecorder()
	newBackend(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/explain_sample?index=0", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body explain.Explanation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CONFIRMED", body.Prediction)
	assert.InDelta(t, 0.85, body.Confidence, 1e-9)
	assert.Equal(t, "feature_bars", body.Criteria["Transit Signal Reliability"].Visual["type"])
}

func TestRetrainEndpoint(t *testing.T) {
	b := newBackend(t)

	rec := httptest.NewRecorder()
	b.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/retrain", strings.NewReader(`{"index": 2}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","message":"Model updated with scientist feedback."}`, rec.Body.String())

	rec = httptest.NewRecorder()
	b.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/retrain", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newBackend(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","message":"Backend is running"}`, rec.Body.String())
}

func TestCORSAllowsOnlyConfiguredOrigins(t *testing.T) {
	b := newBackend(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	b.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	b.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/retrain", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	b.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}
