package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"exoml/internal/errors"
	"exoml/internal/explain"
)

const maxFeedbackBytes = 1 << 20

// Backend serves the explanation API consumed by external front ends
type Backend struct {
	router  *chi.Mux
	service *explain.Service
	origins map[string]bool
}

// NewBackend builds the chi router. Cross-origin requests are answered
// only for the listed origins.
func NewBackend(service *explain.Service, corsOrigins []string) *Backend {
	b := &Backend{
		router:  chi.NewRouter(),
		service: service,
		origins: make(map[string]bool, len(corsOrigins)),
	}
	for _, o := range corsOrigins {
		b.origins[o] = true
	}

	b.setupMiddleware()
	b.setupRoutes()
	return b
}

func (b *Backend) setupMiddleware() {
	b.router.Use(middleware.RequestID)
	b.router.Use(middleware.Logger)
	b.router.Use(middleware.Recoverer)
	b.router.Use(middleware.Compress(5))
	b.router.Use(b.cors)
}

func (b *Backend) setupRoutes() {
	b.router.Route("/api", func(r chi.Router) {
		r.Get("/explain_sample", b.handleExplainSample)
		r.Post("/retrain", b.handleRetrain)
		r.Get("/health", b.handleHealth)
	})
}

// ServeHTTP implements http.Handler
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

func (b *Backend) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && b.origins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) handleExplainSample(w http.ResponseWriter, r *http.Request) {
	// a missing index explains the first sample
	index := 0
	if raw := r.URL.Query().Get("index"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index must be an integer"})
			return
		}
		index = parsed
	}

	exp, err := b.service.Explain(index)
	if err != nil {
		writeJSON(w, errors.HTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (b *Backend) handleRetrain(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFeedbackBytes))
	if err == nil {
		_, err = b.service.Retrain(r.Context(), body)
	}
	if err != nil {
		log.Printf("[Backend] Retrain failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Model updated with scientist feedback.",
	})
}

func (b *Backend) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Backend is running",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Backend] Failed to encode response: %v", err)
	}
}
