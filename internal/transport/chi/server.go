// Package chi exposes the recommendation service over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vibefinder/vibefinder/internal/domain"
	"github.com/vibefinder/vibefinder/internal/domain/batch"
	healthuc "github.com/vibefinder/vibefinder/internal/usecase/health"
	"github.com/vibefinder/vibefinder/internal/usecase/recommend"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest           = "bad_request"
	codeValidationFailed     = "validation_failed"
	codeCollectionNotFound   = "collection_not_found"
	codeGameNotFound         = "game_not_found"
	codeVectorDimMismatch    = "vector_dim_mismatch"
	codeBackendUnavailable   = "backend_unavailable"
	codeEmbeddingProvider    = "embedding_provider_error"
	codeLLMProvider          = "llm_provider_error"
	codeRecommendationFailed = "recommendation_failed"
	codeInternalError        = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// recommender runs the full recommendation pipeline.
type recommender interface {
	Recommend(ctx context.Context, userQuery string) (recommend.Result, error)
}

// indexer maintains the game collection.
type indexer interface {
	AddGames(ctx context.Context, records []domain.GameRecord) (*batch.Report, error)
	Game(ctx context.Context, appID string) (domain.GameRecord, error)
	Count(ctx context.Context) (int, error)
}

// healthChecker aggregates component availability.
type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers.
type Server struct {
	recommender   recommender
	indexer       indexer
	health        healthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(rec recommender, idx indexer, health healthChecker, logger *zap.Logger) *Server {
	s := &Server{
		recommender: rec,
		indexer:     idx,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		recommendationFailedHandler,
		sentinelHandler(domain.ErrCollectionNotFound, http.StatusNotFound, codeCollectionNotFound),
		sentinelHandler(domain.ErrGameNotFound, http.StatusNotFound, codeGameNotFound),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrInvalidRecord, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusServiceUnavailable, codeBackendUnavailable),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrLLMProvider, http.StatusBadGateway, codeLLMProvider),
	}
	return s
}

// Routes mounts all handlers on a router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/recommend", s.RecommendGames)
	r.Post("/games", s.AddGames)
	r.Get("/games/{appID}", s.GetGame)
	r.Get("/collection/stats", s.CollectionStats)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// RecommendGames handles POST /recommend.
func (s *Server) RecommendGames(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	result, err := s.recommender.Recommend(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendResponseFromResult(result))
}

// AddGames handles POST /games.
func (s *Server) AddGames(w http.ResponseWriter, r *http.Request) {
	var req addGamesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Games) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "games list is required")
		return
	}

	report, err := s.indexer.AddGames(r.Context(), req.Games)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, addGamesResponseFromReport(report))
}

// GetGame handles GET /games/{appID}.
func (s *Server) GetGame(w http.ResponseWriter, r *http.Request) {
	rec, err := s.indexer.Game(r.Context(), chi.URLParam(r, "appID"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// CollectionStats handles GET /collection/stats.
func (s *Server) CollectionStats(w http.ResponseWriter, r *http.Request) {
	count, err := s.indexer.Count(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{GameCount: count})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrCollectionNotFound,
		domain.ErrGameNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrInvalidRecord,
		domain.ErrBackendUnavailable,
		domain.ErrEmbeddingProvider,
		domain.ErrLLMProvider,
		domain.ErrRecommendationFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// recommendationFailedHandler reports the failing stage alongside the error.
func recommendationFailedHandler(w http.ResponseWriter, err error, msg string) bool {
	var recErr *domain.RecommendationError
	if !errors.As(err, &recErr) {
		return false
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrCollectionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmbeddingProvider), errors.Is(err, domain.ErrLLMProvider):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrBackendUnavailable):
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"code":    codeRecommendationFailed,
		"message": msg,
		"stage":   string(recErr.Stage),
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
