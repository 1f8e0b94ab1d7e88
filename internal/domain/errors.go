package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable signals an unreachable embedding model or vector database.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrCollectionNotFound signals a missing collection.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch for a collection.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrInvalidRecord signals a catalog record rejected at the ingestion boundary.
	ErrInvalidRecord = errors.New("invalid game record")
	// ErrGameNotFound signals a point fetch for an app id with no stored point.
	ErrGameNotFound = errors.New("game not found")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrLLMProvider signals a chat completion provider failure.
	ErrLLMProvider = errors.New("llm provider error")
	// ErrRecommendationFailed signals a fatal recommend invocation failure.
	ErrRecommendationFailed = errors.New("recommendation failed")
)

// Stage identifies the pipeline stage at which a fatal error occurred.
type Stage string

// Pipeline stages.
const (
	StageEnhance    Stage = "enhance_query"
	StageSearch     Stage = "search_games"
	StageSynthesize Stage = "format_results"
)

// RecommendationError wraps ErrRecommendationFailed with the originating
// cause and the stage at which it occurred.
type RecommendationError struct {
	Stage Stage
	Err   error
}

func (e *RecommendationError) Error() string {
	return fmt.Sprintf("%s at stage %s: %v", ErrRecommendationFailed.Error(), e.Stage, e.Err)
}

func (e *RecommendationError) Unwrap() error { return e.Err }

// Is matches ErrRecommendationFailed in addition to the wrapped cause chain.
func (e *RecommendationError) Is(target error) bool {
	return target == ErrRecommendationFailed
}

// NewRecommendationFailed creates a stage-tagged recommendation error.
func NewRecommendationFailed(stage Stage, err error) error {
	return &RecommendationError{Stage: stage, Err: err}
}
