package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// Implementations are constructed once and shared read-only; Embed is safe
// for concurrent use by independent invocations.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies provider availability without side effects.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
