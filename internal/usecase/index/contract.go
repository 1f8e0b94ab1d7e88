package index

import (
	"context"

	"github.com/vibefinder/vibefinder/internal/domain"
	"github.com/vibefinder/vibefinder/internal/repository/games"
)

// repository is the consumer interface over game point storage (ISP).
type repository interface {
	EnsureCollection(ctx context.Context, dim int) error
	UpsertBatch(ctx context.Context, points []games.Point) map[string]error
	Get(ctx context.Context, appID string) (domain.GameRecord, error)
	Search(ctx context.Context, vector []float32, k int) ([]domain.SearchHit, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// embedder produces vectors of a fixed, known dimension.
type embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
	Dimensions() int
}
