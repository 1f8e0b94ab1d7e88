// Package index maintains the game vector collection: embedding records,
// upserting them as points, and running similarity searches.
package index

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vibefinder/vibefinder/internal/domain"
	"github.com/vibefinder/vibefinder/internal/domain/batch"
	"github.com/vibefinder/vibefinder/internal/repository/games"
)

// Config holds search defaults.
type Config struct {
	SearchLimit    int
	ScoreThreshold float64
	MaxBatchSize   int
}

// Service implements game indexing and vector search.
type Service struct {
	repo     repository
	embedder embedder
	cfg      Config
	logger   *zap.Logger
}

// NewService creates an indexing service.
func NewService(repo repository, emb embedder, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		embedder: emb,
		cfg:      cfg,
		logger:   logger,
	}
}

// EnsureCollection creates the collection sized to the embedder's output
// dimension. Safe to call on every startup.
func (s *Service) EnsureCollection(ctx context.Context) error {
	dim := s.embedder.Dimensions()
	if err := s.repo.EnsureCollection(ctx, dim); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	s.logger.Info("collection ready", zap.Int("dimensions", dim))
	return nil
}

// AddGames validates, embeds, and upserts records. Invalid or unembeddable
// records are skipped with a reason; one bad record never fails the batch.
// The returned report holds per-record outcomes in input order.
func (s *Service) AddGames(ctx context.Context, records []domain.GameRecord) (*batch.Report, error) {
	if len(records) == 0 {
		return batch.NewReport(), nil
	}
	if s.cfg.MaxBatchSize > 0 && len(records) > s.cfg.MaxBatchSize {
		return nil, fmt.Errorf("batch of %d exceeds limit %d: %w",
			len(records), s.cfg.MaxBatchSize, domain.ErrInvalidRecord)
	}

	results := make([]batch.Result, len(records))
	points := make([]games.Point, 0, len(records))
	pointIdx := make([]int, 0, len(records))
	dim := s.embedder.Dimensions()

	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			results[i] = batch.NewSkipped(rec.AppID, err.Error())
			continue
		}

		result, err := s.embedder.Embed(ctx, rec.EmbeddingText())
		if err != nil {
			s.logger.Warn("embedding failed, skipping record",
				zap.String("app_id", rec.AppID), zap.Error(err))
			results[i] = batch.NewSkipped(rec.AppID, fmt.Sprintf("embedding failed: %v", err))
			continue
		}
		if len(result.Embedding) != dim {
			results[i] = batch.NewSkipped(rec.AppID, fmt.Sprintf(
				"embedding has %d dimensions, collection expects %d",
				len(result.Embedding), dim))
			continue
		}

		points = append(points, games.Point{Record: rec, Vector: result.Embedding})
		pointIdx = append(pointIdx, i)
	}

	failed := s.repo.UpsertBatch(ctx, points)
	for n, p := range points {
		if err, ok := failed[p.Record.AppID]; ok {
			results[pointIdx[n]] = batch.NewSkipped(p.Record.AppID, fmt.Sprintf("store failed: %v", err))
			continue
		}
		results[pointIdx[n]] = batch.NewOK(p.Record.AppID)
	}

	report := batch.NewReport()
	for _, res := range results {
		report.Add(res)
	}

	s.logger.Info("indexed game batch",
		zap.Int("total", len(records)),
		zap.Int("succeeded", report.Succeeded()),
		zap.Int("skipped", report.Skipped()))
	return report, nil
}

// Search embeds the query and returns hits at or above the score threshold,
// best match first, at most SearchLimit results.
func (s *Service) Search(ctx context.Context, query string) ([]domain.SearchHit, error) {
	result, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.repo.Search(ctx, result.Embedding, s.cfg.SearchLimit)
	if err != nil {
		return nil, err
	}

	filtered := hits[:0]
	for _, hit := range hits {
		if hit.SimilarityScore >= s.cfg.ScoreThreshold {
			filtered = append(filtered, hit)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].SimilarityScore > filtered[j].SimilarityScore
	})
	if len(filtered) > s.cfg.SearchLimit {
		filtered = filtered[:s.cfg.SearchLimit]
	}
	return filtered, nil
}

// Game returns one indexed record by app id; ErrGameNotFound when absent.
func (s *Service) Game(ctx context.Context, appID string) (domain.GameRecord, error) {
	if appID == "" {
		return domain.GameRecord{}, fmt.Errorf("app_id is required: %w", domain.ErrInvalidRecord)
	}
	return s.repo.Get(ctx, appID)
}

// Count returns the number of indexed games.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Available reports whether the vector store is reachable. A failed probe
// surfaces as ErrBackendUnavailable so dependent callers can fail fast.
func (s *Service) Available(ctx context.Context) error {
	if err := s.repo.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	return nil
}
