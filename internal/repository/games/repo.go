// Package games stores indexed game points in the vector database and runs
// similarity searches over them.
package games

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vibefinder/vibefinder/internal/db"
	"github.com/vibefinder/vibefinder/internal/domain"
)

// store is the consumer interface for game points (ISP).
type store interface {
	Ping(ctx context.Context) error
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) []error
	Get(ctx context.Context, key string) ([]byte, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	SetNX(ctx context.Context, key string, value []byte) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Config holds collection naming and index tuning.
type Config struct {
	Collection      string
	KeyPrefix       string
	HNSWM           int
	HNSWEFConstruct int
}

// Repo implements point storage for one game collection.
type Repo struct {
	store store
	cfg   Config
}

// Point pairs a validated game record with its embedding, ready for upsert.
type Point struct {
	Record domain.GameRecord
	Vector []float32
}

// collectionMeta is the per-collection record fixed at creation time.
type collectionMeta struct {
	Dimensions int `json:"dimensions"`
}

// New creates a game point repository.
func New(s store, cfg Config) *Repo {
	return &Repo{store: s, cfg: cfg}
}

// EnsureCollection creates the collection if absent. Creation is atomic:
// the meta record is claimed with SET NX, and a racing FT.CREATE losing to
// another caller is absorbed. An existing collection with a different vector
// dimension is rejected here, not at insert time.
func (r *Repo) EnsureCollection(ctx context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("dimension must be positive, got %d", dim)
	}

	meta, err := json.Marshal(collectionMeta{Dimensions: dim})
	if err != nil {
		return fmt.Errorf("marshal collection meta: %w", err)
	}

	claimed, err := r.store.SetNX(ctx, r.metaKey(), meta)
	if err != nil {
		return fmt.Errorf("claim collection meta: %w", err)
	}

	if !claimed {
		existing, err := r.readMeta(ctx)
		if err != nil {
			return err
		}
		if existing.Dimensions != dim {
			return fmt.Errorf(
				"collection %s holds %d-dim vectors, embedder produces %d: %w",
				r.cfg.Collection, existing.Dimensions, dim, domain.ErrVectorDimMismatch,
			)
		}
	}

	def := &db.IndexDefinition{
		Name:     r.indexName(),
		Prefixes: []string{r.pointPrefix()},
		Fields: []db.IndexField{
			{Name: fieldCategory, Type: db.IndexFieldTag},
			{Name: fieldRating, Type: db.IndexFieldNumeric},
			{
				Name:              fieldVector,
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         dim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.cfg.HNSWM,
				VectorEFConstruct: r.cfg.HNSWEFConstruct,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

// Upsert stores one game point keyed by app_id, replacing any prior
// vector and payload for the same id.
func (r *Repo) Upsert(ctx context.Context, p Point) error {
	if err := r.store.HSet(ctx, r.pointKey(p.Record.AppID), buildHashFields(p.Record, p.Vector)); err != nil {
		return fmt.Errorf("upsert point %s: %w", p.Record.AppID, err)
	}
	return nil
}

// UpsertBatch stores points in one pipelined round-trip. The returned map
// holds per-app_id failures; absent ids succeeded.
func (r *Repo) UpsertBatch(ctx context.Context, points []Point) map[string]error {
	if len(points) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(points))
	for i, p := range points {
		items[i] = db.HashSetItem{
			Key:    r.pointKey(p.Record.AppID),
			Fields: buildHashFields(p.Record, p.Vector),
		}
	}

	failed := make(map[string]error)
	for i, err := range r.store.HSetMulti(ctx, items) {
		if err != nil {
			failed[points[i].Record.AppID] = err
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return failed
}

// Get fetches one stored game point by app_id. A missing or empty hash
// maps to ErrGameNotFound.
func (r *Repo) Get(ctx context.Context, appID string) (domain.GameRecord, error) {
	fields, err := r.store.HGetAll(ctx, r.pointKey(appID))
	if err != nil {
		return domain.GameRecord{}, fmt.Errorf("get point %s: %w", appID, err)
	}
	if len(fields) == 0 {
		return domain.GameRecord{}, fmt.Errorf("app %s: %w", appID, domain.ErrGameNotFound)
	}
	return parseRecord(fields), nil
}

// Search runs KNN over the collection and converts entries to SearchHits.
// Entries come back sorted by ascending distance, i.e. descending similarity.
func (r *Repo) Search(ctx context.Context, vector []float32, k int) ([]domain.SearchHit, error) {
	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName(),
		Vector:       vector,
		K:            k,
		ReturnFields: payloadFields,
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("collection %s: %w", r.cfg.Collection, domain.ErrCollectionNotFound)
		}
		return nil, fmt.Errorf("search knn: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(result.Entries))
	for _, entry := range result.Entries {
		hits = append(hits, parseHit(entry.Fields, entry.Score))
	}
	return hits, nil
}

// Count returns the number of points in the collection, 0 when the
// collection does not exist yet.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), "*")
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("count points: %w", err)
	}
	return n, nil
}

// Ping reports database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *Repo) readMeta(ctx context.Context) (collectionMeta, error) {
	raw, err := r.store.Get(ctx, r.metaKey())
	if err != nil {
		return collectionMeta{}, fmt.Errorf("read collection meta: %w", err)
	}
	var meta collectionMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return collectionMeta{}, fmt.Errorf("parse collection meta: %w", err)
	}
	return meta, nil
}

func (r *Repo) indexName() string {
	return "idx:" + r.cfg.Collection
}

func (r *Repo) metaKey() string {
	return r.cfg.KeyPrefix + r.cfg.Collection + ":meta"
}

func (r *Repo) pointPrefix() string {
	return r.cfg.KeyPrefix + r.cfg.Collection + ":game:"
}

func (r *Repo) pointKey(appID string) string {
	return r.pointPrefix() + appID
}
