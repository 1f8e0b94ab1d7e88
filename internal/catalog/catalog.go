// Package catalog loads game records from local data sources for indexing.
package catalog

import (
	"context"

	"github.com/vibefinder/vibefinder/internal/domain"
)

// Source yields game records from one backing store.
type Source interface {
	Load(ctx context.Context) ([]domain.GameRecord, error)
}
