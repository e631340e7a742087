package ports

import (
	"context"

	"smartrouting/internal/domain"
)

// Port: persistent cache of resolved distances keyed by canonical
// (loc1 < loc2) address pairs. The cache outlives individual requests and is
// shared across concurrent calculations.
type DistanceCacheStore interface {
	// Get returns every cached entry whose pair is drawn from the given
	// address ids.
	Get(ctx context.Context, ids []int) ([]domain.DistanceCacheEntry, error)

	// Upsert stores a distance for the canonical pair of loc1 and loc2,
	// overwriting any previous value. Implementations must be atomic per
	// pair so concurrent writers cannot produce duplicates.
	Upsert(ctx context.Context, loc1, loc2 int, meters float64) error
}
