package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"smartrouting/internal/domain"
	"smartrouting/internal/metrics"
	"smartrouting/internal/ports"
)

// ErrMissingLocation reports that a distance was requested for an address
// without coordinates and no cached value exists for the pair.
var ErrMissingLocation = errors.New("address has no location")

// DistanceResolver resolves travel distances between addresses.
//
// Resolution order: request-scoped memo, persistent cache, great-circle
// estimate, external road-distance provider. Provider results are persisted;
// provider failures degrade to the great-circle estimate so a routing
// request never fails only because the provider is down.
type DistanceResolver struct {
	cache    ports.DistanceCacheStore
	provider ports.RoadDistanceProvider

	// Great-circle distances below this many meters are accepted as-is.
	threshold float64

	memo map[[2]int]float64
	log  zerolog.Logger
}

func NewDistanceResolver(
	cache ports.DistanceCacheStore,
	provider ports.RoadDistanceProvider,
	thresholdMeters float64,
	log zerolog.Logger,
) *DistanceResolver {
	return &DistanceResolver{
		cache:     cache,
		provider:  provider,
		threshold: thresholdMeters,
		memo:      make(map[[2]int]float64),
		log:       log,
	}
}

// Warm preloads every persisted distance among the given address ids into
// the request-scoped memo, so solving reads a consistent snapshot.
func (r *DistanceResolver) Warm(ctx context.Context, ids []int) error {
	if r.cache == nil || len(ids) == 0 {
		return nil
	}
	entries, err := r.cache.Get(ctx, ids)
	if err != nil {
		return fmt.Errorf("warm distance cache: %w", err)
	}
	for _, e := range entries {
		if e.Distance == nil {
			continue
		}
		l1, l2 := domain.CanonicalPair(e.Loc1, e.Loc2)
		r.memo[[2]int{l1, l2}] = *e.Distance
		metrics.DistanceCacheHits.Inc()
	}
	return nil
}

// Distance returns the travel distance between two addresses in meters.
func (r *DistanceResolver) Distance(ctx context.Context, a, b domain.Address) (float64, error) {
	if a.ID == b.ID {
		return 0, nil
	}

	l1, l2 := domain.CanonicalPair(a.ID, b.ID)
	key := [2]int{l1, l2}
	if d, ok := r.memo[key]; ok {
		return d, nil
	}

	if a.Location == nil || b.Location == nil {
		return 0, fmt.Errorf("resolve distance %d->%d: %w", a.ID, b.ID, ErrMissingLocation)
	}

	greatCircle := domain.Haversine(*a.Location, *b.Location)
	if greatCircle < r.threshold {
		// Straight-line is accurate enough at this scale; an external
		// query is not worth its cost.
		r.memo[key] = greatCircle
		return greatCircle, nil
	}

	road, err := r.queryProvider(ctx, a, b)
	if err != nil {
		r.log.Warn().
			Int("loc1", l1).
			Int("loc2", l2).
			Err(err).
			Msg("road distance provider failed, using great-circle estimate")
		metrics.ProviderFallbacks.Inc()
		r.memo[key] = greatCircle
		return greatCircle, nil
	}

	r.memo[key] = road
	return road, nil
}

func (r *DistanceResolver) queryProvider(ctx context.Context, a, b domain.Address) (float64, error) {
	if r.provider == nil {
		return 0, ports.ErrProviderUnavailable
	}
	metrics.ProviderCalls.Inc()
	road, err := r.provider.Query(ctx, *a.Location, *b.Location)
	if err != nil {
		return 0, err
	}

	if r.cache != nil {
		l1, l2 := domain.CanonicalPair(a.ID, b.ID)
		if err := r.cache.Upsert(ctx, l1, l2, road); err != nil {
			// A failed write only costs a future re-resolution.
			r.log.Warn().Int("loc1", l1).Int("loc2", l2).Err(err).
				Msg("distance cache upsert failed")
		}
	}
	return road, nil
}

// Pairwise computes all symmetric great-circle distances among the given
// points. It never consults the external provider; callers use it for cache
// warm-up.
func Pairwise(points []domain.GeoPoint) [][]float64 {
	n := len(points)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := domain.Haversine(points[i], points[j])
			out[i][j] = d
			out[j][i] = d
		}
	}
	return out
}
