package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"smartrouting/internal/adapters/distance"
	"smartrouting/internal/adapters/store"
	"smartrouting/internal/domain"
)

var (
	hubPoint  = domain.GeoPoint{Lat: 55.7520, Lon: 37.6175}
	nearPoint = domain.GeoPoint{Lat: 55.7525, Lon: 37.6231} // a few hundred meters
	farPoint  = domain.GeoPoint{Lat: 55.9000, Lon: 37.9000} // tens of kilometers
)

func addr(id int, pt domain.GeoPoint) domain.Address {
	p := pt
	return domain.Address{ID: id, Name: "addr", Location: &p}
}

func TestDistanceSameAddress(t *testing.T) {
	r := NewDistanceResolver(store.NewMemoryDistanceCache(), nil, 1000, zerolog.Nop())

	a := addr(1, hubPoint)
	d, err := r.Distance(context.Background(), a, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 0 {
		t.Fatalf("distance = %v, want 0", d)
	}
}

func TestDistanceBelowThresholdSkipsProvider(t *testing.T) {
	provider := distance.NewMockRoadDistanceProvider()
	r := NewDistanceResolver(store.NewMemoryDistanceCache(), provider, 1000, zerolog.Nop())

	a, b := addr(1, hubPoint), addr(2, nearPoint)
	d, err := r.Distance(context.Background(), a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Haversine(hubPoint, nearPoint)
	if math.Abs(d-want) > 1e-9 {
		t.Fatalf("distance = %v, want great-circle %v", d, want)
	}
	if provider.Calls != 0 {
		t.Fatalf("provider calls = %d, want 0", provider.Calls)
	}
}

func TestDistanceAboveThresholdUsesProvider(t *testing.T) {
	provider := distance.NewMockRoadDistanceProvider()
	provider.Set(hubPoint, farPoint, 30000)
	cache := store.NewMemoryDistanceCache()
	r := NewDistanceResolver(cache, provider, 1000, zerolog.Nop())

	a, b := addr(1, hubPoint), addr(2, farPoint)
	d, err := r.Distance(context.Background(), a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 30000 {
		t.Fatalf("distance = %v, want 30000", d)
	}
	if cache.Len() != 1 {
		t.Fatalf("cache entries = %d, want 1", cache.Len())
	}

	// Repeats in either direction come from the memo.
	if _, err := r.Distance(context.Background(), b, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Calls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.Calls)
	}
}

func TestDistanceProviderFailureFallsBack(t *testing.T) {
	// An empty mock fails every query.
	provider := distance.NewMockRoadDistanceProvider()
	r := NewDistanceResolver(store.NewMemoryDistanceCache(), provider, 1000, zerolog.Nop())

	a, b := addr(1, hubPoint), addr(2, farPoint)
	d, err := r.Distance(context.Background(), a, b)
	if err != nil {
		t.Fatalf("fallback should absorb the provider failure, got %v", err)
	}

	want := domain.Haversine(hubPoint, farPoint)
	if math.Abs(d-want) > 1e-9 {
		t.Fatalf("distance = %v, want great-circle %v", d, want)
	}
}

func TestDistanceMissingLocation(t *testing.T) {
	r := NewDistanceResolver(store.NewMemoryDistanceCache(), nil, 1000, zerolog.Nop())

	a := addr(1, hubPoint)
	b := domain.Address{ID: 2, Name: "ungeocode"}
	if _, err := r.Distance(context.Background(), a, b); !errors.Is(err, ErrMissingLocation) {
		t.Fatalf("err = %v, want ErrMissingLocation", err)
	}
}

func TestWarmPreloadsCachedPairs(t *testing.T) {
	cache := store.NewMemoryDistanceCache()
	if err := cache.Upsert(context.Background(), 1, 2, 42000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	provider := distance.NewMockRoadDistanceProvider()
	r := NewDistanceResolver(cache, provider, 1000, zerolog.Nop())
	if err := r.Warm(context.Background(), []int{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, err := r.Distance(context.Background(), addr(1, hubPoint), addr(2, farPoint))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 42000 {
		t.Fatalf("distance = %v, want cached 42000", d)
	}
	if provider.Calls != 0 {
		t.Fatalf("provider calls = %d, want 0", provider.Calls)
	}
}

func TestPairwiseSymmetric(t *testing.T) {
	points := []domain.GeoPoint{hubPoint, nearPoint, farPoint}
	m := Pairwise(points)

	if len(m) != 3 {
		t.Fatalf("matrix size = %d, want 3", len(m))
	}
	for i := range m {
		if m[i][i] != 0 {
			t.Fatalf("diagonal [%d][%d] = %v, want 0", i, i, m[i][i])
		}
		for j := range m {
			if m[i][j] != m[j][i] {
				t.Fatalf("asymmetric at [%d][%d]", i, j)
			}
		}
	}
	if m[0][2] <= m[0][1] {
		t.Fatalf("far pair %v not larger than near pair %v", m[0][2], m[0][1])
	}
}
