package distance

import (
	"context"
	"fmt"

	"smartrouting/internal/domain"
	"smartrouting/internal/ports"
)

// MockRoadDistanceProvider serves distances from a fixed table, keyed by
// coordinate pair. Pairs not in the table report ErrProviderUnavailable.
type MockRoadDistanceProvider struct {
	m     map[[4]float64]float64
	Calls int
}

func NewMockRoadDistanceProvider() *MockRoadDistanceProvider {
	return &MockRoadDistanceProvider{m: make(map[[4]float64]float64)}
}

// Set registers the distance for both directions of a pair.
func (p *MockRoadDistanceProvider) Set(a, b domain.GeoPoint, meters float64) {
	p.m[[4]float64{a.Lat, a.Lon, b.Lat, b.Lon}] = meters
	p.m[[4]float64{b.Lat, b.Lon, a.Lat, a.Lon}] = meters
}

func (p *MockRoadDistanceProvider) Query(_ context.Context, origin, destination domain.GeoPoint) (float64, error) {
	p.Calls++
	d, ok := p.m[[4]float64{origin.Lat, origin.Lon, destination.Lat, destination.Lon}]
	if !ok {
		return 0, fmt.Errorf("mock provider: no distance for %v -> %v: %w", origin, destination, ports.ErrProviderUnavailable)
	}
	return d, nil
}
