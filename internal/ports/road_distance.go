package ports

import (
	"context"
	"errors"

	"smartrouting/internal/domain"
)

// ErrProviderUnavailable reports that the external road-distance service
// could not produce a result (network failure, malformed response, missing
// credentials). Callers fall back to the great-circle estimate.
var ErrProviderUnavailable = errors.New("road distance provider unavailable")

// Port: external road-network distance lookup between two coordinates.
type RoadDistanceProvider interface {
	// Query returns the road distance in meters, or an error wrapping
	// ErrProviderUnavailable when no answer can be obtained.
	Query(ctx context.Context, origin, destination domain.GeoPoint) (float64, error)
}
