package domain

import "math"

// Mean Earth radius in meters, used for great-circle distances.
const EarthRadiusMeters = 6371000.0

// Immutable geographic coordinates (WGS-84 degrees).
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b GeoPoint) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	return EarthRadiusMeters * 2 * math.Asin(math.Sqrt(h))
}

// Bearing returns the initial bearing from a to b in radians, in [0, 2π).
// Used by sweep-style construction heuristics to order stops angularly
// around a depot.
func Bearing(a, b GeoPoint) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	th := math.Atan2(y, x)
	if th < 0 {
		th += 2 * math.Pi
	}
	return th
}

func toRadians(deg float64) float64 {
	return math.Pi * deg / 180.0
}
