package domain

// A known delivery location. Location may be absent when the address has not
// been geocoded yet; the routing engine rejects such addresses when it needs
// coordinates.
type Address struct {
	ID       int
	Name     string
	Location *GeoPoint
}

// CanonicalPair orders two address ids so that an unordered pair always maps
// to the same cache key (loc1 < loc2).
func CanonicalPair(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

// A persisted distance between an unordered pair of addresses.
// Loc1 < Loc2 by construction; Distance is nil when not yet known.
type DistanceCacheEntry struct {
	Loc1     int
	Loc2     int
	Distance *float64
}
