package domain

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	// Moscow Kremlin to Saint Basil's Cathedral, roughly 630 m apart.
	a := GeoPoint{Lat: 55.7520, Lon: 37.6175}
	b := GeoPoint{Lat: 55.7525, Lon: 37.6231}

	d := Haversine(a, b)
	if d < 300 || d > 1000 {
		t.Fatalf("Haversine = %v, want a few hundred meters", d)
	}

	if got := Haversine(a, a); got != 0 {
		t.Fatalf("Haversine(a, a) = %v, want 0", got)
	}
	if da, db := Haversine(a, b), Haversine(b, a); math.Abs(da-db) > 1e-9 {
		t.Fatalf("asymmetric distance: %v vs %v", da, db)
	}
}

func TestBearingRange(t *testing.T) {
	center := GeoPoint{Lat: 50, Lon: 10}
	points := []GeoPoint{
		{Lat: 51, Lon: 10}, // north
		{Lat: 50, Lon: 11}, // east
		{Lat: 49, Lon: 10}, // south
		{Lat: 50, Lon: 9},  // west
	}
	want := []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}

	for i, p := range points {
		got := Bearing(center, p)
		if got < 0 || got >= 2*math.Pi {
			t.Fatalf("Bearing out of range: %v", got)
		}
		if math.Abs(got-want[i]) > 0.05 {
			t.Errorf("Bearing to %v = %v, want about %v", p, got, want[i])
		}
	}
}

func TestCanonicalPair(t *testing.T) {
	if l1, l2 := CanonicalPair(7, 3); l1 != 3 || l2 != 7 {
		t.Fatalf("CanonicalPair(7, 3) = (%d, %d), want (3, 7)", l1, l2)
	}
	if l1, l2 := CanonicalPair(3, 7); l1 != 3 || l2 != 7 {
		t.Fatalf("CanonicalPair(3, 7) = (%d, %d), want (3, 7)", l1, l2)
	}
}
