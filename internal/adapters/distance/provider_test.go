package distance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"smartrouting/internal/domain"
	"smartrouting/internal/ports"
)

const matrixBody = `{
	"rows": [{"elements": [{"status": "OK", "distance": {"value": %d}}]}]
}`

func TestHTTPProviderQuery(t *testing.T) {
	var gotPath, gotOrigins, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotOrigins = r.URL.Query().Get("origins")
		gotKey = r.URL.Query().Get("key")
		fmt.Fprintf(w, matrixBody, 30250)
	}))
	defer srv.Close()

	p := NewHTTPRoadDistanceProvider(srv.URL, "test-key")
	d, err := p.Query(context.Background(), domain.GeoPoint{Lat: 55.75, Lon: 37.61}, domain.GeoPoint{Lat: 55.9, Lon: 37.9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 30250 {
		t.Fatalf("distance = %v, want 30250", d)
	}

	if gotPath != "/distancematrix/json" {
		t.Fatalf("path = %q, want /distancematrix/json", gotPath)
	}
	if gotOrigins != "55.75,37.61" {
		t.Fatalf("origins = %q, want 55.75,37.61", gotOrigins)
	}
	if gotKey != "test-key" {
		t.Fatalf("key = %q, want test-key", gotKey)
	}
}

func TestHTTPProviderMissingKey(t *testing.T) {
	p := NewHTTPRoadDistanceProvider("http://localhost", "")
	_, err := p.Query(context.Background(), domain.GeoPoint{}, domain.GeoPoint{})
	if !errors.Is(err, ports.ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestHTTPProviderElementNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"rows": [{"elements": [{"status": "ZERO_RESULTS"}]}]}`)
	}))
	defer srv.Close()

	p := NewHTTPRoadDistanceProvider(srv.URL, "test-key")
	_, err := p.Query(context.Background(), domain.GeoPoint{}, domain.GeoPoint{})
	if !errors.Is(err, ports.ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestHTTPProviderRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintf(w, matrixBody, 5000)
	}))
	defer srv.Close()

	p := NewHTTPRoadDistanceProvider(srv.URL, "test-key")
	d, err := p.Query(context.Background(), domain.GeoPoint{}, domain.GeoPoint{Lat: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 5000 {
		t.Fatalf("distance = %v, want 5000", d)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2 (one retry)", calls.Load())
	}
}

func TestHTTPProviderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewHTTPRoadDistanceProvider(srv.URL, "test-key")
	_, err := p.Query(context.Background(), domain.GeoPoint{}, domain.GeoPoint{Lat: 1})
	if !errors.Is(err, ports.ErrProviderUnavailable) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want no retry on 403", calls.Load())
	}
}
