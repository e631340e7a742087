// Package distance adapts an external distance-matrix HTTP API to the
// RoadDistanceProvider port.
package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"smartrouting/internal/domain"
	"smartrouting/internal/ports"
)

// HTTPRoadDistanceProvider queries a distance-matrix style endpoint for the
// road distance between two coordinates. Transient failures are retried
// with backoff; calls are rate limited client-side so a large cold-cache
// request does not exhaust the API quota.
//
// Every failure mode is reported as ports.ErrProviderUnavailable: the
// caller's contract is to degrade to a great-circle estimate, never to fail
// the routing request.
type HTTPRoadDistanceProvider struct {
	session *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
}

func NewHTTPRoadDistanceProvider(baseURL, apiKey string) *HTTPRoadDistanceProvider {
	return &HTTPRoadDistanceProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(10), 10),
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type matrixResponse struct {
	Rows []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// Query returns the road distance in meters between origin and destination.
func (p *HTTPRoadDistanceProvider) Query(ctx context.Context, origin, destination domain.GeoPoint) (float64, error) {
	if p.apiKey == "" {
		return 0, fmt.Errorf("query road distance: api key not configured: %w", ports.ErrProviderUnavailable)
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("query road distance: rate limit wait: %w", err)
	}

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		return p.newRequest(ctx, origin, destination)
	})
	if err != nil {
		return 0, fmt.Errorf("query road distance: %w: %w", ports.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	var parsed matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("query road distance: decode response: %w: %w", ports.ErrProviderUnavailable, err)
	}

	if len(parsed.Rows) == 0 || len(parsed.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("query road distance: empty matrix response: %w", ports.ErrProviderUnavailable)
	}
	el := parsed.Rows[0].Elements[0]
	if el.Status != "OK" {
		return 0, fmt.Errorf("query road distance: element status %q: %w", el.Status, ports.ErrProviderUnavailable)
	}
	return el.Distance.Value, nil
}

func (p *HTTPRoadDistanceProvider) newRequest(ctx context.Context, origin, destination domain.GeoPoint) (*http.Request, error) {
	q := url.Values{}
	q.Set("origins", formatPoint(origin))
	q.Set("destinations", formatPoint(destination))
	q.Set("units", "metric")
	q.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/distancematrix/json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func formatPoint(pt domain.GeoPoint) string {
	return strconv.FormatFloat(pt.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(pt.Lon, 'f', -1, 64)
}

type httpStatusError struct {
	Code int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

func (p *HTTPRoadDistanceProvider) do(req *http.Request) (*http.Response, error) {
	resp, err := p.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, &httpStatusError{Code: resp.StatusCode}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429, 5xx) with
// exponential backoff while respecting context cancellation.
func (p *HTTPRoadDistanceProvider) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 200 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, err
		}

		resp, err := p.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := true
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusTooManyRequests,
				http.StatusInternalServerError,
				http.StatusBadGateway,
				http.StatusServiceUnavailable,
				http.StatusGatewayTimeout:
				retry = true
			default:
				retry = false
			}
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return nil, lastErr
}
