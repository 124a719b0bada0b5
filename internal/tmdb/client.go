// Package tmdb implements the themoviedb.org API client used by the crawl
// data sources.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/goodwatch/goodwatch-crawler/internal/metrics"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	userAgent      = "goodwatch-crawler/1.0 (+https://goodwatch.app)"

	movieAppendResponse = "alternative_titles,credits,external_ids,images,keywords,recommendations,release_dates,similar,translations,videos,watch/providers"
	tvAppendResponse    = "aggregate_credits,alternative_titles,content_ratings,external_ids,images,keywords,recommendations,similar,translations,videos,watch/providers"
)

// StatusError reports a non-200 response from the API.
type StatusError struct {
	Code     int
	Endpoint string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb: %s returned status %d", e.Endpoint, e.Code)
}

// RateLimited reports whether the status is a throttling signal. TMDB uses
// 403 and 503 when keys are throttled or the service sheds load.
func (e *StatusError) RateLimited() bool {
	return e.Code == http.StatusForbidden || e.Code == http.StatusServiceUnavailable
}

// Config controls the API client.
type Config struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client is a rate-limited TMDB API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient builds a Client. A zero RequestsPerSecond disables client-side
// pacing; the scheduler's reactive backoff still applies.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
	}
}

// MovieDetails fetches a movie with all append sub-resources in one call.
func (c *Client) MovieDetails(ctx context.Context, tmdbID int) (*MovieDetails, error) {
	params := url.Values{"append_to_response": {movieAppendResponse}}
	var details MovieDetails
	raw, err := c.get(ctx, fmt.Sprintf("/movie/%d", tmdbID), "/movie", params, &details)
	if err != nil {
		return nil, err
	}
	details.Raw = raw
	return &details, nil
}

// TVDetails fetches a tv show with all append sub-resources in one call.
func (c *Client) TVDetails(ctx context.Context, tmdbID int) (*TVDetails, error) {
	params := url.Values{"append_to_response": {tvAppendResponse}}
	var details TVDetails
	raw, err := c.get(ctx, fmt.Sprintf("/tv/%d", tmdbID), "/tv", params, &details)
	if err != nil {
		return nil, err
	}
	details.Raw = raw
	return &details, nil
}

// Collection fetches a movie collection.
func (c *Client) Collection(ctx context.Context, collectionID int) (*Collection, error) {
	var collection Collection
	raw, err := c.get(ctx, fmt.Sprintf("/collection/%d", collectionID), "/collection", nil, &collection)
	if err != nil {
		return nil, err
	}
	collection.Raw = raw
	return &collection, nil
}

func (c *Client) get(ctx context.Context, endpoint, label string, params url.Values, out any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("tmdb: rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	requestURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("tmdb: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb: get %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.ObserveAPIRequest(label, resp.StatusCode)
	c.logger.Debug("tmdb request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Endpoint: endpoint}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tmdb: read %s: %w", endpoint, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("tmdb: decode %s: %w", endpoint, err)
	}
	return body, nil
}
