// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package places

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/workaround-app/workaround/internal/config"
	"github.com/workaround-app/workaround/internal/metrics"
	"github.com/workaround-app/workaround/internal/models"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics.
const maxErrorBodySize = 64 * 1024 // 64KB

// Searcher is the provider contract consumed by the crawler. A nil/empty
// NextToken on the returned page ends pagination; an empty result set is not
// an error.
//
// Implemented by Client for production and by stubs in tests.
type Searcher interface {
	Search(ctx context.Context, center models.Coordinates, radiusMeters int, category models.Category, pageToken string) (*Page, error)
}

// Client talks to the places provider over HTTP.
//
// A shared rate limiter caps the aggregate request rate across concurrent
// tile workers. The pagination backoff (waiting for a continuation token to
// become valid) is the caller's concern, not the client's: it is a property
// of a single query's page chain, not of the transport.
//
// Thread safety: safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a provider client from configuration.
func NewClient(cfg *config.ProviderConfig) *Client {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// Search issues one nearby-search request and returns one page of results.
// Pass the NextToken of the previous page to continue a page chain; the
// caller must wait the provider's token backoff first.
func (c *Client) Search(ctx context.Context, center models.Coordinates, radiusMeters int, category models.Category, pageToken string) (*Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL, err := c.buildSearchURL(center, radiusMeters, category, pageToken)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(string(category)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("provider returned HTTP %d: %s", resp.StatusCode, body)
	}

	var envelope searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	// ZERO_RESULTS is a valid empty page, not an error.
	if envelope.Status != "OK" && envelope.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("provider status %s: %s", envelope.Status, envelope.ErrorMessage)
	}

	page := &Page{NextToken: envelope.NextPageToken}
	for _, rawResult := range envelope.Results {
		var place RawPlace
		if err := json.Unmarshal(rawResult, &place); err != nil {
			return nil, fmt.Errorf("decode provider result: %w", err)
		}
		place.Raw = rawResult
		page.Results = append(page.Results, place)
	}

	return page, nil
}

// buildSearchURL assembles the nearby-search request URL.
func (c *Client) buildSearchURL(center models.Coordinates, radiusMeters int, category models.Category, pageToken string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid provider base URL %q: %w", c.baseURL, err)
	}

	q := u.Query()
	q.Set("location", fmt.Sprintf("%f,%f", center.Lat, center.Lng))
	q.Set("radius", fmt.Sprintf("%d", radiusMeters))
	q.Set("type", string(category))
	q.Set("key", c.apiKey)
	if pageToken != "" {
		q.Set("pagetoken", pageToken)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}
