// Copyright 2025 Moodcue Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tmdb implements the metadata enrichment client for The Movie
// Database (TMDB). This file provides the low-level HTTP client: Bearer
// authentication, request-rate limiting, and JSON decoding for the endpoints
// the enricher needs. Failures are returned as errors here; the enricher one
// layer up decides that they all degrade to "feature absent".
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production TMDB v3 API endpoint.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// DefaultImageBaseURL prefixes poster and logo paths returned by the API.
const DefaultImageBaseURL = "https://image.tmdb.org/t/p"

// Client is an authenticated, rate-limited HTTP client for the TMDB v3 API.
type Client struct {
	BaseURL      string
	ImageBaseURL string
	apiKey       string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// NewClient creates a TMDB client using a v4 Bearer token. requestsPerSecond
// guards against hammering the API when enrichment fans out across
// candidates; TMDB's own ceiling is generous, so the limit is per-process
// politeness rather than survival.
func NewClient(apiKey string, requestsPerSecond int) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 20
	}
	return &Client{
		BaseURL:      DefaultBaseURL,
		ImageBaseURL: DefaultImageBaseURL,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		limiter:      rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// SearchMovies queries /search/movie by free-text title.
func (c *Client) SearchMovies(ctx context.Context, query string) (*SearchResponse, error) {
	var out SearchResponse
	path := "/search/movie?query=" + url.QueryEscape(query) + "&include_adult=false"
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MovieDetail fetches /movie/{id}.
func (c *Client) MovieDetail(ctx context.Context, id int) (*MovieDetail, error) {
	var out MovieDetail
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WatchProviders fetches /movie/{id}/watch/providers, the region-partitioned
// streaming availability map.
func (c *Client) WatchProviders(ctx context.Context, id int) (*WatchProvidersResponse, error) {
	var out WatchProvidersResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PosterURL resolves a poster path from the API into an absolute image URL,
// or returns empty when the path is absent.
func (c *Client) PosterURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return c.ImageBaseURL + "/w500" + posterPath
}

// LogoURL resolves a provider logo path into an absolute image URL, or
// returns empty when the path is absent.
func (c *Client) LogoURL(logoPath string) string {
	if logoPath == "" {
		return ""
	}
	return c.ImageBaseURL + "/w92" + logoPath
}

// get performs an authenticated GET and decodes the JSON body into dest.
func (c *Client) get(ctx context.Context, path string, dest interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("tmdb: api key not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("tmdb: rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("tmdb: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb: request %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb: HTTP %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("tmdb: decode %s: %w", path, err)
	}
	return nil
}
