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

package tmdb_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/moodcue/go-mood-movie-search/internal/core/model"
	"github.com/moodcue/go-mood-movie-search/internal/tmdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTMDB spins up an httptest server that answers the three endpoints the
// enricher uses, from canned JSON keyed by path prefix.
func fakeTMDB(t *testing.T, search, detail, providers string) *tmdb.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/search/movie"):
			_, _ = w.Write([]byte(search))
		case strings.HasSuffix(r.URL.Path, "/watch/providers"):
			_, _ = w.Write([]byte(providers))
		case strings.HasPrefix(r.URL.Path, "/movie/"):
			_, _ = w.Write([]byte(detail))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	client := tmdb.NewClient("test-key", 100)
	client.BaseURL = srv.URL
	return client
}

const searchJSON = `{
  "page": 1,
  "total_results": 2,
  "results": [
    {"id": 99, "title": "Inception Documentary", "release_date": "1998-01-01", "vote_average": 5.1, "poster_path": "/doc.jpg"},
    {"id": 27205, "title": "Inception", "release_date": "2010-07-16", "vote_average": 8.4, "poster_path": "/inception.jpg"}
  ]
}`

const detailJSON = `{"id": 27205, "title": "Inception", "release_date": "2010-07-16", "vote_average": 8.4, "poster_path": "/inception.jpg"}`

const providersJSON = `{
  "id": 27205,
  "results": {
    "US": {
      "link": "https://www.themoviedb.org/movie/27205/watch",
      "flatrate": [
        {"provider_name": "Netflix", "logo_path": "/netflix.png", "display_priority": 1},
        {"provider_name": "Obscure Stream", "logo_path": "", "display_priority": 2},
        {"provider_name": "Hulu", "logo_path": "/hulu.png", "display_priority": 3},
        {"provider_name": "Max", "logo_path": "/max.png", "display_priority": 4}
      ]
    },
    "GB": {"rent": [{"provider_name": "Apple TV", "logo_path": "/atv.png", "display_priority": 1}]}
  }
}`

// TestEnrichResolved covers the happy path: year-compatible identity
// resolution (skipping an earlier year-incompatible result), rating, poster,
// canonical detail link, and the provider cap of three.
func TestEnrichResolved(t *testing.T) {
	client := fakeTMDB(t, searchJSON, detailJSON, providersJSON)
	enricher := tmdb.NewEnricher(client, "US", "GB", nil)

	got := enricher.Enrich(context.Background(), model.MovieCandidate{
		Title:       "Inception",
		ReleaseYear: "2010",
		Description: "A thief steals secrets via dreams.",
	})

	assert.Equal(t, "https://www.themoviedb.org/movie/27205", got.DetailLink)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 8.4, *got.Rating, 0.001)
	assert.Contains(t, got.PosterURL, "/inception.jpg")

	require.Len(t, got.StreamingProviders, 3)
	assert.Equal(t, "Netflix", got.StreamingProviders[0].Name)
	assert.Contains(t, got.StreamingProviders[0].URL, "netflix.com/search")
	// Unknown provider falls back to the catalog detail page and the default logo.
	assert.Equal(t, "Obscure Stream", got.StreamingProviders[1].Name)
	assert.Equal(t, got.DetailLink, got.StreamingProviders[1].URL)
	assert.NotEmpty(t, got.StreamingProviders[1].LogoURL)
}

// TestEnrichYearTolerance accepts a result one year off from the stated
// release year.
func TestEnrichYearTolerance(t *testing.T) {
	client := fakeTMDB(t, searchJSON, detailJSON, providersJSON)
	enricher := tmdb.NewEnricher(client, "US", "GB", nil)

	got := enricher.Enrich(context.Background(), model.MovieCandidate{Title: "Inception", ReleaseYear: "2011"})
	assert.Equal(t, "https://www.themoviedb.org/movie/27205", got.DetailLink)
}

// TestEnrichUnresolved covers the degraded path: no catalog match leaves the
// optional fields absent and points the detail link at a web search carrying
// the URL-encoded title.
func TestEnrichUnresolved(t *testing.T) {
	client := fakeTMDB(t, `{"page":1,"total_results":0,"results":[]}`, detailJSON, providersJSON)
	enricher := tmdb.NewEnricher(client, "US", "GB", nil)

	got := enricher.Enrich(context.Background(), model.MovieCandidate{
		Title:       "Unknown Obscure Film X",
		ReleaseYear: "2099",
		Description: "desc",
	})

	assert.Nil(t, got.Rating)
	assert.Empty(t, got.PosterURL)
	assert.Empty(t, got.StreamingProviders)
	assert.Contains(t, got.DetailLink, "google.com/search")
	assert.Contains(t, got.DetailLink, "Unknown+Obscure+Film+X")
}

// TestEnrichNoYearCompatibleMatch treats a search that only returns
// year-incompatible results as unresolved.
func TestEnrichNoYearCompatibleMatch(t *testing.T) {
	search := `{"page":1,"total_results":1,"results":[{"id":1,"title":"Inception","release_date":"1971-01-01","vote_average":6.0,"poster_path":""}]}`
	client := fakeTMDB(t, search, detailJSON, providersJSON)
	enricher := tmdb.NewEnricher(client, "US", "GB", nil)

	got := enricher.Enrich(context.Background(), model.MovieCandidate{Title: "Inception", ReleaseYear: "2010"})
	assert.Contains(t, got.DetailLink, "google.com/search")
	assert.Nil(t, got.Rating)
}

// TestEnrichServerDown verifies that a dead catalog degrades identically to
// an unresolved lookup rather than surfacing an error.
func TestEnrichServerDown(t *testing.T) {
	client := tmdb.NewClient("test-key", 100)
	client.BaseURL = "http://127.0.0.1:1" // nothing listens here
	enricher := tmdb.NewEnricher(client, "US", "GB", nil)

	got := enricher.Enrich(context.Background(), model.MovieCandidate{Title: "Inception", ReleaseYear: "2010", Description: "d"})
	assert.Equal(t, "Inception", got.Title)
	assert.Equal(t, "d", got.Description)
	assert.Nil(t, got.Rating)
	assert.Contains(t, got.DetailLink, "google.com/search")
}

// TestEnrichRegionCascade verifies the secondary region's rentals are used
// when the primary region has nothing.
func TestEnrichRegionCascade(t *testing.T) {
	providers := `{"id":27205,"results":{"GB":{"rent":[{"provider_name":"Apple TV","logo_path":"/atv.png"}]}}}`
	client := fakeTMDB(t, searchJSON, detailJSON, providers)
	enricher := tmdb.NewEnricher(client, "US", "GB", nil)

	got := enricher.Enrich(context.Background(), model.MovieCandidate{Title: "Inception", ReleaseYear: "2010"})
	require.Len(t, got.StreamingProviders, 1)
	assert.Equal(t, "Apple TV", got.StreamingProviders[0].Name)
	assert.Contains(t, got.StreamingProviders[0].URL, "tv.apple.com")
}

// TestDeepLinkTable checks the known-template and fallback branches directly.
func TestDeepLinkTable(t *testing.T) {
	detail := "https://www.themoviedb.org/movie/1"
	assert.Contains(t, tmdb.DeepLink("Netflix", "Inception", detail), "netflix.com")
	assert.Contains(t, tmdb.DeepLink("NETFLIX", "Inception", detail), "netflix.com")
	assert.Equal(t, detail, tmdb.DeepLink("Some Rental Shop", "Inception", detail))
}

// TestWatchProvidersDecoding sanity-checks the wire types against a real
// response shape.
func TestWatchProvidersDecoding(t *testing.T) {
	var resp tmdb.WatchProvidersResponse
	require.NoError(t, json.Unmarshal([]byte(providersJSON), &resp))
	assert.Equal(t, 27205, resp.ID)
	assert.Len(t, resp.Results["US"].Flatrate, 4)
	assert.Equal(t, "Netflix", resp.Results["US"].Flatrate[0].ProviderName)
}
