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
// Database (TMDB). This file holds the wire types for the three endpoints the
// enricher consumes: title search, movie detail, and regional watch
// providers.
package tmdb

// SearchResult is one entry from GET /search/movie.
type SearchResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  string  `json:"poster_path"`
}

// SearchResponse is the envelope for GET /search/movie.
type SearchResponse struct {
	Page         int            `json:"page"`
	TotalResults int            `json:"total_results"`
	Results      []SearchResult `json:"results"`
}

// MovieDetail is the response from GET /movie/{id}, trimmed to the fields the
// enricher reads.
type MovieDetail struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  string  `json:"poster_path"`
}

// ProviderEntry is a single streaming offering inside a region's watch
// provider listing.
type ProviderEntry struct {
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path"`
	DisplayPriority int    `json:"display_priority"`
}

// RegionProviders partitions a region's offerings by monetization model. The
// enricher only consumes subscription (flatrate) and rental lists.
type RegionProviders struct {
	Link     string          `json:"link"`
	Flatrate []ProviderEntry `json:"flatrate"`
	Rent     []ProviderEntry `json:"rent"`
	Buy      []ProviderEntry `json:"buy"`
}

// WatchProvidersResponse is the envelope for GET /movie/{id}/watch/providers,
// keyed by ISO 3166-1 region code.
type WatchProvidersResponse struct {
	ID      int                        `json:"id"`
	Results map[string]RegionProviders `json:"results"`
}
