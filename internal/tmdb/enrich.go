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

// This file implements the enrichment logic on top of the TMDB client:
// resolving a parsed candidate to a canonical catalog identity, then layering
// on poster art, rating, and regional streaming availability. Enrichment
// never fails a candidate. Every lookup error is absorbed locally and the
// affected field simply stays absent; the worst case is a candidate whose
// detail link points at a web search instead of the catalog.
package tmdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strconv"

	"github.com/moodcue/go-mood-movie-search/internal/core/model"
)

// maxProviders caps how many streaming providers are attached per movie.
const maxProviders = 3

// yearTolerance is how far a catalog result's release year may differ from
// the candidate's stated year and still count as the same film. Generated
// years are frequently off by one around festival and wide-release dates.
const yearTolerance = 1

// Enricher resolves movie candidates against TMDB and attaches metadata.
// Region codes select whose streaming availability is checked first; the
// primary region's subscription offerings win, cascading through rentals and
// the secondary region before scanning whatever else the catalog returned.
type Enricher struct {
	Client          *Client
	PrimaryRegion   string
	SecondaryRegion string
	Logger          *slog.Logger
}

// NewEnricher creates an Enricher with the given region preferences.
// Defaults to US primary and GB secondary when the codes are empty.
func NewEnricher(client *Client, primaryRegion, secondaryRegion string, logger *slog.Logger) *Enricher {
	if primaryRegion == "" {
		primaryRegion = "US"
	}
	if secondaryRegion == "" {
		secondaryRegion = "GB"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		Client:          client,
		PrimaryRegion:   primaryRegion,
		SecondaryRegion: secondaryRegion,
		Logger:          logger,
	}
}

// Enrich turns a MovieCandidate into an EnrichedMovie. It never returns an
// error: an unresolved or failed lookup produces a degraded result whose
// DetailLink is a generic web search for the title and whose optional fields
// are absent.
func (e *Enricher) Enrich(ctx context.Context, candidate model.MovieCandidate) model.EnrichedMovie {
	out := model.EnrichedMovie{
		Title:              candidate.Title,
		Description:        candidate.Description,
		ReleaseYear:        candidate.ReleaseYear,
		DetailLink:         SearchFallbackURL(candidate.Title),
		StreamingProviders: []model.StreamingProvider{},
	}

	match := e.resolve(ctx, candidate)
	if match == nil {
		return out
	}

	detailURL := fmt.Sprintf("https://www.themoviedb.org/movie/%d", match.ID)
	out.DetailLink = detailURL
	if p := e.Client.PosterURL(match.PosterPath); p != "" {
		out.PosterURL = p
	}
	if out.ReleaseYear == "" {
		out.ReleaseYear = releaseYear(match.ReleaseDate)
	}

	if rating := e.fetchRating(ctx, match.ID); rating != nil {
		out.Rating = rating
	}
	out.StreamingProviders = e.fetchProviders(ctx, match.ID, candidate.Title, detailURL)
	return out
}

// resolve searches the catalog by title and picks the first result whose
// release year is within yearTolerance of the candidate's stated year. Ties
// keep the catalog's own ordering: first acceptable match wins, no further
// scoring. A candidate without a usable year accepts the first result.
func (e *Enricher) resolve(ctx context.Context, candidate model.MovieCandidate) *SearchResult {
	resp, err := e.Client.SearchMovies(ctx, candidate.Title)
	if err != nil {
		e.Logger.WarnContext(ctx, "tmdb search failed", "title", candidate.Title, "error", err)
		return nil
	}
	if len(resp.Results) == 0 {
		return nil
	}

	wantYear, yearErr := strconv.Atoi(candidate.ReleaseYear)
	for i := range resp.Results {
		r := &resp.Results[i]
		if yearErr != nil {
			// No usable year on the candidate; trust the catalog's ranking.
			return r
		}
		gotYear, err := strconv.Atoi(releaseYear(r.ReleaseDate))
		if err != nil {
			continue
		}
		if diff := gotYear - wantYear; diff >= -yearTolerance && diff <= yearTolerance {
			return r
		}
	}
	return nil
}

// fetchRating pulls the 0-10 vote average from the movie detail endpoint.
// Returns nil (absent) on lookup failure or when the catalog has no votes.
func (e *Enricher) fetchRating(ctx context.Context, id int) *float64 {
	detail, err := e.Client.MovieDetail(ctx, id)
	if err != nil {
		e.Logger.WarnContext(ctx, "tmdb detail failed", "id", id, "error", err)
		return nil
	}
	if detail.VoteAverage <= 0 {
		return nil
	}
	rating := detail.VoteAverage
	return &rating
}

// fetchProviders selects up to maxProviders streaming offerings using the
// region cascade: primary subscription, primary rental, secondary
// subscription, secondary rental, then the first non-empty subscription or
// rental list of any remaining region. Region maps decode unordered in Go,
// so "remaining regions" are scanned in sorted code order for determinism.
func (e *Enricher) fetchProviders(ctx context.Context, id int, title, detailURL string) []model.StreamingProvider {
	resp, err := e.Client.WatchProviders(ctx, id)
	if err != nil {
		e.Logger.WarnContext(ctx, "tmdb watch providers failed", "id", id, "error", err)
		return []model.StreamingProvider{}
	}

	entries := e.selectRegionEntries(resp.Results)
	if len(entries) > maxProviders {
		entries = entries[:maxProviders]
	}

	out := make([]model.StreamingProvider, 0, len(entries))
	for _, entry := range entries {
		logo := e.Client.LogoURL(entry.LogoPath)
		if logo == "" {
			logo = defaultProviderLogo
		}
		out = append(out, model.StreamingProvider{
			Name:    entry.ProviderName,
			URL:     DeepLink(entry.ProviderName, title, detailURL),
			LogoURL: logo,
		})
	}
	return out
}

func (e *Enricher) selectRegionEntries(regions map[string]RegionProviders) []ProviderEntry {
	if primary, ok := regions[e.PrimaryRegion]; ok {
		if len(primary.Flatrate) > 0 {
			return primary.Flatrate
		}
		if len(primary.Rent) > 0 {
			return primary.Rent
		}
	}
	if secondary, ok := regions[e.SecondaryRegion]; ok {
		if len(secondary.Flatrate) > 0 {
			return secondary.Flatrate
		}
		if len(secondary.Rent) > 0 {
			return secondary.Rent
		}
	}

	codes := make([]string, 0, len(regions))
	for code := range regions {
		if code == e.PrimaryRegion || code == e.SecondaryRegion {
			continue
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		region := regions[code]
		if len(region.Flatrate) > 0 {
			return region.Flatrate
		}
		if len(region.Rent) > 0 {
			return region.Rent
		}
	}
	return nil
}

// SearchFallbackURL builds the generic web-search link used when a candidate
// cannot be resolved in the catalog.
func SearchFallbackURL(title string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(title+" movie watch streaming")
}

// releaseYear extracts the year from a catalog date ("2010-07-16" -> "2010").
func releaseYear(releaseDate string) string {
	if len(releaseDate) < 4 {
		return ""
	}
	return releaseDate[:4]
}
