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

// Package services_test contains the test suite for the services package.
// This file tests the recommendation service end to end with a faked
// generative model and an unreachable metadata catalog, so every movie
// degrades to a search-link detail page. The fixed response shape is the
// invariant under test: three movies out, no matter what the model does.
package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodcue/go-mood-movie-search/internal/cloud"
	"github.com/moodcue/go-mood-movie-search/internal/core/model"
	"github.com/moodcue/go-mood-movie-search/internal/core/services"
	"github.com/moodcue/go-mood-movie-search/internal/core/workflow"
	test "github.com/moodcue/go-mood-movie-search/internal/testutil"
	"github.com/moodcue/go-mood-movie-search/internal/tmdb"
)

const recommendationPrompt = "Quote: {{.QUOTE}}\nMood: {{.MOOD}}\nAvoid: {{.EXCLUDE_TITLES}}\nJSON like {{.EXAMPLE_JSON}}"

// newTestService wires the full workflow with the given fake model and a TMDB
// client pointed at a dead address, which exercises the enricher's degraded
// path without network access.
func newTestService(fake *test.FakeContentGenerator) *services.RecommendationService {
	config := cloud.NewConfig()
	config.Application.ThreadPoolSize = 2
	config.PromptTemplates.RecommendationPrompt = recommendationPrompt

	client := tmdb.NewClient("test-key", 100)
	client.BaseURL = "http://127.0.0.1:1"
	enricher := tmdb.NewEnricher(client, "US", "GB", nil)

	wf := workflow.NewRecommendationPipeline(config, fake, enricher)
	return services.NewRecommendationService(wf, enricher)
}

func TestRecommendStructuredResponse(t *testing.T) {
	fake := &test.FakeContentGenerator{Responses: []string{test.GetTestCandidateJSON()}}
	svc := newTestService(fake)

	result, err := svc.Recommend(context.Background(), &model.RecommendationRequest{
		SelectedQuote: "Two strangers adrift in Tokyo.",
		Mood:          "wistful",
	})
	require.NoError(t, err)
	require.Len(t, result.Movies, model.RecommendationSize)

	assert.Equal(t, "Lost in Translation", result.Movies[0].Title)
	assert.Equal(t, "The Secret Life of Walter Mitty", result.Movies[1].Title)
	assert.Equal(t, "Amelie", result.Movies[2].Title)

	// Catalog is unreachable, so every movie carries the search fallback link
	// and no providers.
	for _, m := range result.Movies {
		assert.Contains(t, m.DetailLink, "google.com/search")
		assert.Empty(t, m.StreamingProviders)
		assert.Nil(t, m.Rating)
	}
}

func TestRecommendProseResponse(t *testing.T) {
	fake := &test.FakeContentGenerator{Responses: []string{test.GetTestProseResponse()}}
	svc := newTestService(fake)

	result, err := svc.Recommend(context.Background(), &model.RecommendationRequest{
		SelectedQuote: "Adventure is out there.",
	})
	require.NoError(t, err)
	require.Len(t, result.Movies, model.RecommendationSize)

	// Emphasis markers, years, and citation fragments are gone.
	assert.Equal(t, "Lost in Translation", result.Movies[0].Title)
	assert.Equal(t, "The Secret Life of Walter Mitty", result.Movies[1].Title)
	assert.Equal(t, "Amelie", result.Movies[2].Title)
	assert.NotContains(t, result.Movies[0].Description, "wikipedia")
	assert.NotContains(t, result.Movies[2].Description, "https://")
}

// A dead model still produces a full recommendation set, served from the
// catalog in its fixed order.
func TestRecommendModelFailure(t *testing.T) {
	fake := &test.FakeContentGenerator{Err: errors.New("model unavailable")}
	svc := newTestService(fake)

	result, err := svc.Recommend(context.Background(), &model.RecommendationRequest{
		SelectedQuote: "Hope is a good thing.",
	})
	require.NoError(t, err)
	require.Len(t, result.Movies, model.RecommendationSize)

	assert.Equal(t, "The Shawshank Redemption", result.Movies[0].Title)
	assert.Equal(t, "Forrest Gump", result.Movies[1].Title)
	assert.Equal(t, "Inside Out", result.Movies[2].Title)
}

func TestRecommendHonorsExclusions(t *testing.T) {
	fake := &test.FakeContentGenerator{Responses: []string{test.GetTestCandidateJSON()}}
	svc := newTestService(fake)

	result, err := svc.Recommend(context.Background(), &model.RecommendationRequest{
		SelectedQuote: "Two strangers adrift in Tokyo.",
		PreviousMovies: []string{
			"Lost in Translation",
			"amelie", // exclusion matching is case-insensitive
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Movies, model.RecommendationSize)

	for _, m := range result.Movies {
		assert.NotEqual(t, "Lost in Translation", m.Title)
		assert.NotEqual(t, "Amelie", m.Title)
	}
	// The one surviving generated candidate leads; the catalog fills the rest.
	assert.Equal(t, "The Secret Life of Walter Mitty", result.Movies[0].Title)
}

func TestRecommendTruncatesSurplus(t *testing.T) {
	surplus := `[
  {"title": "First Pick", "description": "a"},
  {"title": "Second Pick", "description": "b"},
  {"title": "Third Pick", "description": "c"},
  {"title": "Fourth Pick", "description": "d"},
  {"title": "Fifth Pick", "description": "e"}
]`
	fake := &test.FakeContentGenerator{Responses: []string{surplus}}
	svc := newTestService(fake)

	result, err := svc.Recommend(context.Background(), &model.RecommendationRequest{
		SelectedQuote: "More is not better.",
	})
	require.NoError(t, err)
	require.Len(t, result.Movies, model.RecommendationSize)
	assert.Equal(t, "First Pick", result.Movies[0].Title)
	assert.Equal(t, "Second Pick", result.Movies[1].Title)
	assert.Equal(t, "Third Pick", result.Movies[2].Title)
}

// Concurrent requests share nothing: every caller's chain context is built
// fresh per request, so each result holds exactly the movies that caller's
// own model produced.
func TestRecommendConcurrentCallsAreIndependent(t *testing.T) {
	const callers = 8

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(caller int) {
			defer wg.Done()
			payload := fmt.Sprintf(`[
  {"title": "Caller %d First", "release_year": "2001", "description": "First pick for caller %d."},
  {"title": "Caller %d Second", "release_year": "2002", "description": "Second pick for caller %d."},
  {"title": "Caller %d Third", "release_year": "2003", "description": "Third pick for caller %d."}
]`, caller, caller, caller, caller, caller, caller)
			svc := newTestService(&test.FakeContentGenerator{Responses: []string{payload}})

			result, err := svc.Recommend(context.Background(), &model.RecommendationRequest{
				SelectedQuote: fmt.Sprintf("Quote for caller %d.", caller),
				Mood:          fmt.Sprintf("mood %d", caller),
			})
			assert.NoError(t, err)
			if !assert.Len(t, result.Movies, model.RecommendationSize) {
				return
			}
			assert.Equal(t, fmt.Sprintf("Caller %d First", caller), result.Movies[0].Title)
			assert.Equal(t, fmt.Sprintf("Caller %d Second", caller), result.Movies[1].Title)
			assert.Equal(t, fmt.Sprintf("Caller %d Third", caller), result.Movies[2].Title)
		}(i)
	}
	wg.Wait()
}

func TestRecommendValidation(t *testing.T) {
	svc := newTestService(&test.FakeContentGenerator{})

	_, err := svc.Recommend(context.Background(), &model.RecommendationRequest{})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = svc.Recommend(context.Background(), &model.RecommendationRequest{
		SelectedQuote: strings.Repeat("q", services.MaxQuoteLength+1),
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = svc.Recommend(context.Background(), &model.RecommendationRequest{
		SelectedQuote: "fine",
		Mood:          strings.Repeat("m", services.MaxMoodLength+1),
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}
