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

// Package services contains the business logic behind the HTTP endpoints.
// This file defines the RecommendationService, which wraps the recommendation
// workflow in input validation and a last-resort fallback.
//
// The service's contract is that a valid request always gets a full response:
// even when the workflow itself fails, the service assembles the fixed number
// of movies from the curated catalog and enriches them, so the caller never
// sees a partial or empty recommendation set.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/moodcue/go-mood-movie-search/internal/core/catalog"
	"github.com/moodcue/go-mood-movie-search/internal/core/cor"
	"github.com/moodcue/go-mood-movie-search/internal/core/model"
	"github.com/moodcue/go-mood-movie-search/internal/core/workflow"
	"github.com/moodcue/go-mood-movie-search/internal/tmdb"
)

// MaxQuoteLength is the upper bound on the selected quote input.
const MaxQuoteLength = 1000

// RecommendationService produces the fixed-size recommendation set for a
// selected quote.
type RecommendationService struct {
	Workflow *workflow.RecommendationWorkflow
	Enricher *tmdb.Enricher
}

// NewRecommendationService is the constructor for RecommendationService.
func NewRecommendationService(wf *workflow.RecommendationWorkflow, enricher *tmdb.Enricher) *RecommendationService {
	return &RecommendationService{Workflow: wf, Enricher: enricher}
}

// Recommend validates the request, runs the recommendation workflow, and
// guarantees a result of exactly model.RecommendationSize movies.
//
// Inputs:
//   - ctx: The request context.
//   - request: The recommendation request. SelectedQuote is required.
//
// Outputs:
//   - *model.RecommendationResult: The fixed-shape recommendation set.
//   - error: ErrInvalidInput when the request fails validation. Workflow
//     failures do not surface as errors; they degrade to catalog picks.
func (s *RecommendationService) Recommend(ctx context.Context, request *model.RecommendationRequest) (*model.RecommendationResult, error) {
	if err := validateRequest(request); err != nil {
		return nil, err
	}

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, request)
	s.Workflow.Execute(chainCtx)

	// After the chain runs, the piped output sits under CtxIn.
	result, ok := chainCtx.Get(cor.CtxIn).(*model.RecommendationResult)
	if chainCtx.HasErrors() || !ok || len(result.Movies) != model.RecommendationSize {
		for name, err := range chainCtx.GetErrors() {
			slog.ErrorContext(ctx, "recommendation workflow error", "command", name, "error", err)
		}
		slog.WarnContext(ctx, "recommendation workflow did not complete, serving catalog fallback")
		return s.catalogFallback(ctx, request), nil
	}
	return result, nil
}

// catalogFallback builds a complete recommendation set straight from the
// curated catalog when the workflow could not.
func (s *RecommendationService) catalogFallback(ctx context.Context, request *model.RecommendationRequest) *model.RecommendationResult {
	candidates := catalog.Fill(nil, request.PreviousMovies, model.RecommendationSize)
	movies := make([]model.EnrichedMovie, 0, len(candidates))
	for _, c := range candidates {
		movies = append(movies, s.Enricher.Enrich(ctx, c))
	}
	return &model.RecommendationResult{Movies: movies}
}

// validateRequest enforces the request field constraints.
func validateRequest(request *model.RecommendationRequest) error {
	if request == nil || strings.TrimSpace(request.SelectedQuote) == "" {
		return fmt.Errorf("%w: selectedQuote is required", ErrInvalidInput)
	}
	if len([]rune(request.SelectedQuote)) > MaxQuoteLength {
		return fmt.Errorf("%w: selectedQuote exceeds %d characters", ErrInvalidInput, MaxQuoteLength)
	}
	if len([]rune(request.Mood)) > MaxMoodLength {
		return fmt.Errorf("%w: originalEmotion exceeds %d characters", ErrInvalidInput, MaxMoodLength)
	}
	return nil
}
