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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements the
// movie recommendation workflow.
package workflow

import (
	"text/template"

	"github.com/moodcue/go-mood-movie-search/internal/cloud"
	"github.com/moodcue/go-mood-movie-search/internal/core/commands"
	"github.com/moodcue/go-mood-movie-search/internal/core/cor"
	"github.com/moodcue/go-mood-movie-search/internal/core/model"
	"github.com/moodcue/go-mood-movie-search/internal/tmdb"
)

// RecommendationWorkflow orchestrates the end-to-end production of a movie
// recommendation set from a selected quote. It is structured as a Chain of
// Responsibility (cor.Chain): generation, extraction, fallback filling, and
// metadata enrichment run as discrete, individually traced commands.
//
// The workflow's contract is fixed-shape output: every successful execution
// yields exactly model.RecommendationSize enriched movies, even when the
// generative model fails or returns garbage, because the fallback filler and
// the enricher both degrade rather than abort.
type RecommendationWorkflow struct {
	cor.BaseCommand
	config                 *cloud.Config
	genaiModel             cloud.ContentGenerator
	enricher               *tmdb.Enricher
	numberOfWorkers        int
	recommendationTemplate *template.Template
	chain                  cor.Chain // The underlying chain of commands to be executed.
}

// Execute runs the recommendation workflow by invoking the underlying chain.
// The request is stashed under a well-known key before the chain starts so
// that every command, not just the first, can read the exclusion list.
//
// Inputs:
//   - context: The chain of responsibility context for this execution. The
//     CtxIn value must be a *model.RecommendationRequest.
func (m *RecommendationWorkflow) Execute(context cor.Context) {
	if request, ok := context.Get(cor.CtxIn).(*model.RecommendationRequest); ok {
		context.Add(commands.GetRecommendationRequestParameterName(), request)
	}
	m.chain.Execute(context)
}

// initializeChain builds the sequence of commands that make up this workflow.
// This method is called by the constructor.
func (m *RecommendationWorkflow) initializeChain() {
	out := cor.NewBaseChain(m.GetName())

	// Step 1: Prompt the generative model with the quote, mood, preferences,
	// and exclusion list. On model failure this emits an empty payload rather
	// than an error, so the chain keeps running.
	out.AddCommand(commands.NewRecommendationGenerator("generate-recommendations", m.genaiModel, m.recommendationTemplate))

	// Step 2: Parse the model output into clean candidates: strict JSON
	// first, heuristic text parsing as the fallback, exclusions dropped.
	out.AddCommand(commands.NewCandidateExtractor("extract-candidates"))

	// Step 3: Pad or truncate to exactly the fixed recommendation size using
	// the curated fallback catalog.
	out.AddCommand(commands.NewFallbackFiller("fill-candidates"))

	// Step 4: Enrich each candidate with catalog metadata (detail link,
	// poster, rating, streaming providers) using a worker pool.
	out.AddCommand(commands.NewMovieEnricher("enrich-movies", m.enricher, m.numberOfWorkers))

	m.chain = out
}

// NewRecommendationPipeline is the constructor for the RecommendationWorkflow.
// It compiles the prompt template and initializes the command chain.
//
// Inputs:
//   - config: The application's overall configuration.
//   - genaiModel: The rate-limited generative model for recommendations.
//   - enricher: The metadata enrichment client.
//
// Returns:
//   - A pointer to a newly created and fully initialized RecommendationWorkflow.
func NewRecommendationPipeline(
	config *cloud.Config,
	genaiModel cloud.ContentGenerator,
	enricher *tmdb.Enricher) *RecommendationWorkflow {

	recommendationTemplate, err := template.New("recommendation-template").Parse(config.PromptTemplates.RecommendationPrompt)
	if err != nil {
		panic(err) // The app cannot run without valid templates.
	}

	pipeline := &RecommendationWorkflow{
		BaseCommand:            *cor.NewBaseCommand("recommendation-pipeline"),
		config:                 config,
		genaiModel:             genaiModel,
		enricher:               enricher,
		numberOfWorkers:        config.Application.ThreadPoolSize,
		recommendationTemplate: recommendationTemplate,
	}
	pipeline.initializeChain()
	return pipeline
}
