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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// command that turns a raw model response into clean movie candidates.
//
// Logic Flow:
// Generative models are asked for JSON but do not always return it, especially
// when search grounding is enabled. This command is the resilience layer
// between the model and the rest of the pipeline:
//
//  1. It receives the `model.GeneratedPayload` from the generator command.
//  2. It first attempts a strict JSON decode of the raw text into candidates.
//  3. If the decode fails, it falls back to the heuristic text parser, which
//     splits numbered or blank-line-separated sections into candidates.
//  4. Every extracted title and description is normalized through the text
//     cleaner, and any candidate on the request's exclusion list is dropped.
//  5. The surviving candidates are placed in the context for the fallback
//     filler. An empty slice is a valid output; the filler completes it.
package commands

import (
	"encoding/json"
	"strings"

	"github.com/moodcue/go-mood-movie-search/internal/core/cor"
	"github.com/moodcue/go-mood-movie-search/internal/core/model"
	"github.com/moodcue/go-mood-movie-search/internal/core/text"
)

// CandidateExtractor is a command that parses the generative model's output
// into normalized movie candidates.
type CandidateExtractor struct {
	cor.BaseCommand
}

// NewCandidateExtractor is the constructor for the CandidateExtractor command.
func NewCandidateExtractor(name string) *CandidateExtractor {
	return &CandidateExtractor{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute parses, cleans, and filters the generated payload.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (t *CandidateExtractor) Execute(context cor.Context) {
	payload := context.Get(t.GetInputParam()).(*model.GeneratedPayload)

	var candidates []model.MovieCandidate
	switch {
	case payload.IsStructured():
		candidates = payload.Structured
	case len(strings.TrimSpace(payload.Raw)) > 0:
		candidates = parseCandidates(payload.Raw)
	}

	// Normalize every candidate and drop the ones the user has already seen.
	excluded := excludedTitleSet(context)
	cleaned := make([]model.MovieCandidate, 0, len(candidates))
	for _, c := range candidates {
		c.Title = text.CleanTitle(c.Title)
		c.Description = text.Clean(c.Description)
		if c.Title == "" {
			continue
		}
		if c.Description == "" {
			c.Description = text.DefaultDescription
		}
		if _, seen := excluded[strings.ToLower(c.Title)]; seen {
			continue
		}
		cleaned = append(cleaned, c)
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), cleaned)
}

// parseCandidates decodes strict JSON output first and falls back to the
// heuristic text parser when the model ignored the schema.
func parseCandidates(raw string) []model.MovieCandidate {
	trimmed := strings.TrimSpace(raw)
	var structured []model.MovieCandidate
	if err := json.Unmarshal([]byte(trimmed), &structured); err == nil {
		return structured
	}
	return text.ExtractCandidates(raw)
}

// excludedTitleSet builds a lowercase lookup of previously recommended titles
// from the request stashed in the context. A missing request means no
// exclusions.
func excludedTitleSet(context cor.Context) map[string]struct{} {
	out := make(map[string]struct{})
	request, ok := context.Get(GetRecommendationRequestParameterName()).(*model.RecommendationRequest)
	if !ok {
		return out
	}
	for _, title := range request.PreviousMovies {
		key := strings.ToLower(strings.TrimSpace(title))
		if key != "" {
			out[key] = struct{}{}
		}
	}
	return out
}
