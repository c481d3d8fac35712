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
// command that guarantees the pipeline's fixed output size.
//
// Whatever the upstream generation and parsing produced - zero, two, or
// twelve candidates - the response contract is exactly three movies. This
// command truncates surplus candidates and pads shortfalls from the curated
// fallback catalog, preferring catalog titles the user has not seen yet.
package commands

import (
	"log/slog"

	"github.com/moodcue/go-mood-movie-search/internal/core/catalog"
	"github.com/moodcue/go-mood-movie-search/internal/core/cor"
	"github.com/moodcue/go-mood-movie-search/internal/core/model"
)

// FallbackFiller is a command that pads or truncates the candidate list to
// exactly model.RecommendationSize entries.
type FallbackFiller struct {
	cor.BaseCommand
}

// NewFallbackFiller is the constructor for the FallbackFiller command.
func NewFallbackFiller(name string) *FallbackFiller {
	return &FallbackFiller{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute normalizes the candidate list to the fixed recommendation size.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (t *FallbackFiller) Execute(context cor.Context) {
	candidates := context.Get(t.GetInputParam()).([]model.MovieCandidate)

	var exclude []string
	if request, ok := context.Get(GetRecommendationRequestParameterName()).(*model.RecommendationRequest); ok {
		exclude = request.PreviousMovies
	}

	filled := catalog.Fill(candidates, exclude, model.RecommendationSize)
	if len(filled) != len(candidates) {
		slog.InfoContext(context.GetContext(), "candidate list adjusted to fixed size",
			"command", t.GetName(), "generated", len(candidates), "final", len(filled))
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), filled)
}
