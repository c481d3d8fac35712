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
// command that asks the generative model for movie recommendations.
//
// Logic Flow:
// This command is the first step of the recommendation pipeline. It takes the
// user's selected quote and mood, renders them into a prompt, and sends the
// prompt to the generative model.
//
//  1. It receives a `model.RecommendationRequest` from the context.
//  2. It builds the prompt from a Go template. The mood is presented before the
//     quote so the model weighs the user's stated emotion over the quote's
//     literal content, and the exclusion list tells the model which titles the
//     user has already seen this session. An example JSON body is embedded to
//     guide the output shape (few-shot prompting).
//  3. It sends the prompt to the model and wraps the raw response in a
//     `model.GeneratedPayload` for the extractor command.
//  4. When the model call fails, the command emits an EMPTY payload instead of
//     an error: the downstream fallback filler guarantees a full response, so
//     a generation failure degrades the result rather than aborting the chain.
package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"go.opentelemetry.io/otel/metric"

	"github.com/moodcue/go-mood-movie-search/internal/cloud"
	"github.com/moodcue/go-mood-movie-search/internal/core/cor"
	"github.com/moodcue/go-mood-movie-search/internal/core/model"
)

// GetRecommendationRequestParameterName returns the context key under which
// the original request is stored for the whole chain, alongside the CtxIn /
// CtxOut piping. Later commands (extractor, filler) need the exclusion list
// even after the piped value has changed shape.
func GetRecommendationRequestParameterName() string {
	return "RECOMMENDATION_REQUEST"
}

// RecommendationGenerator is a command that prompts the generative model for
// movie candidates matching a quote and mood.
type RecommendationGenerator struct {
	cor.BaseCommand
	generativeAIModel        cloud.ContentGenerator // The rate-limited generative model client.
	template                 *template.Template     // The Go template for building the prompt.
	geminiInputTokenCounter  metric.Int64Counter    // OTel counter for input tokens.
	geminiOutputTokenCounter metric.Int64Counter    // OTel counter for output tokens.
}

// NewRecommendationGenerator is the constructor for the RecommendationGenerator command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - generativeAIModel: The rate-limited wrapper for the generative model client.
//   - template: A parsed Go template for the prompt.
//
// Outputs:
//   - *RecommendationGenerator: A pointer to the newly instantiated command.
func NewRecommendationGenerator(
	name string,
	generativeAIModel cloud.ContentGenerator,
	template *template.Template) *RecommendationGenerator {

	out := &RecommendationGenerator{
		BaseCommand:       *cor.NewBaseCommand(name),
		generativeAIModel: generativeAIModel,
		template:          template}

	out.geminiInputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.input", out.GetName()))
	out.geminiOutputTokenCounter, _ = out.GetMeter().Int64Counter(fmt.Sprintf("%s.gemini.token.output", out.GetName()))

	return out
}

// GenerateParams creates the map of dynamic data to be injected into the prompt template.
//
// Inputs:
//   - request: The recommendation request carrying quote, mood, preferences, and exclusions.
//
// Outputs:
//   - map[string]interface{}: A map of keys and values for template substitution.
func (t *RecommendationGenerator) GenerateParams(request *model.RecommendationRequest) map[string]interface{} {
	params := make(map[string]interface{})
	params["QUOTE"] = request.SelectedQuote
	params["MOOD"] = request.Mood
	params["PREFERENCES"] = request.UserPreferences
	params["EXCLUDE_TITLES"] = strings.Join(request.PreviousMovies, "; ")

	// Few-shot example of the expected JSON shape.
	exampleCandidates, _ := json.Marshal(model.GetExampleCandidates())
	params["EXAMPLE_JSON"] = string(exampleCandidates)
	return params
}

// Execute renders the prompt and calls the generative model.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (t *RecommendationGenerator) Execute(context cor.Context) {
	request := context.Get(t.GetInputParam()).(*model.RecommendationRequest)

	var buffer bytes.Buffer
	err := t.template.Execute(&buffer, t.GenerateParams(request))
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute prompt template: %w", err))
		return
	}

	out, err := cloud.GenerateTextResponse(
		context.GetContext(),
		t.geminiInputTokenCounter,
		t.geminiOutputTokenCounter,
		t.generativeAIModel,
		cloud.NewTextPart(buffer.String()))
	if err != nil {
		// An empty payload keeps the chain alive; the fallback filler will
		// still produce a complete recommendation set.
		t.GetErrorCounter().Add(context.GetContext(), 1)
		slog.WarnContext(context.GetContext(), "recommendation generation failed, degrading to fallback",
			"command", t.GetName(), "error", err)
		context.Add(t.GetOutputParam(), &model.GeneratedPayload{})
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), &model.GeneratedPayload{Raw: out})
}
