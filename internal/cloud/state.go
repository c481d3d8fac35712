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

// Package cloud provides components for interacting with Google Cloud services.
// This file is central to the application's architecture: it initializes and
// holds the client objects the service layer depends on. It acts as a
// dependency injection container, creating a single shared `ServiceClients`
// struct that can be passed throughout the application.
//
// Logic Flow:
//  1. The `NewCloudServiceClients` function is called at application startup.
//  2. It takes the application's configuration (`Config`) and a `context.Context`.
//  3. It initializes the GenAI client, then configures each agent model
//     (temperature, schema, optional search grounding) and wraps it in the
//     rate-limiting QuotaAware decorator.
//  4. It builds the TMDB enrichment client and the in-memory quota gate.
//  5. Everything is bundled into a single `ServiceClients` struct used by the
//     API handlers and workflows.
//
// Structs:
//   - ServiceClients: A container struct holding all initialized service
//     clients, acting as a central state manager for external connections.
//
// Functions:
//   - NewCloudServiceClients: A factory function that creates and configures
//     all necessary clients based on the application's configuration.
package cloud

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/genai"

	"github.com/moodcue/go-mood-movie-search/internal/core/model"
	"github.com/moodcue/go-mood-movie-search/internal/quota"
	"github.com/moodcue/go-mood-movie-search/internal/tmdb"
)

// Logical schema names accepted in the agent model configuration's
// output_schema field.
const (
	SchemaQuoteList       = "quote_list"
	SchemaMovieCandidates = "movie_candidates"
)

// ServiceClients is a struct that acts as a central container for all the
// clients that interact with external services. This pattern is a form of
// dependency injection, making it easy to manage and share these client
// connections across the entire application.
type ServiceClients struct {
	GenAIClient *genai.Client                           // Client for Google's Generative AI services (Vertex AI).
	AgentModels map[string]*QuotaAwareGenerativeAIModel // Configured GenAI agent (LLM) models, keyed by a logical name.
	Enricher    *tmdb.Enricher                          // TMDB metadata enrichment client.
	QuotaGate   quota.Gate                              // Per-user monthly usage counter.
}

// NewCloudServiceClients is a factory function that initializes all required
// service clients based on the provided configuration. It serves as the main
// entry point for setting up the application's external dependencies.
//
// Inputs:
//   - ctx: The root context.Context for the application, used to manage the lifecycle of the clients.
//   - config: A pointer to the loaded application configuration (`Config`).
//
// Outputs:
//   - *ServiceClients: A pointer to the fully initialized ServiceClients struct.
//   - error: An error if any of the clients fail to initialize.
func NewCloudServiceClients(ctx context.Context, config *Config) (clients *ServiceClients, err error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  config.Application.GoogleProjectId,
		Location: config.Application.GoogleLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	// Configure each agent model and wrap it in the rate-limiting decorator.
	agentModels := make(map[string]*QuotaAwareGenerativeAIModel)
	for amKey, values := range config.AgentModels {
		cfg := &genai.GenerateContentConfig{
			Temperature:       genai.Ptr[float32](values.Temperature),
			TopP:              genai.Ptr[float32](values.TopP),
			TopK:              genai.Ptr[float32](values.TopK),
			MaxOutputTokens:   values.MaxTokens,
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: values.SystemInstructions}}},
			SafetySettings:    DefaultSafetySettings,
			Tools:             []*genai.Tool{},
		}

		if values.EnableGoogle {
			// Search grounding and structured output are mutually exclusive
			// on Vertex AI, so a grounded model keeps free-form output and
			// the parser's text fallback handles the shape.
			cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
		} else {
			cfg.ResponseMIMEType = values.OutputFormat
			switch values.OutputSchema {
			case SchemaQuoteList:
				cfg.ResponseSchema = model.QuoteListSchema()
			case SchemaMovieCandidates:
				cfg.ResponseSchema = model.CandidateListSchema()
			case "":
			default:
				return nil, fmt.Errorf("agent model %q: unknown output_schema %q", amKey, values.OutputSchema)
			}
		}

		agentModels[amKey] = NewQuotaAwareModel(cfg, values.Model, gc.Models, values.RateLimit)
	}

	apiKey := os.Getenv(config.TMDB.APIKeyEnv)
	if apiKey == "" {
		slog.Warn("tmdb api key env is empty, enrichment will degrade to search links",
			"env", config.TMDB.APIKeyEnv)
	}
	tmdbClient := tmdb.NewClient(apiKey, config.TMDB.RequestsPerSecond)
	enricher := tmdb.NewEnricher(tmdbClient, config.TMDB.PrimaryRegion, config.TMDB.SecondaryRegion, slog.Default())

	clients = &ServiceClients{
		GenAIClient: gc,
		AgentModels: agentModels,
		Enricher:    enricher,
		QuotaGate:   quota.NewMemoryGate(config.Quota.MonthlyLimit),
	}

	return clients, nil
}
