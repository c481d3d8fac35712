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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files. It provides a structured way to manage settings
// for the Vertex AI models, the TMDB metadata service, the usage quota,
// and the prompt templates.
//
// Structs:
//   - PromptTemplates: Holds the text templates for prompts sent to GenAI models.
//   - VertexAiLLMModel: Configuration for a Vertex AI Large Language Model (LLM).
//   - TMDBSource: Configuration for the TMDB metadata enrichment client.
//   - Quota: Configuration for the monthly usage quota gate.
//   - Config: The top-level struct that aggregates all other configuration structs.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object with empty maps.
package cloud

import "google.golang.org/genai"

// DefaultSafetySettings defines the default content safety thresholds for GenAI models.
// These settings are configured to be non-restrictive, allowing all content categories
// (Dangerous Content, Harassment, Hate Speech, Sexually Explicit) to pass through without
// being blocked. Movie quotes and plot descriptions routinely trip conservative
// thresholds, so filtering is left to the upstream model defaults.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// PromptTemplates holds the templates for the two generation prompts. Both are
// Go text/template bodies rendered by the command layer.
type PromptTemplates struct {
	QuotePrompt          string `toml:"quotes"`          // The template for generating mood-matched movie quotes.
	RecommendationPrompt string `toml:"recommendations"` // The template for generating movie recommendations.
}

// VertexAiLLMModel represents the configuration for a Vertex AI large language model (LLM).
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`               // The name of the Vertex AI LLM.
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the LLM.
	Temperature        float32 `toml:"temperature"`         // The temperature parameter for the LLM.
	TopP               float32 `toml:"top_p"`               // The top_p parameter for the LLM.
	TopK               float32 `toml:"top_k"`               // The top_k parameter for the LLM.
	MaxTokens          int32   `toml:"max_tokens"`          // The maximum number of tokens for the LLM output.
	OutputFormat       string  `toml:"output_format"`       // The desired output format for the LLM.
	OutputSchema       string  `toml:"output_schema"`       // Logical name of the response schema ("quote_list" or "movie_candidates").
	EnableGoogle       bool    `toml:"enable_google"`       // Whether to enable Google Search grounding for the LLM.
	RateLimit          int     `toml:"rate_limit"`          // The rate limit for the LLM in requests per second.
}

// TMDBSource represents the configuration for the TMDB metadata client.
// The API key itself is never stored in the TOML files; only the name of the
// environment variable that carries it.
type TMDBSource struct {
	APIKeyEnv         string `toml:"api_key_env"`         // The environment variable holding the TMDB bearer token.
	PrimaryRegion     string `toml:"primary_region"`      // The first region checked for streaming providers.
	SecondaryRegion   string `toml:"secondary_region"`    // The region checked when the primary has none.
	RequestsPerSecond int    `toml:"requests_per_second"` // The client-side rate limit for TMDB calls.
}

// Quota represents the configuration for the per-user monthly usage gate.
type Quota struct {
	MonthlyLimit int `toml:"monthly_limit"` // Generations allowed per user per calendar month.
}

// Config represents the overall configuration for the application, loaded from TOML files.
// It acts as the root container for all other configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name            string `toml:"name"`              // The name of the application.
		GoogleProjectId string `toml:"google_project_id"` // The Google Cloud project ID.
		GoogleLocation  string `toml:"location"`          // The Google Cloud location.
		ThreadPoolSize  int    `toml:"thread_pool_size"`  // The size of the worker pool for parallel enrichment.
		Port            int    `toml:"port"`              // The HTTP listen port.
	} `toml:"application"`
	TMDB            TMDBSource                  `toml:"tmdb"`             // TMDB metadata client configuration.
	Quota           Quota                       `toml:"quota"`            // Usage quota configuration.
	PromptTemplates PromptTemplates             `toml:"prompt_templates"` // Prompt templates configuration.
	AgentModels     map[string]VertexAiLLMModel `toml:"agent_models"`     // A map of Vertex AI LLM models, keyed by a logical name (e.g., "creative-quotes").
}

// NewConfig is a constructor function that creates a new, initialized Config instance.
// It's important to initialize the maps within the struct to avoid nil pointer panics
// when the configuration loader tries to populate them.
//
// Outputs:
//   - *Config: A pointer to a new Config struct with its map fields initialized.
func NewConfig() *Config {
	return &Config{
		AgentModels: make(map[string]VertexAiLLMModel),
	}
}
