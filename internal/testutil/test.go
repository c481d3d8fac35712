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

// Package test provides utility functions and mock data to support the
// application's test suite. It helps in setting up a consistent test
// environment, loading test-specific configurations, and faking the
// generative model for workflows and services.
package test

import (
	"context"
	"log"
	"os"
	"testing"

	"google.golang.org/genai"

	"github.com/moodcue/go-mood-movie-search/internal/cloud"
)

// StateManager acts as a simple in-memory cache for the application configuration
// during test runs. This prevents the need to reload configuration files for every
// test, speeding up the test suite.
type StateManager struct {
	config *cloud.Config
}

// state holds the singleton StateManager so configuration is loaded only once
// per test run.
var state = &StateManager{}

// HandleErr is a simple test helper function that checks if an error is not nil.
// If an error exists, it fails the test immediately by calling t.Errorf.
//
// Inputs:
//   - err: The error to check.
//   - t: The *testing.T object from the current test.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("Error reading config file: %v", err)
	}
}

// FakeContentGenerator is a cloud.ContentGenerator stand-in for tests. Each
// call pops the next queued response; when Err is set every call fails with
// it instead.
type FakeContentGenerator struct {
	Responses []string
	Err       error
	Calls     int
}

// GenerateContent returns the next canned response wrapped in the genai
// response shape the production code expects.
func (f *FakeContentGenerator) GenerateContent(_ context.Context, _ []*genai.Content) (*genai.GenerateContentResponse, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	var text string
	if len(f.Responses) > 0 {
		text = f.Responses[0]
		f.Responses = f.Responses[1:]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 64,
		},
	}, nil
}

// GetTestCandidateJSON returns a well-formed structured model response with
// three movie candidates, as the recommendation model produces when it honors
// the response schema.
func GetTestCandidateJSON() string {
	return `[
  {"title": "Lost in Translation", "release_year": "2003", "description": "Two strangers adrift in Tokyo form an unlikely bond."},
  {"title": "The Secret Life of Walter Mitty", "release_year": "2013", "description": "A daydreaming photo manager finally chases a real adventure."},
  {"title": "Amelie", "release_year": "2001", "description": "A shy waitress secretly orchestrates small joys for the people around her."}
]`
}

// GetTestProseResponse returns a free-text model response in the numbered
// style grounded models fall back to, used to exercise the resilience parser.
func GetTestProseResponse() string {
	return `1. **Lost in Translation** (2003)
Two strangers adrift in Tokyo form an unlikely bond. [Source: en.wikipedia.org]

2. **The Secret Life of Walter Mitty** (2013)
Description: A daydreaming photo manager finally chases a real adventure.

3. **Amelie** (2001)
A shy waitress secretly orchestrates small joys (https://example.com/amelie) for the people around her.`
}

// GetTestQuoteJSON returns a well-formed quote model response.
func GetTestQuoteJSON() string {
	return `["Hope is a good thing, maybe the best of things.", "Adventure is out there!", "To infinity and beyond."]`
}

// SetupOS configures the environment variables that the configuration loader
// (`cloud.LoadConfig`) depends on, directing it at the test-specific
// configuration files (e.g., `configs/.env.test.toml`).
//
// Returns:
//   - An error if setting any environment variable fails.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "test")
	return err
}

// GetConfig is a singleton accessor for the test configuration.
// It ensures that the configuration is loaded from TOML files only once and
// is cached for subsequent calls.
//
// Returns:
//   - A pointer to the loaded and cached cloud.Config struct.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}
