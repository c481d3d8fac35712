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

package main

import (
	"context"
	"log"
	"os"

	"github.com/moodcue/go-mood-movie-search/internal/cloud"
	"github.com/moodcue/go-mood-movie-search/internal/core/services"
	"github.com/moodcue/go-mood-movie-search/internal/core/workflow"
)

// Logical agent model keys expected in the configuration.
const (
	QuoteModelKey       = "creative-quotes"
	RecommenderModelKey = "creative-recommender"
)

// StateManager holds the shared components for the application.
type StateManager struct {
	config                *cloud.Config
	cloud                 *cloud.ServiceClients
	quoteService          *services.QuoteService
	recommendationService *services.RecommendationService
}

var state = &StateManager{}

func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	// Respect a runtime already set by the environment (e.g. "prod").
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		err = os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return err
}

func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup os environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState initializes the application state: cloud clients, the quote
// service, and the recommendation pipeline.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	quoteModel, ok := cloudClients.AgentModels[QuoteModelKey]
	if !ok {
		log.Fatalf("agent model %q missing from configuration", QuoteModelKey)
	}
	recommenderModel, ok := cloudClients.AgentModels[RecommenderModelKey]
	if !ok {
		log.Fatalf("agent model %q missing from configuration", RecommenderModelKey)
	}

	state.quoteService, err = services.NewQuoteService(quoteModel, config.PromptTemplates.QuotePrompt)
	if err != nil {
		panic(err)
	}

	pipeline := workflow.NewRecommendationPipeline(config, recommenderModel, cloudClients.Enricher)
	state.recommendationService = services.NewRecommendationService(pipeline, cloudClients.Enricher)
}
