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
// This file implements a wrapper around the standard Generative AI client.
// The wrapper uses the Decorator design pattern to add rate limiting to the
// Generative AI model without altering its code: Vertex AI enforces per-minute
// request quotas, and the wrapper keeps the application inside them.
//
// Structs:
//   - QuotaAwareGenerativeAIModel: A struct that wraps the base genai model
//     handle and adds a rate limiter.
//
// Functions:
//   - NewQuotaAwareModel: A constructor to create a new instance of the wrapped model.
//   - GenerateContent: An overridden method that blocks on the rate limiter
//     before calling the AI model.
package cloud

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// ContentGenerator is the minimal surface the command and service layers need
// from a generative model. QuotaAwareGenerativeAIModel satisfies it in
// production; tests substitute fakes.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error)
}

// QuotaAwareGenerativeAIModel is a decorator that pairs a generation config
// and model name with the shared genai model handle and a rate limiter.
// Callers see a single GenerateContent method; the limiter is invisible to
// them beyond added latency under load.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig // The fully resolved generation config for this logical model.
	ModelName               string
	ModelHandle             *genai.Models
	RateLimit               *rate.Limiter // Controls request frequency against the Vertex AI quota.
}

// NewQuotaAwareModel is a constructor function that creates a new
// QuotaAwareGenerativeAIModel. It takes the generation config, the model name,
// the shared model handle, and a rate limit in requests per second.
//
// Outputs:
//   - *QuotaAwareGenerativeAIModel: A pointer to the newly created wrapper.
func NewQuotaAwareModel(wrapped *genai.GenerateContentConfig, name string, modelHandle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: wrapped,
		ModelName:               name,
		ModelHandle:             modelHandle,
		// Allows a burst of requestsPerSecond events and replenishes the
		// token bucket once per second.
		RateLimit: rate.NewLimiter(rate.Every(time.Second/1), requestsPerSecond),
	}
}

// GenerateContent blocks until the rate limiter admits the request, then makes
// a single call to the model. Failures propagate to the caller unchanged so
// the service layer can run its fallback path instead of re-prompting.
//
// Inputs:
//   - ctx: The context for the request. Cancellation releases a caller
//     waiting on the limiter.
//   - content: The prompt content.
//
// Outputs:
//   - *genai.GenerateContentResponse: The response from the AI model if successful.
//   - error: An error from the limiter wait or the API call.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	if err := q.RateLimit.Wait(ctx); err != nil {
		return nil, err
	}
	return q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
}
