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

// Package model defines the core data structures for the application.
// This file, `transient.go`, contains the struct definitions for data that
// lives only for the duration of a single request. Quotes are discarded once
// the user picks one, and recommendation results are rebuilt from scratch on
// every call (including "try again" regenerations), so none of these objects
// are ever persisted by this subsystem.
package model

// RecommendationSize is the fixed number of movies a recommendation response
// always contains, regardless of how the upstream generation performed.
const RecommendationSize = 3

// QuoteCount is the fixed number of quotes produced per generation cycle.
const QuoteCount = 3

// Quote is a short, evocative movie quote generated for a mood. The ID is the
// 1-based position of the quote in its generation batch; it carries no
// meaning beyond letting the UI reference the user's selection.
type Quote struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// MovieCandidate is a movie suggestion before metadata enrichment. It is
// produced either by parsing generated text or directly from the fallback
// catalog. Titles must already be free of emphasis characters (asterisks,
// quote marks) and descriptions free of URLs and citation fragments by the
// time a candidate is constructed; the text package enforces this.
type MovieCandidate struct {
	Title       string `json:"title"`
	ReleaseYear string `json:"release_year"`
	Description string `json:"description"`
}

// StreamingProvider describes where a movie can be watched in the resolved
// region. URL is a provider deep link when a known template exists for the
// provider name, otherwise a generic detail-page link.
type StreamingProvider struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	LogoURL string `json:"logoUrl"`
}

// EnrichedMovie is a MovieCandidate augmented with catalog metadata. When the
// catalog lookup fails, DetailLink degrades to a generic web-search URL and
// every optional field stays absent; enrichment never fails a candidate.
type EnrichedMovie struct {
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	ReleaseYear        string              `json:"releaseYear"`
	DetailLink         string              `json:"detailLink"`
	PosterURL          string              `json:"posterUrl,omitempty"`
	Rating             *float64            `json:"rating,omitempty"`
	StreamingProviders []StreamingProvider `json:"streamingProviders"`
}

// RecommendationRequest carries the inputs for one recommendation call.
// SelectedQuote is required; the rest is optional context. PreviousMovies is
// the exclusion list the caller accumulates across "try again" regenerations
// within a session.
type RecommendationRequest struct {
	SelectedQuote   string   `json:"selectedQuote"`
	Mood            string   `json:"originalEmotion"`
	UserPreferences string   `json:"userPreferences"`
	PreviousMovies  []string `json:"previousMovies"`
}

// RecommendationResult is the final, fixed-shape response of the
// recommendation pipeline: always exactly RecommendationSize movies.
type RecommendationResult struct {
	Movies []EnrichedMovie `json:"movies"`
}

// GeneratedPayload is the tagged union of the two shapes the generative model
// can return. When the model honored the response schema, Structured holds the
// parsed candidates and Raw is empty. When the output came back as free text
// (schema unsupported or ignored), Raw holds it for the resilience parser.
type GeneratedPayload struct {
	Structured []MovieCandidate
	Raw        string
}

// IsStructured reports whether the payload carries schema-valid candidates.
func (p *GeneratedPayload) IsStructured() bool {
	return len(p.Structured) > 0
}

// PromptUsage mirrors the usage quota gate's view of a user's monthly
// generation budget. The value returned by the gate's post-generation
// increment is authoritative: under concurrent requests it may disagree with
// an earlier pre-check, and callers must surface the increment's answer, not
// their own stale read.
type PromptUsage struct {
	PromptCount  int  `json:"promptCount"`
	Remaining    int  `json:"remaining"`
	MonthlyLimit int  `json:"monthlyLimit"`
	LimitReached bool `json:"limitReached"`
}
