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

// Package model defines the data structures for the application. This file,
// `examples.go`, provides factory functions for creating hardcoded, example
// instances of the data models.
//
// These example objects are used for "few-shot" prompting with the generative
// AI models. By embedding a concrete example of the desired JSON output in
// the prompt itself, we guide the model to return data that is consistent,
// correctly formatted, and easily parsable.
package model

// GetExampleCandidates creates a sample candidate list. It is serialized into
// the recommendation prompt so the model sees exactly which JSON shape to
// return: an array of objects with title, release_year, and description, and
// nothing else (no URLs, no citations, no markdown).
//
// Outputs:
//   - []MovieCandidate: a hardcoded two-entry candidate list.
func GetExampleCandidates() []MovieCandidate {
	return []MovieCandidate{
		{
			Title:       "Lost in Translation",
			ReleaseYear: "2003",
			Description: "Two lonely Americans adrift in Tokyo form an unlikely bond in a luminous hotel bar. A quiet meditation on connection, displacement, and the conversations that change us.",
		},
		{
			Title:       "The Secret Life of Walter Mitty",
			ReleaseYear: "2013",
			Description: "A daydreaming photo archivist finally chases a real adventure across Greenland and the Himalayas. Gentle, hopeful, and shot like a travel postcard.",
		},
	}
}

// GetExampleQuotes creates a sample quote list for the quote-generation
// prompt. The model is asked to answer with a bare JSON array of strings in
// this exact shape.
//
// Outputs:
//   - []string: a hardcoded three-entry quote list.
func GetExampleQuotes() []string {
	return []string{
		"Sometimes the smallest step in the right direction ends up being the biggest of your life.",
		"We accept the love we think we deserve.",
		"It is not our abilities that show what we truly are, it is our choices.",
	}
}
