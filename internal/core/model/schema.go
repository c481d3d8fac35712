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

package model

import "google.golang.org/genai"

// QuoteListSchema constrains the quote model's output to a flat JSON array of
// quote strings.
func QuoteListSchema() *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
}

// CandidateListSchema constrains the recommendation model's output to a JSON
// array of movie candidates. Field names mirror the MovieCandidate json tags
// so the structured response decodes directly.
func CandidateListSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":        {Type: genai.TypeString},
				"release_year": {Type: genai.TypeString},
				"description":  {Type: genai.TypeString},
			},
			Required: []string{"title", "description"},
		},
	}
}
