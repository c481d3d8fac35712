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

// Package catalog holds the fixed set of pre-vetted movies the recommendation
// pipeline falls back on. The catalog substitutes for retrying the generative
// call: when generation fails outright or parsing recovers too few
// candidates, entries from here pad the result so the response shape never
// changes. The list is deterministic and order-stable; callers can rely on
// the first entries being served first.
package catalog

import (
	"strings"

	"github.com/moodcue/go-mood-movie-search/internal/core/model"
)

// fallbackMovies is the hand-authored catalog. Broad crowd-pleasers on
// purpose: these surface when we know nothing useful about the user's mood,
// so they have to land reasonably for anyone.
var fallbackMovies = []model.MovieCandidate{
	{
		Title:       "The Shawshank Redemption",
		ReleaseYear: "1994",
		Description: "A banker sentenced to life in Shawshank prison forms an unlikely friendship and never gives up hope. A story about patience, dignity, and quiet defiance.",
	},
	{
		Title:       "Forrest Gump",
		ReleaseYear: "1994",
		Description: "A kind-hearted man drifts through three decades of American history, changing lives without ever meaning to. Warm, funny, and quietly devastating.",
	},
	{
		Title:       "Inside Out",
		ReleaseYear: "2015",
		Description: "The emotions inside an eleven-year-old's head scramble to guide her through a cross-country move. A bright, inventive film about why sadness matters.",
	},
	{
		Title:       "The Grand Budapest Hotel",
		ReleaseYear: "2014",
		Description: "A legendary concierge and his lobby boy are swept into a caper involving a stolen painting and a contested fortune. Meticulous, melancholy, and very funny.",
	},
	{
		Title:       "Spirited Away",
		ReleaseYear: "2001",
		Description: "A ten-year-old girl wanders into a bathhouse for spirits and must work to free her parents. A strange, gorgeous fable about courage and names.",
	},
	{
		Title:       "Good Will Hunting",
		ReleaseYear: "1997",
		Description: "A janitor at MIT with a gift for mathematics is forced to confront the life he is hiding from. Raw, generous, and full of hard-won warmth.",
	},
}

// Movies returns the full catalog in its fixed order. The returned slice is a
// copy; callers may mutate it freely.
func Movies() []model.MovieCandidate {
	out := make([]model.MovieCandidate, len(fallbackMovies))
	copy(out, fallbackMovies)
	return out
}

// Fill pads current with catalog entries until it holds want candidates,
// preferring entries whose titles appear neither in current nor in exclude.
// If every catalog entry is excluded the exclusion preference is dropped and
// the catalog is cycled from the top, so the output stage is never left short.
// When current already holds want or more entries, the first want are kept.
func Fill(current []model.MovieCandidate, exclude []string, want int) []model.MovieCandidate {
	if len(current) >= want {
		return current[:want]
	}

	out := make([]model.MovieCandidate, 0, want)
	out = append(out, current...)

	taken := make(map[string]bool, want+len(exclude))
	for _, c := range current {
		taken[titleKey(c.Title)] = true
	}
	excluded := make(map[string]bool, len(exclude))
	for _, title := range exclude {
		excluded[titleKey(title)] = true
	}

	// First pass: fresh entries only.
	for _, m := range fallbackMovies {
		if len(out) == want {
			return out
		}
		key := titleKey(m.Title)
		if taken[key] || excluded[key] {
			continue
		}
		taken[key] = true
		out = append(out, m)
	}

	// Exhausted the fresh entries; cycle the catalog ignoring the exclusion
	// list (still skipping duplicates already in the result).
	for _, m := range fallbackMovies {
		if len(out) == want {
			return out
		}
		key := titleKey(m.Title)
		if taken[key] {
			continue
		}
		taken[key] = true
		out = append(out, m)
	}
	return out
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
