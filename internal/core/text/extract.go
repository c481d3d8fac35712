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

// This file implements the resilience parser for recommendation output. The
// primary path asks the model for schema-constrained JSON and bypasses this
// code entirely; the parser only runs when the model ignored the schema (or
// the schema could not be attached, which happens when search grounding is
// on) and answered in prose. It makes a best effort to recover structured
// candidates from a numbered or paragraph-separated list.
package text

import (
	"regexp"
	"strings"

	"github.com/moodcue/go-mood-movie-search/internal/core/model"
)

// DefaultDescription substitutes for a candidate whose description cleaned
// down to nothing.
const DefaultDescription = "A film that resonates with themes from the quote."

var (
	numberedSplitRe = regexp.MustCompile(`(?m)^\s*\d+\s*[.)]\s+`)
	blankLineRe     = regexp.MustCompile(`\n\s*\n`)
	descLabelRe     = regexp.MustCompile(`(?i)description\s*:\s*`)
	yearRe          = regexp.MustCompile(`\((19|20)\d{2}\)`)
)

// ExtractCandidates pulls movie candidates out of unstructured generated
// text. It first splits on a numbered-list pattern; if that yields fewer than
// three sections it falls back to blank-line boundaries. Each section needs at
// least a title line and one more line to count. The candidate count is not
// guaranteed - the caller pads or truncates to the fixed response size.
func ExtractCandidates(raw string) []model.MovieCandidate {
	sections := numberedSplitRe.Split(raw, -1)
	if countNonBlank(sections) < model.RecommendationSize {
		sections = blankLineRe.Split(raw, -1)
	}

	out := make([]model.MovieCandidate, 0, len(sections))
	for _, section := range sections {
		lines := nonBlankLines(section)
		if len(lines) < 2 {
			// Not enough material for a title plus a description.
			continue
		}

		titleLine := lines[0]
		title := CleanTitle(titleLine)
		if title == "" {
			continue
		}

		// A "(2010)" style year on the title line survives as release year
		// even though CleanTitle strips the parenthetical itself.
		year := ""
		if m := yearRe.FindString(titleLine); m != "" {
			year = strings.Trim(m, "()")
		}

		out = append(out, model.MovieCandidate{
			Title:       title,
			ReleaseYear: year,
			Description: extractDescription(lines[1:]),
		})
	}
	return out
}

// extractDescription builds the description from the lines that follow the
// title. A line carrying a "description:" label wins outright; otherwise all
// lines are cleaned individually and joined with single spaces.
func extractDescription(lines []string) string {
	for _, line := range lines {
		if loc := descLabelRe.FindStringIndex(line); loc != nil {
			if d := Clean(line[loc[1]:]); d != "" {
				return d
			}
		}
	}

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if c := Clean(line); c != "" {
			parts = append(parts, c)
		}
	}
	if d := strings.Join(parts, " "); d != "" {
		return d
	}
	return DefaultDescription
}

func countNonBlank(sections []string) int {
	n := 0
	for _, s := range sections {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

func nonBlankLines(section string) []string {
	var out []string
	for _, line := range strings.Split(section, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}
