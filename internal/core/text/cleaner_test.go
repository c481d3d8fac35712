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

package text_test

import (
	"testing"

	"github.com/moodcue/go-mood-movie-search/internal/core/text"
	"github.com/stretchr/testify/assert"
)

// TestCleanStripsEmphasis verifies the markdown-emphasis round trip: a title
// wrapped in asterisks or quote characters comes back bare.
func TestCleanStripsEmphasis(t *testing.T) {
	assert.Equal(t, "Inception", text.Clean("**Inception**"))
	assert.Equal(t, "Arrival", text.Clean(`"Arrival"`))
	assert.Equal(t, "Her", text.Clean("“Her”"))
}

// TestCleanStripsURLs covers bare URLs, markdown links, and parenthesized
// URL fragments, all of which must never reach a description.
func TestCleanStripsURLs(t *testing.T) {
	cases := map[string]string{
		"A moving story. https://example.com/review":              "A moving story.",
		"A moving story. [review](https://example.com) continues": "A moving story. continues",
		"A moving story (see https://example.com for details)":    "A moving story",
		"A moving story (https://example.com)":                    "A moving story",
	}
	for in, want := range cases {
		assert.Equal(t, want, text.Clean(in))
	}
}

// TestCleanStripsCitations verifies the "according to" / "source:" suffix
// rules and bracket-only citation removal.
func TestCleanStripsCitations(t *testing.T) {
	assert.Equal(t, "A heist unfolds in dreams.",
		text.Clean("A heist unfolds in dreams. According to Wikipedia, it was a hit."))
	assert.Equal(t, "A heist unfolds in dreams.",
		text.Clean("A heist unfolds in dreams. Source: IMDb"))
	assert.Equal(t, "A heist unfolds in dreams.",
		text.Clean("A heist unfolds in dreams.[3]"))
}

// TestCleanStripsTrailingGroups verifies that a parenthesized or bracketed
// remainder anchored at end-of-string is removed, even when unterminated.
func TestCleanStripsTrailingGroups(t *testing.T) {
	assert.Equal(t, "Paddington", text.Clean("Paddington (2014)"))
	assert.Equal(t, "Paddington", text.Clean("Paddington [UK release]"))
	assert.Equal(t, "Paddington", text.Clean("Paddington (dangling"))
}

// TestCleanIdempotent asserts Clean(Clean(x)) == Clean(x) across the kinds of
// artifact-bearing strings the model actually produces.
func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text with no artifacts",
		"**Inception** (2010) [1] see https://example.com",
		"A story (note) (another note)",
		"Quoted “text” with 'apostrophes' and *stars* Source: web",
		"   whitespace   everywhere   ",
	}
	for _, in := range inputs {
		once := text.Clean(in)
		assert.Equal(t, once, text.Clean(once), "not idempotent for %q", in)
	}
}

// TestCleanTitle verifies numbering, label, and trailing-punctuation handling
// on title lines.
func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Inception", text.CleanTitle("1. **Inception**"))
	assert.Equal(t, "Inception", text.CleanTitle("Title: Inception"))
	assert.Equal(t, "Inception", text.CleanTitle("2) Inception:"))
	assert.Equal(t, "Inception", text.CleanTitle("Inception —"))
}

// TestCleanAlwaysReturns ensures degenerate inputs yield empty strings rather
// than panics or leftovers.
func TestCleanAlwaysReturns(t *testing.T) {
	assert.Equal(t, "", text.Clean("***"))
	assert.Equal(t, "", text.Clean("https://only-a-url.example.com"))
	assert.Equal(t, "", text.Clean("[citation only]"))
}
