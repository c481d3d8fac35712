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
	"github.com/stretchr/testify/require"
)

// TestExtractNumberedList is the canonical degraded-output fixture: two
// numbered entries with one description line each.
func TestExtractNumberedList(t *testing.T) {
	raw := "1. Inception\nA thief steals secrets via dreams.\n\n2. Arrival\nA linguist decodes an alien language."

	got := text.ExtractCandidates(raw)
	require.Len(t, got, 2)
	assert.Equal(t, "Inception", got[0].Title)
	assert.Equal(t, "A thief steals secrets via dreams.", got[0].Description)
	assert.Equal(t, "Arrival", got[1].Title)
	assert.Equal(t, "A linguist decodes an alien language.", got[1].Description)
}

// TestExtractThreeNumberedSections exercises the primary numbered-list split
// path (three or more sections) with label lines and markdown noise mixed in.
func TestExtractThreeNumberedSections(t *testing.T) {
	raw := "1. Title: **Inception** (2010)\nDescription: A thief navigates shared dreams.\n" +
		"2. **Arrival** (2016)\nA linguist decodes an alien language.\nIt rewires how she experiences time.\n" +
		"3. Her (2013)\nDescription: A lonely writer falls for an operating system."

	got := text.ExtractCandidates(raw)
	require.Len(t, got, 3)

	assert.Equal(t, "Inception", got[0].Title)
	assert.Equal(t, "2010", got[0].ReleaseYear)
	assert.Equal(t, "A thief navigates shared dreams.", got[0].Description)

	assert.Equal(t, "Arrival", got[1].Title)
	assert.Equal(t, "A linguist decodes an alien language. It rewires how she experiences time.", got[1].Description)

	assert.Equal(t, "Her", got[2].Title)
	assert.Equal(t, "2013", got[2].ReleaseYear)
	assert.Equal(t, "A lonely writer falls for an operating system.", got[2].Description)
}

// TestExtractSkipsShortSections verifies that a section without at least a
// title line and a second line contributes nothing.
func TestExtractSkipsShortSections(t *testing.T) {
	raw := "Here are some picks:\n\nInception\nA thief steals secrets via dreams.\n\nJust a stray line"
	got := text.ExtractCandidates(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "Inception", got[0].Title)
}

// TestExtractDefaultDescription verifies the fixed substitute text when a
// description cleans down to nothing (here: a bare URL).
func TestExtractDefaultDescription(t *testing.T) {
	raw := "Inception\nhttps://example.com/only-a-link\n\nArrival\nA linguist decodes an alien language."
	got := text.ExtractCandidates(raw)
	require.Len(t, got, 2)
	assert.Equal(t, text.DefaultDescription, got[0].Description)
}

// TestExtractEmptyInput confirms the parser degrades to an empty slice, never
// an error, on garbage input.
func TestExtractEmptyInput(t *testing.T) {
	assert.Empty(t, text.ExtractCandidates(""))
	assert.Empty(t, text.ExtractCandidates("no structure here at all"))
}
