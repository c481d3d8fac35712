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

// Package text contains the pure string processing used to turn raw
// generative-model output into presentable movie data. The model routinely
// decorates its answers with markdown emphasis, inline URLs, and citation
// fragments (especially when web search grounding is enabled); everything in
// this package exists to scrub those artifacts out before the data reaches a
// user.
package text

import (
	"regexp"
	"strings"
)

var (
	// Markdown-style links and bracket-only citations, e.g. "[source](http://x)"
	// and "[12]".
	markdownLinkRe = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)
	bracketRe      = regexp.MustCompile(`\[[^\]]*\]`)

	// Parenthesized fragments that carry a URL, e.g. "(https://example.com)"
	// or "(see https://example.com for details)", and bare URLs.
	parenURLRe = regexp.MustCompile(`\([^()]*https?://[^()]*\)`)
	bareURLRe  = regexp.MustCompile(`https?://\S+`)

	// Citation suffixes the model appends when grounding is on. Everything
	// from the phrase to end-of-string goes.
	citationRe = regexp.MustCompile(`(?is)\b(?:according to|source:).*$`)

	// Leftover parenthesized or bracketed remainder groups anchored at
	// end-of-string, including a dangling unterminated opener.
	trailingGroupRe = regexp.MustCompile(`\s*[([][^)\]]*[)\]]\s*$`)
	danglingGroupRe = regexp.MustCompile(`\s*[([][^)\]]*$`)

	spaceRe = regexp.MustCompile(`\s+`)

	// Emphasis and quoting characters, including the curly variants the model
	// favors.
	emphasisReplacer = strings.NewReplacer(
		"*", "", `"`, "", "'", "",
		"“", "", "”", "", "‘", "", "’", "",
	)
)

// Clean strips formatting artifacts from a chunk of generated text: emphasis
// and quote characters, URLs in any wrapping, bracket citations, trailing
// "according to ..." / "source: ..." fragments, and a trailing parenthesized
// or bracketed remainder. The result is whitespace-normalized and trimmed.
//
// Clean is total and idempotent: it never fails, may return an empty string,
// and Clean(Clean(s)) == Clean(s) for any input.
func Clean(raw string) string {
	s := emphasisReplacer.Replace(raw)
	s = markdownLinkRe.ReplaceAllString(s, "")
	s = parenURLRe.ReplaceAllString(s, "")
	s = bareURLRe.ReplaceAllString(s, "")
	s = bracketRe.ReplaceAllString(s, "")
	s = citationRe.ReplaceAllString(s, "")

	// Remove every trailing remainder group, not just the first, so that a
	// second pass over the output finds nothing left to strip.
	for {
		next := trailingGroupRe.ReplaceAllString(s, "")
		if next == s {
			break
		}
		s = next
	}
	s = danglingGroupRe.ReplaceAllString(s, "")

	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

var (
	titleLabelRe  = regexp.MustCompile(`(?i)^\s*title\s*:\s*`)
	numberingRe   = regexp.MustCompile(`^\s*\d+\s*[.)]\s*`)
	trailingPunct = " \t.,:;!-–—"
)

// CleanTitle normalizes a movie title line from generated output. On top of
// Clean it drops list numbering ("1. ", "2) "), a leading "Title:" label, and
// trailing punctuation the model uses for emphasis.
func CleanTitle(raw string) string {
	s := numberingRe.ReplaceAllString(raw, "")
	s = titleLabelRe.ReplaceAllString(s, "")
	s = Clean(s)
	return strings.TrimRight(s, trailingPunct)
}
