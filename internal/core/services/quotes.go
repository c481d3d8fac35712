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

// Package services contains the business logic behind the HTTP endpoints.
// This file defines the QuoteService, which turns a free-text mood into a
// fixed batch of evocative movie quotes.
//
// The model runs hot (temperature well above 1.0) because quote variety
// matters more than precision here; the structural risk that brings is
// contained by the normalization pass, which strips emphasis, attributions,
// and numbering, and by padding from a fixed set of stock quotes whenever the
// model returns fewer usable lines than the batch size.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"text/template"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/moodcue/go-mood-movie-search/internal/cloud"
	"github.com/moodcue/go-mood-movie-search/internal/core/model"
)

// MaxMoodLength is the upper bound on the free-text mood input.
const MaxMoodLength = 500

// maxQuoteRunes caps a single quote's length after cleaning. Longer lines
// are almost always model preamble or commentary, not quotes.
const maxQuoteRunes = 100

// stockQuotes pad a short generation batch. Deliberately mood-agnostic.
var stockQuotes = []string{
	"Hope is a good thing, maybe the best of things, and no good thing ever dies.",
	"Life moves pretty fast. If you don't stop and look around once in a while, you could miss it.",
	"It's only after we've lost everything that we're free to do anything.",
}

// quoteNumberingRe strips a leading list marker from a generated line.
var quoteNumberingRe = regexp.MustCompile(`^\s*\d+\s*[.)]\s*`)

// attributionRe matches a trailing dash attribution such as
// " - Casablanca (1942)" so the quote stands alone.
var attributionRe = regexp.MustCompile(`\s+[-\x{2013}\x{2014}]\s+[^-]{1,80}$`)

// QuoteService generates a batch of movie quotes for a mood.
type QuoteService struct {
	GenerativeModel   cloud.ContentGenerator
	Template          *template.Template
	inputTokenCounter metric.Int64Counter
	outputTokenCount  metric.Int64Counter
}

// NewQuoteService is the constructor for QuoteService.
//
// Inputs:
//   - generativeModel: The rate-limited generative model for quotes.
//   - promptTemplate: The raw Go template text for the quote prompt.
//
// Outputs:
//   - *QuoteService: A pointer to the initialized service.
//   - error: An error if the template does not parse.
func NewQuoteService(generativeModel cloud.ContentGenerator, promptTemplate string) (*QuoteService, error) {
	tmpl, err := template.New("quote-template").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing quote prompt template: %w", err)
	}
	meter := otel.Meter("github.com/moodcue/go-mood-movie-search")
	svc := &QuoteService{GenerativeModel: generativeModel, Template: tmpl}
	svc.inputTokenCounter, _ = meter.Int64Counter("quote-service.gemini.token.input")
	svc.outputTokenCount, _ = meter.Int64Counter("quote-service.gemini.token.output")
	return svc, nil
}

// GenerateQuotes produces exactly model.QuoteCount quotes for the given mood.
// Quote IDs are the 1-based positions within the batch.
//
// Inputs:
//   - ctx: The request context.
//   - mood: The user's free-text mood. Required, at most MaxMoodLength runes.
//
// Outputs:
//   - []model.Quote: Exactly QuoteCount normalized quotes.
//   - error: ErrInvalidInput for bad input, ErrGenerationFailed when the
//     model call itself fails.
func (s *QuoteService) GenerateQuotes(ctx context.Context, mood string) ([]model.Quote, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return nil, fmt.Errorf("%w: mood is required", ErrInvalidInput)
	}
	if len([]rune(mood)) > MaxMoodLength {
		return nil, fmt.Errorf("%w: mood exceeds %d characters", ErrInvalidInput, MaxMoodLength)
	}

	var buffer strings.Builder
	exampleJSON, _ := json.Marshal(model.GetExampleQuotes())
	err := s.Template.Execute(&buffer, map[string]interface{}{
		"MOOD":         mood,
		"QUOTE_COUNT":  model.QuoteCount,
		"EXAMPLE_JSON": string(exampleJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: executing quote prompt: %v", ErrGenerationFailed, err)
	}

	raw, err := cloud.GenerateTextResponse(ctx, s.inputTokenCounter, s.outputTokenCount,
		s.GenerativeModel, cloud.NewTextPart(buffer.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	lines := parseQuoteLines(raw)
	if len(lines) < model.QuoteCount {
		slog.WarnContext(ctx, "quote generation returned a short batch, padding with stock quotes",
			"generated", len(lines))
		lines = padQuotes(lines)
	}

	quotes := make([]model.Quote, 0, model.QuoteCount)
	for i, line := range lines[:model.QuoteCount] {
		quotes = append(quotes, model.Quote{ID: i + 1, Text: line})
	}
	return quotes, nil
}

// parseQuoteLines decodes the model output into normalized quote strings.
// A JSON string array is the expected shape; free text is split per line.
func parseQuoteLines(raw string) []string {
	var candidates []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &candidates); err != nil {
		candidates = strings.Split(raw, "\n")
	}

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		q := normalizeQuote(c)
		if q != "" && len([]rune(q)) <= maxQuoteRunes {
			out = append(out, q)
		}
	}
	return out
}

// quoteWrapCutset holds the quote and emphasis characters trimmed from the
// edges of a generated quote. Interior apostrophes and quotes are part of
// the line ("You can't handle the truth!") and must survive, so the global
// text cleaner is deliberately not used here.
const quoteWrapCutset = "\"'`*“”‘’"

// normalizeQuote strips list numbering, trailing movie attributions, and
// wrapping quote or emphasis characters from a single generated line.
func normalizeQuote(in string) string {
	out := quoteNumberingRe.ReplaceAllString(in, "")
	out = attributionRe.ReplaceAllString(out, "")
	out = strings.TrimSpace(out)
	out = strings.Trim(out, quoteWrapCutset)
	return strings.TrimSpace(out)
}

// padQuotes appends stock quotes until the batch reaches QuoteCount, skipping
// any stock quote the batch already contains.
func padQuotes(lines []string) []string {
	have := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		have[l] = struct{}{}
	}
	for _, stock := range stockQuotes {
		if len(lines) >= model.QuoteCount {
			break
		}
		if _, ok := have[stock]; ok {
			continue
		}
		lines = append(lines, stock)
	}
	return lines
}
