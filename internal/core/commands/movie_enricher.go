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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// command that enriches movie candidates with catalog metadata in parallel.
//
// Logic Flow:
// Each candidate needs several round trips to the metadata catalog (search,
// detail, watch providers), so the candidates are enriched concurrently with
// a worker pool:
//
//  1. It receives the fixed-size candidate list from the fallback filler.
//  2. It launches a pool of worker goroutines fed by a `jobs` channel; each
//     job carries the candidate's position so results can be reassembled in
//     the original order regardless of which worker finishes first.
//  3. Each worker runs the enricher for its candidate inside its own OTel
//     span. Enrichment never fails a candidate: a catalog outage degrades
//     the movie to a search link, which the enricher handles internally.
//  4. The `Execute` function waits for the pool to drain, places each result
//     back at its original index, and emits the final RecommendationResult.
package commands

import (
	goctx "context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/moodcue/go-mood-movie-search/internal/core/cor"
	"github.com/moodcue/go-mood-movie-search/internal/core/model"
	"github.com/moodcue/go-mood-movie-search/internal/tmdb"
)

// MovieEnricher is a command that runs metadata enrichment for each candidate
// concurrently and assembles the final recommendation result.
type MovieEnricher struct {
	cor.BaseCommand
	enricher        *tmdb.Enricher // The metadata catalog client.
	numberOfWorkers int            // The number of concurrent workers to spawn.
}

// NewMovieEnricher is the constructor for the MovieEnricher command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - enricher: The metadata enrichment client.
//   - numberOfWorkers: The size of the worker pool for concurrent processing.
//
// Outputs:
//   - *MovieEnricher: A pointer to the newly instantiated command.
func NewMovieEnricher(name string, enricher *tmdb.Enricher, numberOfWorkers int) *MovieEnricher {
	if numberOfWorkers <= 0 {
		numberOfWorkers = model.RecommendationSize
	}
	return &MovieEnricher{
		BaseCommand:     *cor.NewBaseCommand(name),
		enricher:        enricher,
		numberOfWorkers: numberOfWorkers,
	}
}

// enrichJob encapsulates the data a worker needs to enrich one candidate.
// The index preserves the candidate's position in the final result.
type enrichJob struct {
	index     int
	ctx       goctx.Context
	span      trace.Span
	candidate model.MovieCandidate
}

// enrichResponse carries one enriched movie back from a worker.
type enrichResponse struct {
	index int
	movie model.EnrichedMovie
}

// Execute orchestrates the parallel enrichment of all candidates.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (t *MovieEnricher) Execute(context cor.Context) {
	candidates := context.Get(t.GetInputParam()).([]model.MovieCandidate)

	var wg sync.WaitGroup
	jobs := make(chan *enrichJob, len(candidates))
	results := make(chan *enrichResponse, len(candidates))

	for w := 1; w <= t.numberOfWorkers; w++ {
		wg.Add(1)
		go t.enrichWorker(jobs, results, &wg)
	}

	for i, candidate := range candidates {
		jobCtx, jobSpan := t.Tracer.Start(context.GetContext(), fmt.Sprintf("%s_enrich_%d", t.GetName(), i))
		jobSpan.SetAttributes(
			attribute.Int("sequence", i),
			attribute.String("title", candidate.Title),
		)
		jobs <- &enrichJob{index: i, ctx: jobCtx, span: jobSpan, candidate: candidate}
	}

	// No more work is coming; workers exit their range loop once drained.
	close(jobs)
	wg.Wait()
	close(results)

	// Reassemble in the candidates' original order.
	movies := make([]model.EnrichedMovie, len(candidates))
	for r := range results {
		movies[r.index] = r.movie
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), &model.RecommendationResult{Movies: movies})
}

// enrichWorker is the function each concurrent goroutine runs. It receives
// jobs from the `jobs` channel and sends enriched movies to `results`.
func (t *MovieEnricher) enrichWorker(jobs <-chan *enrichJob, results chan<- *enrichResponse, wg *sync.WaitGroup) {
	defer wg.Done()

	for j := range jobs {
		movie := t.enricher.Enrich(j.ctx, j.candidate)
		j.span.SetStatus(codes.Ok, "enrichment completed")
		j.span.End()
		results <- &enrichResponse{index: j.index, movie: movie}
	}
}
