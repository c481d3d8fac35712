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

// Package quota defines the usage quota gate: an atomic per-user, per-month
// generation counter consulted around every recommendation call.
//
// The gate's contract deliberately tolerates a race. The caller's sequence is
// check, then generate, then increment, and that sequence is not atomic
// end-to-end: two concurrent requests from the same user can both pass the
// pre-check and both generate before either increments. The gate does not try
// to close that window. Instead, each Increment is individually serialized
// and its return value is authoritative; callers must surface the
// post-increment state even when it contradicts their earlier Check. The
// product behavior is therefore "approximately N generations per month,
// occasional overshoot under concurrency", not a strict ceiling.
package quota

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moodcue/go-mood-movie-search/internal/core/model"
)

// Gate is the quota counter consumed by the HTTP layer. Check reads the
// current month's usage without spending anything; Increment records one
// generation and returns the post-increment usage, which is the value of
// record for the request.
type Gate interface {
	Check(ctx context.Context, userID uuid.UUID, now time.Time) (model.PromptUsage, error)
	Increment(ctx context.Context, userID uuid.UUID, now time.Time) (model.PromptUsage, error)
}

// MemoryGate is an in-process Gate keyed by user and calendar month. Each
// month starts a fresh counter; old months are left in the map and pruned
// lazily when they are at least two months stale.
type MemoryGate struct {
	mu           sync.Mutex
	counts       map[string]int
	monthlyLimit int
	lastPrune    time.Time
}

// NewMemoryGate creates a MemoryGate with the given monthly generation limit.
func NewMemoryGate(monthlyLimit int) *MemoryGate {
	if monthlyLimit <= 0 {
		monthlyLimit = 20
	}
	return &MemoryGate{
		counts:       make(map[string]int),
		monthlyLimit: monthlyLimit,
	}
}

// Check reports the user's usage for the month containing now. It performs no
// mutation; the returned value may already be stale by the time the caller
// acts on it (see the package comment).
func (g *MemoryGate) Check(_ context.Context, userID uuid.UUID, now time.Time) (model.PromptUsage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.usage(g.counts[monthKey(userID, now)]), nil
}

// Increment records one generation for the user's current month and returns
// the post-increment usage. The increment itself is serialized, so concurrent
// callers each observe a distinct, monotonically increasing count.
func (g *MemoryGate) Increment(_ context.Context, userID uuid.UUID, now time.Time) (model.PromptUsage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pruneLocked(now)
	key := monthKey(userID, now)
	g.counts[key]++
	return g.usage(g.counts[key]), nil
}

// usage converts a raw count into the PromptUsage shape. Remaining never goes
// negative even when the race let the count overshoot the limit.
func (g *MemoryGate) usage(count int) model.PromptUsage {
	remaining := g.monthlyLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return model.PromptUsage{
		PromptCount:  count,
		Remaining:    remaining,
		MonthlyLimit: g.monthlyLimit,
		LimitReached: count >= g.monthlyLimit,
	}
}

// pruneLocked drops counters from months that can no longer be queried.
// Called with the mutex held, at most once a day.
func (g *MemoryGate) pruneLocked(now time.Time) {
	if now.Sub(g.lastPrune) < 24*time.Hour {
		return
	}
	g.lastPrune = now
	current := now.Format("2006-01")
	previous := now.AddDate(0, -1, 0).Format("2006-01")
	for key := range g.counts {
		suffix := key[len(key)-len(current):]
		if suffix != current && suffix != previous {
			delete(g.counts, key)
		}
	}
}

// monthKey builds the per-user, per-month counter key.
func monthKey(userID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("%s|%s", userID, now.Format("2006-01"))
}
