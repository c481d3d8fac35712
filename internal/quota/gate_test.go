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

package quota_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodcue/go-mood-movie-search/internal/core/model"
	"github.com/moodcue/go-mood-movie-search/internal/quota"
)

func TestCheckStartsAtZero(t *testing.T) {
	gate := quota.NewMemoryGate(20)
	usage, err := gate.Check(context.Background(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, usage.PromptCount)
	assert.Equal(t, 20, usage.Remaining)
	assert.Equal(t, 20, usage.MonthlyLimit)
	assert.False(t, usage.LimitReached)
}

func TestIncrementCountsPerUser(t *testing.T) {
	gate := quota.NewMemoryGate(20)
	ctx := context.Background()
	now := time.Now()
	alice := uuid.New()
	bob := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := gate.Increment(ctx, alice, now)
		require.NoError(t, err)
	}
	usage, err := gate.Increment(ctx, bob, now)
	require.NoError(t, err)
	assert.Equal(t, 1, usage.PromptCount)

	usage, err = gate.Check(ctx, alice, now)
	require.NoError(t, err)
	assert.Equal(t, 3, usage.PromptCount)
	assert.Equal(t, 17, usage.Remaining)
}

// The Nth increment is the one that flips LimitReached: the request that
// consumes the last slot succeeds, and its response already carries the
// exhausted state.
func TestLimitBoundary(t *testing.T) {
	gate := quota.NewMemoryGate(3)
	ctx := context.Background()
	now := time.Now()
	user := uuid.New()

	for i := 1; i <= 2; i++ {
		usage, err := gate.Increment(ctx, user, now)
		require.NoError(t, err)
		assert.False(t, usage.LimitReached, "increment %d", i)
	}

	usage, err := gate.Increment(ctx, user, now)
	require.NoError(t, err)
	assert.Equal(t, 3, usage.PromptCount)
	assert.Equal(t, 0, usage.Remaining)
	assert.True(t, usage.LimitReached)

	// Pre-check now reports exhaustion for the next request.
	usage, err = gate.Check(ctx, user, now)
	require.NoError(t, err)
	assert.True(t, usage.LimitReached)
}

// Overshoot past the limit is tolerated: Remaining floors at zero and the
// count keeps recording what actually happened.
func TestOvershootClampsRemaining(t *testing.T) {
	gate := quota.NewMemoryGate(2)
	now := time.Now()
	user := uuid.New()

	usage := mustIncrementN(t, gate, user, now, 5)
	assert.Equal(t, 5, usage.PromptCount)
	assert.Equal(t, 0, usage.Remaining)
	assert.True(t, usage.LimitReached)
}

func TestMonthRollover(t *testing.T) {
	gate := quota.NewMemoryGate(5)
	ctx := context.Background()
	user := uuid.New()
	january := time.Date(2026, time.January, 20, 12, 0, 0, 0, time.UTC)
	february := time.Date(2026, time.February, 1, 0, 0, 1, 0, time.UTC)

	mustIncrementN(t, gate, user, january, 5)
	usage, err := gate.Check(ctx, user, january)
	require.NoError(t, err)
	assert.True(t, usage.LimitReached)

	usage, err = gate.Check(ctx, user, february)
	require.NoError(t, err)
	assert.Equal(t, 0, usage.PromptCount)
	assert.False(t, usage.LimitReached)
}

// Concurrent increments never lose a count: each one is serialized even
// though the surrounding check/generate/increment sequence is not.
func TestConcurrentIncrements(t *testing.T) {
	gate := quota.NewMemoryGate(1000)
	ctx := context.Background()
	now := time.Now()
	user := uuid.New()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = gate.Increment(ctx, user, now)
		}()
	}
	wg.Wait()

	usage, err := gate.Check(ctx, user, now)
	require.NoError(t, err)
	assert.Equal(t, workers, usage.PromptCount)
}

func mustIncrementN(t *testing.T, gate quota.Gate, user uuid.UUID, now time.Time, n int) model.PromptUsage {
	t.Helper()
	ctx := context.Background()
	var usage model.PromptUsage
	for i := 0; i < n; i++ {
		u, err := gate.Increment(ctx, user, now)
		if err != nil {
			t.Fatalf("increment %d: %v", i+1, err)
		}
		usage = u
	}
	return usage
}
