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

package cloud_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/assert"

	"github.com/moodcue/go-mood-movie-search/internal/cloud"
)

const baseToml = `
[application]
name = "mood-movie-search"
thread_pool_size = 3
port = 8080

[tmdb]
api_key_env = "TMDB_API_KEY"
primary_region = "US"
secondary_region = "GB"
requests_per_second = 10

[quota]
monthly_limit = 20

[agent_models.creative-quotes]
model = "gemini-2.0-flash"
temperature = 1.2
output_format = "application/json"
output_schema = "quote_list"
rate_limit = 5
`

const overrideToml = `
[application]
thread_pool_size = 2

[quota]
monthly_limit = 3
`

// writeConfigDir lays out a base and an environment override file the way
// the configs directory does, and points the loader's environment variables
// at it.
func writeConfigDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env.toml"), []byte(baseToml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env.test.toml"), []byte(overrideToml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(cloud.EnvConfigFilePrefix, dir)
	t.Setenv(cloud.EnvConfigRuntime, "test")
}

// TestLoadConfigHierarchy verifies that the environment-specific file
// overwrites only the values it names, leaving the rest of the base
// configuration intact.
func TestLoadConfigHierarchy(t *testing.T) {
	writeConfigDir(t)

	config := cloud.NewConfig()
	cloud.LoadConfig(&config)

	// Overridden by .env.test.toml.
	assert.Equal(t, 2, config.Application.ThreadPoolSize)
	assert.Equal(t, 3, config.Quota.MonthlyLimit)

	// Untouched base values survive the overlay.
	assert.Equal(t, "mood-movie-search", config.Application.Name)
	assert.Equal(t, 8080, config.Application.Port)
	assert.Equal(t, "US", config.TMDB.PrimaryRegion)
	assert.Equal(t, "GB", config.TMDB.SecondaryRegion)
	assert.Equal(t, 10, config.TMDB.RequestsPerSecond)

	model, ok := config.AgentModels["creative-quotes"]
	assert.True(t, ok)
	assert.Equal(t, "gemini-2.0-flash", model.Model)
	assert.Equal(t, "quote_list", model.OutputSchema)
	assert.Equal(t, "application/json", model.OutputFormat)
	assert.Equal(t, 5, model.RateLimit)
}

// TestLoadConfigMissingOverride verifies that a missing runtime file is not
// an error and the base configuration loads alone.
func TestLoadConfigMissingOverride(t *testing.T) {
	writeConfigDir(t)
	t.Setenv(cloud.EnvConfigRuntime, "staging")

	config := cloud.NewConfig()
	cloud.LoadConfig(&config)

	assert.Equal(t, 3, config.Application.ThreadPoolSize)
	assert.Equal(t, 20, config.Quota.MonthlyLimit)
}
