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

// Package services contains the business logic behind the HTTP endpoints:
// quote generation and movie recommendation. This file defines the sentinel
// errors the API layer maps to response status codes.
package services

import "errors"

var (
	// ErrInvalidInput marks a request the caller can fix: missing or
	// over-length fields. Maps to a 400.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGenerationFailed means the generative model could not produce usable
	// output and no fallback exists for the operation. Maps to a 500.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrQuotaExceeded means the user's monthly generation allowance is
	// spent. Maps to a 429.
	ErrQuotaExceeded = errors.New("monthly quota exceeded")
)
