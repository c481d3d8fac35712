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

// This file holds the provider deep-link table: an explicit mapping from
// streaming provider names (as TMDB spells them) to search deep-link
// templates, with a generic fallback for providers we have no template for.
// Keeping the table in one place avoids scattering URL interpolation through
// the enricher.
package tmdb

import (
	"net/url"
	"strings"
)

// deepLinkTemplates maps a normalized provider name to a function that builds
// a title-search deep link inside that provider's catalog. Names are
// normalized with providerKey before lookup.
var deepLinkTemplates = map[string]func(title string) string{
	"netflix": func(title string) string {
		return "https://www.netflix.com/search?q=" + url.QueryEscape(title)
	},
	"amazon prime video": func(title string) string {
		return "https://www.amazon.com/s?k=" + url.QueryEscape(title) + "&i=instant-video"
	},
	"disney plus": func(title string) string {
		return "https://www.disneyplus.com/search?q=" + url.QueryEscape(title)
	},
	"hulu": func(title string) string {
		return "https://www.hulu.com/search?q=" + url.QueryEscape(title)
	},
	"max": func(title string) string {
		return "https://play.max.com/search?q=" + url.QueryEscape(title)
	},
	"apple tv": func(title string) string {
		return "https://tv.apple.com/search?term=" + url.QueryEscape(title)
	},
	"paramount plus": func(title string) string {
		return "https://www.paramountplus.com/search/?query=" + url.QueryEscape(title)
	},
}

// defaultProviderLogo is attached when the catalog returned no logo path for
// a provider.
const defaultProviderLogo = "https://www.themoviedb.org/assets/2/v4/logos/v2/blue_square_1.svg"

// DeepLink builds the watch URL for a provider. Known providers get their
// in-catalog search template keyed by name; unknown providers fall back to
// the movie's generic detail-page URL.
func DeepLink(providerName, title, detailURL string) string {
	if tpl, ok := deepLinkTemplates[providerKey(providerName)]; ok {
		return tpl(title)
	}
	return detailURL
}

// providerKey normalizes a provider name for table lookup. TMDB uses names
// like "Amazon Prime Video" and "Disney Plus"; we match case-insensitively.
func providerKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
