// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

// idLength is the number of hex characters kept from the URL digest.
const idLength = 12

// StableID returns the first 12 hex characters of SHA-256(url). The same
// URL always yields the same ID.
func StableID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x", sum)[:idLength]
}

// finalize assigns IDs and derives the Dataset statistics. A repeated
// category name keeps the count of its last header.
func finalize(categories []types.Category, apps []types.App) types.Dataset {
	counts := make(map[string]int, len(categories))
	for _, c := range categories {
		counts[c.Name] = c.DeclaredCount
	}

	out := make([]types.App, len(apps))
	for i, app := range apps {
		app.ID = StableID(app.URL)
		out[i] = app
	}

	return types.Dataset{
		Stats: types.Stats{
			TotalApps:       len(out),
			TotalCategories: len(counts),
			Categories:      counts,
		},
		Languages: aggregateLanguages(out),
		Apps:      out,
	}
}

// aggregateLanguages collects unique languages from all apps and returns
// them sorted.
func aggregateLanguages(apps []types.App) []string {
	seen := make(map[string]bool)
	for _, app := range apps {
		for _, lang := range app.Languages {
			seen[lang] = true
		}
	}

	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
