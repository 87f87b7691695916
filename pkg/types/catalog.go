// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Category is a document section introduced by a "### Name (N)" heading.
type Category struct {
	// Name is the heading text with any leading decorative glyph removed.
	Name string `json:"name" yaml:"name"`

	// DeclaredCount is the number asserted in the heading. It is not
	// checked against the number of entries parsed under it.
	DeclaredCount int `json:"declaredCount" yaml:"declared_count"`
}

// App is one project entry extracted from the catalog.
type App struct {
	// ID is the first 12 hex characters of SHA-256(URL).
	ID string `json:"id" yaml:"id"`

	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`

	// Category is the name of the most recently opened Category.
	Category string `json:"category" yaml:"category"`

	// Languages lists the language tags in source order.
	Languages []string `json:"languages" yaml:"languages"`

	// Website is the project homepage. Empty when absent.
	Website string `json:"website" yaml:"website"`

	// Screenshots holds image URLs, deduplicated in first-seen order.
	Screenshots []string `json:"screenshots" yaml:"screenshots"`

	// License is the identifier taken from a license badge.
	License string `json:"license" yaml:"license"`

	// Stars is an "owner/repo" reference taken from a stars badge. It is
	// not a resolved count.
	Stars string `json:"stars" yaml:"stars"`

	// LastCommit is an "owner/repo" reference taken from a last-commit badge.
	LastCommit string `json:"lastCommit" yaml:"last_commit"`
}

// Stats summarizes a Dataset.
type Stats struct {
	TotalApps       int            `json:"totalApps" yaml:"total_apps"`
	TotalCategories int            `json:"totalCategories" yaml:"total_categories"`
	Categories      map[string]int `json:"categories" yaml:"categories"`
}

// Dataset is the normalized output of one catalog parse.
type Dataset struct {
	Stats     Stats    `json:"stats" yaml:"stats"`
	Languages []string `json:"languages" yaml:"languages"`
	Apps      []App    `json:"apps" yaml:"apps"`
}
