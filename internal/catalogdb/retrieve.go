// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalogdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

// SortOrder selects the ordering of query results.
type SortOrder string

const (
	// SortRelevance orders full-text matches by FTS5 rank. It is the
	// default when a text query is given.
	SortRelevance SortOrder = "relevance"
	// SortName orders by name, case-insensitively. It is the default for
	// filter-only queries.
	SortName     SortOrder = "name"
	SortNameDesc SortOrder = "name-desc"
	// SortRecent puts apps with a last-commit reference first, then by name.
	SortRecent SortOrder = "recent"
	// SortPopular puts apps with a stars reference first, then by name.
	SortPopular SortOrder = "popular"
)

// ParseSortOrder validates a user-supplied sort name. The empty string is
// accepted and resolved per query.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case "", SortRelevance, SortName, SortNameDesc, SortRecent, SortPopular:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q: use relevance, name, name-desc, recent, or popular", s)
	}
}

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Query is free text matched against name, description, and languages.
	// Each term matches as a prefix; all terms must match.
	Query string

	// Category filters by exact category name.
	Category string

	// Language filters by exact language tag.
	Language string

	Sort SortOrder

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return strings.TrimSpace(q.Query) == "" && q.Category == "" && q.Language == ""
}

// Retrieve queries the index with optional full-text search, filters,
// and ordering.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.App, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	match := ftsQuery(opts.Query)
	useFTS := match != ""

	order := opts.Sort
	if order == "" {
		order = SortName
		if useFTS {
			order = SortRelevance
		}
	}
	if order == SortRelevance && !useFTS {
		order = SortName
	}

	var (
		qb   strings.Builder
		args []any
	)

	const columns = `a.id, a.name, a.url, a.description, a.category, a.languages,
		a.website, a.screenshots, a.license, a.stars, a.last_commit`

	if useFTS {
		qb.WriteString(`SELECT ` + columns + `
			FROM apps_fts
			JOIN apps a ON a.rowid = apps_fts.rowid
			WHERE apps_fts MATCH ?`)
		args = append(args, match)
	} else {
		qb.WriteString(`SELECT ` + columns + ` FROM apps a WHERE 1=1`)
	}

	if opts.Category != "" {
		qb.WriteString(` AND a.category = ?`)
		args = append(args, opts.Category)
	}

	if opts.Language != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(a.languages) WHERE value = ?)`)
		args = append(args, opts.Language)
	}

	qb.WriteString(orderClause(order))

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []types.App
	for rows.Next() {
		var (
			app       types.App
			langsJSON sql.NullString
			shotsJSON sql.NullString
		)

		if err := rows.Scan(
			&app.ID, &app.Name, &app.URL, &app.Description, &app.Category, &langsJSON,
			&app.Website, &shotsJSON, &app.License, &app.Stars, &app.LastCommit,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		if app.Languages, err = decodeList(langsJSON); err != nil {
			return nil, fmt.Errorf("decoding languages of %s: %w", app.ID, err)
		}
		if app.Screenshots, err = decodeList(shotsJSON); err != nil {
			return nil, fmt.Errorf("decoding screenshots of %s: %w", app.ID, err)
		}
		results = append(results, app)
	}

	return results, rows.Err()
}

func orderClause(order SortOrder) string {
	switch order {
	case SortRelevance:
		return ` ORDER BY apps_fts.rank, a.position`
	case SortNameDesc:
		return ` ORDER BY a.name COLLATE NOCASE DESC, a.position`
	case SortRecent:
		return ` ORDER BY a.last_commit = '', a.name COLLATE NOCASE, a.position`
	case SortPopular:
		return ` ORDER BY a.stars = '', a.name COLLATE NOCASE, a.position`
	default:
		return ` ORDER BY a.name COLLATE NOCASE, a.position`
	}
}

// ftsQuery turns free text into an FTS5 expression where every term is a
// quoted prefix match. Quotes in the input are dropped so user text can
// never inject FTS5 syntax.
func ftsQuery(text string) string {
	var terms []string
	for _, f := range strings.Fields(text) {
		f = strings.ReplaceAll(f, `"`, "")
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"*`)
	}
	return strings.Join(terms, " ")
}

// decodeList reads a JSON array column. NULL decodes to an empty list.
func decodeList(v sql.NullString) ([]string, error) {
	out := []string{}
	if !v.Valid {
		return out, nil
	}
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// CategoryCount pairs a category's declared count with the number of apps
// actually indexed under it.
type CategoryCount struct {
	Name     string `json:"name" yaml:"name"`
	Declared int    `json:"declared" yaml:"declared"`
	Indexed  int    `json:"indexed" yaml:"indexed"`
}

// Categories lists every indexed category sorted by name.
func (s *Store) Categories(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.name, c.declared_count, count(a.rowid)
		 FROM categories c
		 LEFT JOIN apps a ON a.category = c.name
		 GROUP BY c.name
		 ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Name, &c.Declared, &c.Indexed); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
