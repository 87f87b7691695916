// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalogdb persists a parsed catalog Dataset in SQLite and serves
// filtered, sorted queries over it.
package catalogdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/catalog-engine/internal/catalog"
	"github.com/pdiddy/catalog-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "catalog.db"
)

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
}

// NewStore opens or creates the catalog database at dataDir/index/catalog.db
// and creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			name TEXT PRIMARY KEY,
			declared_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS apps (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			position INTEGER NOT NULL UNIQUE,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL REFERENCES categories(name),
			languages TEXT,
			website TEXT,
			screenshots TEXT,
			license TEXT,
			stars TEXT,
			last_commit TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_apps_id ON apps(id)`,
		`CREATE INDEX IF NOT EXISTS idx_apps_category ON apps(category)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			source TEXT NOT NULL,
			digest TEXT NOT NULL,
			indexed_at TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='apps_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE apps_fts USING fts5(name, description, languages, content=apps, content_rowid=rowid)`,
			`CREATE TRIGGER apps_ai AFTER INSERT ON apps BEGIN
				INSERT INTO apps_fts(rowid, name, description, languages)
				VALUES (new.rowid, new.name, new.description, new.languages);
			END`,
			`CREATE TRIGGER apps_ad AFTER DELETE ON apps BEGIN
				INSERT INTO apps_fts(apps_fts, rowid, name, description, languages)
				VALUES ('delete', old.rowid, old.name, old.description, old.languages);
			END`,
			`CREATE TRIGGER apps_au AFTER UPDATE ON apps BEGIN
				INSERT INTO apps_fts(apps_fts, rowid, name, description, languages)
				VALUES ('delete', old.rowid, old.name, old.description, old.languages);
				INSERT INTO apps_fts(rowid, name, description, languages)
				VALUES (new.rowid, new.name, new.description, new.languages);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from one indexing run.
type IngestSummary struct {
	Apps       int
	Categories int
	Unchanged  bool
}

// Ingest replaces the indexed catalog with ds. source names the dataset
// (usually the JSON path) in progress output. A dataset whose digest
// matches the one last ingested is skipped.
func (s *Store) Ingest(ctx context.Context, ds types.Dataset, source string, w io.Writer) (IngestSummary, error) {
	digest, err := datasetDigest(ds)
	if err != nil {
		return IngestSummary{}, err
	}

	var stored string
	err = s.db.QueryRowContext(ctx,
		`SELECT digest FROM indexing_status WHERE id = 1`,
	).Scan(&stored)
	if err != nil && err != sql.ErrNoRows {
		return IngestSummary{}, fmt.Errorf("reading indexing status: %w", err)
	}
	if err == nil && stored == digest {
		fmt.Fprintf(w, "skipped %s (unchanged)\n", source)
		return IngestSummary{Unchanged: true}, nil
	}

	if err := s.replaceAll(ctx, ds, source, digest); err != nil {
		return IngestSummary{}, err
	}

	summary := IngestSummary{
		Apps:       len(ds.Apps),
		Categories: len(ds.Stats.Categories),
	}
	fmt.Fprintf(w, "indexed %s (%d apps, %d categories)\n", source, summary.Apps, summary.Categories)
	return summary, nil
}

func (s *Store) replaceAll(ctx context.Context, ds types.Dataset, source, digest string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM apps`, `DELETE FROM categories`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing index: %w", err)
		}
	}

	names := make([]string, 0, len(ds.Stats.Categories))
	for name := range ds.Stats.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (name, declared_count) VALUES (?, ?)`,
			name, ds.Stats.Categories[name],
		); err != nil {
			return fmt.Errorf("inserting category %q: %w", name, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO apps (position, id, name, url, description, category, languages,
			website, screenshots, license, stars, last_commit)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, app := range ds.Apps {
		langsJSON, err := json.Marshal(nonNil(app.Languages))
		if err != nil {
			return fmt.Errorf("encoding languages of %s: %w", app.ID, err)
		}
		shotsJSON, err := json.Marshal(nonNil(app.Screenshots))
		if err != nil {
			return fmt.Errorf("encoding screenshots of %s: %w", app.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			i, app.ID, app.Name, app.URL, app.Description, app.Category,
			string(langsJSON), app.Website, string(shotsJSON),
			app.License, app.Stars, app.LastCommit,
		); err != nil {
			return fmt.Errorf("inserting app %s: %w", app.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO indexing_status (id, source, digest, indexed_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source=excluded.source, digest=excluded.digest, indexed_at=excluded.indexed_at`,
		source, digest, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// datasetDigest hashes the canonical JSON encoding of ds.
func datasetDigest(ds types.Dataset) (string, error) {
	data, err := catalog.Marshal(ds)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
