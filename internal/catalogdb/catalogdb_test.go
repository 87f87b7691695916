package catalogdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/catalog-engine/internal/catalog"
	"github.com/pdiddy/catalog-engine/pkg/types"
)

// --- test helpers ---

const sampleDoc = `### 🎨 Graphics (3)

- [Painter](https://github.com/o/painter) - Raster painting for artists
  **Languages:** <img title='C++'> <img title='Qt'>
  <img src='https://img.shields.io/github/stars/o/painter'>
- [vector-kit](https://github.com/o/vector) - Vector drawing toolkit
  **Languages:** <img title='Rust'>
  <img src='https://img.shields.io/github/last-commit/o/vector'>
- [Animo](https://github.com/o/animo) - Frame animation
  **Languages:** <img title='Rust'> <img title='C++'>

### Audio (2)

- [Mixer](https://github.com/o/mixer) - Multitrack audio mixing
  **Languages:** <img title='Go'>
  <img src='https://img.shields.io/github/stars/o/mixer'> <img src='https://img.shields.io/github/last-commit/o/mixer'>
`

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := types.IndexConfig{
		DataDir:    filepath.Join(tmpDir, "data"),
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, tmpDir
}

func ingestSample(t *testing.T, store *Store) types.Dataset {
	t.Helper()
	ds := catalog.Parse(sampleDoc)
	var buf strings.Builder
	if _, err := store.Ingest(context.Background(), ds, "apps.json", &buf); err != nil {
		t.Fatal(err)
	}
	return ds
}

func names(apps []types.App) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = a.Name
	}
	return out
}

func assertNames(t *testing.T, got []types.App, want ...string) {
	t.Helper()
	g := names(got)
	if strings.Join(g, ",") != strings.Join(want, ",") {
		t.Errorf("names = %v, want %v", g, want)
	}
}

// --- schema tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store, _ := testSetup(t)

	for _, table := range []string{"apps", "categories", "apps_fts", "indexing_status"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type IN ('table','view') AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestNewStoreReopens(t *testing.T) {
	store, tmpDir := testSetup(t)
	ingestSample(t, store)
	store.Close()

	again, err := NewStore(types.IndexConfig{DataDir: filepath.Join(tmpDir, "data")})
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close()

	apps, err := again.Retrieve(context.Background(), QueryOptions{Category: "Audio"})
	if err != nil {
		t.Fatal(err)
	}
	assertNames(t, apps, "Mixer")
}

// --- ingest tests ---

func TestIngest(t *testing.T) {
	store, _ := testSetup(t)
	ds := catalog.Parse(sampleDoc)

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), ds, "apps.json", &buf)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if summary.Apps != 4 || summary.Categories != 2 || summary.Unchanged {
		t.Errorf("summary = %+v", summary)
	}
	if !strings.Contains(buf.String(), "indexed apps.json (4 apps, 2 categories)") {
		t.Errorf("output %q missing indexed line", buf.String())
	}
}

func TestIngestSkipsUnchanged(t *testing.T) {
	store, _ := testSetup(t)
	ingestSample(t, store)

	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), catalog.Parse(sampleDoc), "apps.json", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if !summary.Unchanged {
		t.Error("expected unchanged dataset to be skipped")
	}
	if !strings.Contains(buf.String(), "skipped apps.json") {
		t.Errorf("output %q missing skipped line", buf.String())
	}
}

func TestIngestReplacesChanged(t *testing.T) {
	store, _ := testSetup(t)
	ingestSample(t, store)

	changed := catalog.Parse("### Misc (1)\n- [Solo](https://github.com/o/solo) - only one\n")
	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), changed, "apps.json", &buf)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Unchanged || summary.Apps != 1 {
		t.Errorf("summary = %+v", summary)
	}

	apps, err := store.Retrieve(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	assertNames(t, apps, "Solo")

	cats, err := store.Categories(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 1 || cats[0].Name != "Misc" {
		t.Errorf("categories = %+v", cats)
	}
}

func TestIngestStoresAllFields(t *testing.T) {
	store, _ := testSetup(t)
	ds := ingestSample(t, store)

	apps, err := store.Retrieve(context.Background(), QueryOptions{Category: "Audio"})
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 1 {
		t.Fatalf("got %d apps, want 1", len(apps))
	}
	want := ds.Apps[3]
	got := apps[0]
	if got.ID != want.ID || got.URL != want.URL || got.Description != want.Description ||
		got.Stars != "o/mixer" || got.LastCommit != "o/mixer" ||
		strings.Join(got.Languages, ",") != "Go" || got.Screenshots == nil {
		t.Errorf("stored app = %+v, want %+v", got, want)
	}
}

func TestRetrieveCorruptListColumn(t *testing.T) {
	tests := []struct {
		name   string
		column string
	}{
		{"languages", "languages"},
		{"screenshots", "screenshots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := testSetup(t)
			ingestSample(t, store)

			if _, err := store.db.Exec(
				`UPDATE apps SET `+tt.column+` = '["Go"' WHERE name = 'Mixer'`,
			); err != nil {
				t.Fatal(err)
			}

			_, err := store.Retrieve(context.Background(), QueryOptions{Category: "Audio"})
			if err == nil {
				t.Fatal("expected error for malformed list column")
			}
			if !strings.Contains(err.Error(), "decoding "+tt.column) {
				t.Errorf("error = %q, want it to name %s", err, tt.column)
			}
			var syntaxErr *json.SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Errorf("error %v does not wrap a JSON syntax error", err)
			}
		})
	}
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name    string
		in      sql.NullString
		want    []string
		wantErr bool
	}{
		{"null column", sql.NullString{}, []string{}, false},
		{"empty array", sql.NullString{String: "[]", Valid: true}, []string{}, false},
		{"json null", sql.NullString{String: "null", Valid: true}, []string{}, false},
		{"values", sql.NullString{String: `["a","b"]`, Valid: true}, []string{"a", "b"}, false},
		{"malformed", sql.NullString{String: `{"a":1}`, Valid: true}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeList(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got == nil || strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("decodeList = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// --- retrieve tests ---

func TestRetrieve(t *testing.T) {
	store, _ := testSetup(t)
	ingestSample(t, store)

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{"all by name", QueryOptions{}, []string{"Animo", "Mixer", "Painter", "vector-kit"}},
		{"name descending", QueryOptions{Sort: SortNameDesc}, []string{"vector-kit", "Painter", "Mixer", "Animo"}},
		{"recent first", QueryOptions{Sort: SortRecent}, []string{"Mixer", "vector-kit", "Animo", "Painter"}},
		{"popular first", QueryOptions{Sort: SortPopular}, []string{"Mixer", "Painter", "Animo", "vector-kit"}},
		{"category filter", QueryOptions{Category: "Graphics"}, []string{"Animo", "Painter", "vector-kit"}},
		{"language filter", QueryOptions{Language: "Rust"}, []string{"Animo", "vector-kit"}},
		{"category and language", QueryOptions{Category: "Graphics", Language: "C++"}, []string{"Animo", "Painter"}},
		{"text prefix", QueryOptions{Query: "anim"}, []string{"Animo"}},
		{"text matches description", QueryOptions{Query: "multitrack"}, []string{"Mixer"}},
		{"text matches language", QueryOptions{Query: "rust", Sort: SortName}, []string{"Animo", "vector-kit"}},
		{"all terms must match", QueryOptions{Query: "vector toolkit"}, []string{"vector-kit"}},
		{"quotes are ignored", QueryOptions{Query: `"raster`}, []string{"Painter"}},
		{"limit", QueryOptions{MaxResults: 2}, []string{"Animo", "Mixer"}},
		{"no match", QueryOptions{Query: "spreadsheet"}, []string{}},
		{"unknown category", QueryOptions{Category: "Nope"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps, err := store.Retrieve(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("Retrieve: %v", err)
			}
			assertNames(t, apps, tt.want...)
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	for _, s := range []string{"", "relevance", "name", "name-desc", "recent", "popular"} {
		if _, err := ParseSortOrder(s); err != nil {
			t.Errorf("ParseSortOrder(%q): %v", s, err)
		}
	}
	if _, err := ParseSortOrder("stars"); err == nil {
		t.Error("expected error for unknown sort order")
	}
}

func TestQueryOptionsIsEmpty(t *testing.T) {
	if !(QueryOptions{Query: "  ", Sort: SortName}).IsEmpty() {
		t.Error("whitespace query with sort only should be empty")
	}
	if (QueryOptions{Language: "Go"}).IsEmpty() {
		t.Error("language filter should not be empty")
	}
}

func TestFTSQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"paint", `"paint"*`},
		{"  vector   kit ", `"vector"* "kit"*`},
		{`say "hi" NOT`, `"say"* "hi"* "NOT"*`},
		{`""`, ""},
	}
	for _, tt := range tests {
		if got := ftsQuery(tt.in); got != tt.want {
			t.Errorf("ftsQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategories(t *testing.T) {
	store, _ := testSetup(t)
	ingestSample(t, store)

	cats, err := store.Categories(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []CategoryCount{
		{Name: "Audio", Declared: 2, Indexed: 1},
		{Name: "Graphics", Declared: 3, Indexed: 3},
	}
	if len(cats) != len(want) {
		t.Fatalf("got %+v, want %+v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("cats[%d] = %+v, want %+v", i, cats[i], want[i])
		}
	}
}

// --- export tests ---

func TestExportYAML(t *testing.T) {
	store, tmpDir := testSetup(t)
	ingestSample(t, store)

	path, err := store.ExportYAML(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(tmpDir, "data", indexDir, "export.yaml") {
		t.Errorf("path = %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var apps []types.App
	if err := yaml.Unmarshal(data, &apps); err != nil {
		t.Fatal(err)
	}
	if len(apps) != 4 {
		t.Errorf("exported %d apps, want 4", len(apps))
	}
	if !strings.Contains(string(data), "last_commit: o/vector") {
		t.Errorf("export missing last_commit field:\n%s", data)
	}
}

func TestExportJSONFiltered(t *testing.T) {
	store, _ := testSetup(t)
	ingestSample(t, store)

	path, err := store.ExportJSON(context.Background(), QueryOptions{Language: "Go"})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var apps []types.App
	if err := json.Unmarshal(data, &apps); err != nil {
		t.Fatal(err)
	}
	assertNames(t, apps, "Mixer")
}

func TestExportJSONEmpty(t *testing.T) {
	store, _ := testSetup(t)

	path, err := store.ExportJSON(context.Background(), QueryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty export = %q, want []", data)
	}
}
