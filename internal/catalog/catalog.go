// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog extracts project records from a markdown catalog.
//
// A catalog groups entries under "### Category (N)" headings. Each entry is
// a "- [Name](url) - description" bullet followed by a free-form detail
// block carrying languages, website, badges, and a screenshot gallery.
// Parsing is a single pass over the lines and never fails on content.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

// Parse scans a catalog document and returns the normalized Dataset.
func Parse(content string) types.Dataset {
	return ParseLines(SplitLines(content))
}

// ParseLines scans pre-split lines and returns the normalized Dataset.
func ParseLines(lines []string) types.Dataset {
	categories, apps := scan(lines)
	return finalize(categories, apps)
}

// SplitLines splits content on newlines and drops a trailing carriage
// return from each line.
func SplitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Marshal encodes a Dataset as indented JSON without HTML escaping. Map
// keys are sorted, so an unchanged document always encodes to the same
// bytes.
func Marshal(ds types.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return nil, fmt.Errorf("encoding dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteJSON writes the Dataset to path. The file is written to a temporary
// sibling first and renamed into place, so a failed run leaves any previous
// output untouched.
func WriteJSON(path string, ds types.Dataset) error {
	data, err := Marshal(ds)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming output to %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads a Dataset previously written by WriteJSON.
func ReadJSON(path string) (types.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	var ds types.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return types.Dataset{}, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	return ds, nil
}

// PrintSummary reports the three dataset counts to w.
func PrintSummary(w io.Writer, ds types.Dataset) {
	fmt.Fprintf(w, "Found %d apps\n", ds.Stats.TotalApps)
	fmt.Fprintf(w, "Found %d categories\n", ds.Stats.TotalCategories)
	fmt.Fprintf(w, "Found %d languages\n", len(ds.Languages))
}
