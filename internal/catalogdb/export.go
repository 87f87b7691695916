// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalogdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/catalog-engine/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the matching apps to dataDir/index/export.yaml and
// returns the path. It supports the same filters as Retrieve; an empty
// query exports everything.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	apps, err := s.exportApps(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dataDir, indexDir, "export.yaml")
	data, err := yaml.Marshal(apps)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the matching apps to dataDir/index/export.json and
// returns the path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	apps, err := s.exportApps(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dataDir, indexDir, "export.json")
	data, err := json.MarshalIndent(apps, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportApps(ctx context.Context, opts QueryOptions) ([]types.App, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	apps, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if apps == nil {
		apps = []types.App{}
	}
	return apps, nil
}
