// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes the stored rows to DBDir/export.yaml. It supports
// the same filters as Retrieve for partial exports.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	results, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dbDir, "export.yaml")
	data, err := yaml.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the stored rows to DBDir/export.json.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	results, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dbDir, "export.json")
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return results, nil
}
