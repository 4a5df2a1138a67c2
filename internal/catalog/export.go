// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

// records returns every conversion with its outline.
func (s *Store) records(ctx context.Context) ([]types.ConversionRecord, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	for i := range list {
		if list[i].Outline, err = s.Outline(ctx, list[i].ID); err != nil {
			return nil, fmt.Errorf("querying for export: %w", err)
		}
	}
	return list, nil
}

// ExportYAML writes the whole catalog, outlines included, to w as YAML.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	list, err := s.records(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportJSON writes the whole catalog, outlines included, to w as JSON.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	list, err := s.records(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
