// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report reads and writes the YAML build report.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docbuild/pkg/types"
)

// Write marshals r as YAML to path, creating parent directories.
func Write(path string, r types.BuildReport) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// Read loads a report written by Write.
func Read(path string) (types.BuildReport, error) {
	var r types.BuildReport
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("reading report %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return r, nil
}
