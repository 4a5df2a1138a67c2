//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts every PDF matching the PDF2MD_INPUTS
// glob (default testdata/*.pdf) with HTML previews, recording the results
// in bin/catalog.db.
func Convert() error {
	mg.Deps(Build)

	pattern := os.Getenv("PDF2MD_INPUTS")
	if pattern == "" {
		pattern = filepath.Join("testdata", "*.pdf")
	}
	inputs, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("matching %s: %w", pattern, err)
	}
	if len(inputs) == 0 {
		fmt.Printf("No PDFs match %s\n", pattern)
		return nil
	}

	args := []string{"convert", "--html", "--force", "--catalog", filepath.Join(binDir, "catalog.db")}
	args = append(args, inputs...)
	return sh.RunV(filepath.Join(binDir, binName), args...)
}
