// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

// Paths are the files written for one input.
type Paths struct {
	Markdown string
	Raw      string
	HTML     string
}

// OutputPaths derives output locations from input. A non-empty output
// overrides the Markdown path; the raw text and HTML preview always sit next
// to the input.
func OutputPaths(input, output string) Paths {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	p := Paths{
		Markdown: stem + ".md",
		Raw:      stem + ".txt",
		HTML:     stem + ".html",
	}
	if output != "" {
		p.Markdown = output
	}
	return p
}

// DefaultTitle builds a document title from the input file name: the base
// name without extension, upper-cased, with '-' and '_' turned into spaces.
func DefaultTitle(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	return cases.Upper(language.French).String(stem)
}

// Validate checks that path names an existing regular file.
func Validate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: '%s'", ErrInputNotFound, path)
		}
		return fmt.Errorf("checking input %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: '%s' is not a regular file", ErrInputNotFound, path)
	}
	return nil
}

// checkPDF returns a warning when a PDF backend is given something that does
// not look like a PDF. Conversion still proceeds.
func checkPDF(path string, backend types.ExtractionBackend) string {
	if backend == types.BackendText {
		return ""
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Sprintf("input file '%s' does not have .pdf extension", path)
	}
	mt, err := mimetype.DetectFile(path)
	if err == nil && !mt.Is("application/pdf") {
		return fmt.Sprintf("input file '%s' looks like %s, not a PDF", path, mt.String())
	}
	return ""
}

// writeAtomic writes data to a temporary file in the destination directory
// and renames it into place, so a failed write never leaves a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

type frontmatterFields struct {
	Title       string                  `yaml:"title"`
	Source      string                  `yaml:"source"`
	Backend     types.ExtractionBackend `yaml:"backend"`
	Pages       int                     `yaml:"pages"`
	ConvertedAt string                  `yaml:"converted_at"`
}

// frontmatter renders the YAML block prepended to the Markdown.
func frontmatter(job Job, backend types.ExtractionBackend, pages int, at time.Time) (string, error) {
	data, err := yaml.Marshal(frontmatterFields{
		Title:       job.Title,
		Source:      job.Input,
		Backend:     backend,
		Pages:       pages,
		ConvertedAt: at.Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}
	return "---\n" + string(data) + "---\n\n", nil
}
