// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2md-legal/internal/convert"
	"github.com/pdiddy/pdf2md-legal/internal/format"
	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

type stubExtractor struct{ calls int }

func (s *stubExtractor) Extract(_ context.Context, path string) (types.RawDocument, error) {
	s.calls++
	return types.RawDocument{Source: path, Pages: []types.Page{{Number: 1, Text: "LIVRE PREMIER\n"}}}, nil
}

func testPipeline(t *testing.T, ex *stubExtractor) *convert.Pipeline {
	t.Helper()
	f, err := format.New(nil)
	require.NoError(t, err)
	return convert.NewPipeline(ex, f)
}

func TestConvertOne_MissingInputPrintsNothing(t *testing.T) {
	ex := &stubExtractor{}
	var out bytes.Buffer

	err := convertOne(context.Background(), testPipeline(t, ex),
		convert.Job{Input: filepath.Join(t.TempDir(), "absent.pdf")}, &out)
	require.ErrorIs(t, err, convert.ErrInputNotFound)
	assert.Empty(t, out.String())
	assert.Zero(t, ex.calls)
}

func TestConvertOne_Summary(t *testing.T) {
	input := filepath.Join(t.TempDir(), "code-civil.pdf")
	require.NoError(t, os.WriteFile(input, []byte("%PDF-1.7\n"), 0o644))
	var out bytes.Buffer

	err := convertOne(context.Background(), testPipeline(t, &stubExtractor{}), convert.Job{Input: input}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "PDF to Markdown Converter for Legal Documents")
	assert.Contains(t, text, "Document title: CODE CIVIL")
	assert.Contains(t, text, "✓ Conversion completed successfully!")
	assert.Contains(t, text, "Output file: "+filepath.Join(filepath.Dir(input), "code-civil.md"))
	assert.NotContains(t, text, "Warning:")
}
