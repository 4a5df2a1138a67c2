// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

func TestParsePages(t *testing.T) {
	t.Run("round trip through page markers", func(t *testing.T) {
		doc := types.RawDocument{Pages: []types.Page{
			{Number: 1, Text: "LIVRE PREMIER\n"},
			{Number: 2, Text: ""},
			{Number: 3, Text: "1.\nTout être humain possède la personnalité juridique.\n"},
		}}
		got := ParsePages(doc.Text())
		assert.Equal(t, doc.Pages, got)
		assert.Equal(t, doc.Text(), types.RawDocument{Pages: got}.Text())
	})

	t.Run("no markers is one page", func(t *testing.T) {
		assert.Equal(t, []types.Page{{Number: 1, Text: "plain text\n"}}, ParsePages("plain text\n"))
	})

	t.Run("leading text discarded", func(t *testing.T) {
		raw := "preamble" + types.RawDocument{Pages: []types.Page{{Number: 7, Text: "body\n"}}}.Text()
		assert.Equal(t, []types.Page{{Number: 7, Text: "body\n"}}, ParsePages(raw))
	})
}

func TestTextExtractor(t *testing.T) {
	ex := &TextExtractor{}

	t.Run("saved raw text", func(t *testing.T) {
		want := types.RawDocument{Pages: []types.Page{
			{Number: 1, Text: "TITRE PREMIER\n"},
			{Number: 2, Text: "12.\n"},
		}}
		path := writeFile(t, "code.txt", want.Text())

		doc, err := ex.Extract(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, path, doc.Source)
		assert.Equal(t, want.Pages, doc.Pages)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := ex.Extract(context.Background(), writeFile(t, "empty.txt", ""))
		require.ErrorIs(t, err, ErrEmptyDocument)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ex.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ex.Extract(ctx, writeFile(t, "code.txt", "x"))
		require.ErrorIs(t, err, context.Canceled)
	})
}
