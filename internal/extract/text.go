// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

// markerBlock matches one page marker as written by types.RawDocument.Text.
var markerBlock = regexp.MustCompile(`\n={80,}\nPAGE (\d+)\n={80,}\n\n`)

// TextExtractor reads previously saved raw text, such as a --save-raw side
// file, instead of a PDF.
type TextExtractor struct{}

// Extract reads path and recovers its pages from the page markers. A file
// without markers is a single page.
func (e *TextExtractor) Extract(ctx context.Context, path string) (types.RawDocument, error) {
	doc := types.RawDocument{Source: path}
	if err := checkContext(ctx, 1); err != nil {
		return doc, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return doc, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}

	doc.Pages = ParsePages(string(data))
	return doc, nil
}

// ParsePages is the inverse of types.RawDocument.Text. Text before the first
// marker is discarded.
func ParsePages(raw string) []types.Page {
	locs := markerBlock.FindAllStringSubmatchIndex(raw, -1)
	if len(locs) == 0 {
		return []types.Page{{Number: 1, Text: raw}}
	}

	pages := make([]types.Page, 0, len(locs))
	for i, loc := range locs {
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		n, err := strconv.Atoi(raw[loc[2]:loc[3]])
		if err != nil {
			n = i + 1
		}
		pages = append(pages, types.Page{Number: n, Text: raw[loc[1]:end]})
	}
	return pages
}
