// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/reader"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

// progressEvery is the page interval between progress log entries.
const progressEvery = 10

// TabulaExtractor extracts text with the pure-Go tabula PDF reader.
type TabulaExtractor struct {
	logger logrus.FieldLogger
}

// Extract opens the PDF at path once and extracts each page in order. The
// file is closed before Extract returns.
func (e *TabulaExtractor) Extract(ctx context.Context, path string) (types.RawDocument, error) {
	doc := types.RawDocument{Source: path}

	r, err := reader.Open(path)
	if err != nil {
		return doc, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer r.Close()

	total, err := r.PageCount()
	if err != nil {
		return doc, fmt.Errorf("counting pages of %s: %w", path, err)
	}
	if total == 0 {
		return doc, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}

	log := e.logger.WithFields(logrus.Fields{"backend": types.BackendTabula, "source": path})
	for n := 1; n <= total; n++ {
		if err := checkContext(ctx, n); err != nil {
			return doc, err
		}

		text, warnings, err := tabula.FromReader(r).Pages(n).Text()
		if err != nil {
			return doc, fmt.Errorf("extracting page %d of %s: %w", n, path, err)
		}
		for _, w := range warnings {
			log.WithField("page", n).Warn(w.Message)
		}

		doc.Pages = append(doc.Pages, types.Page{Number: n, Text: withTrailingNewline(text)})

		if n%progressEvery == 0 || n == total {
			log.WithFields(logrus.Fields{"page": n, "total": total}).Debug("extracted pages")
		}
	}
	return doc, nil
}

// withTrailingNewline terminates non-empty page text with a newline so the
// last line of a page never runs into the next page marker.
func withTrailingNewline(s string) string {
	if s == "" || s[len(s)-1] == '\n' {
		return s
	}
	return s + "\n"
}
