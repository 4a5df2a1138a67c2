// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pdf2md-legal/internal/container"
	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

// pdftotextArgs runs poppler's pdftotext with the PDF on stdin and UTF-8
// text on stdout. Pages are separated by form feeds.
var pdftotextArgs = []string{"pdftotext", "-enc", "UTF-8", "-", "-"}

// PdftotextExtractor pipes PDFs through pdftotext inside a container image.
type PdftotextExtractor struct {
	runtime container.Runtime
	image   string
	logger  logrus.FieldLogger
}

// NewPdftotextExtractor creates an extractor that runs image with rt. It
// verifies that the image exists locally before returning. An empty image
// selects types.DefaultContainerImage and a nil logger discards output.
func NewPdftotextExtractor(rt container.Runtime, image string, logger logrus.FieldLogger) (*PdftotextExtractor, error) {
	if image == "" {
		image = types.DefaultContainerImage
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &PdftotextExtractor{runtime: rt, image: image, logger: logger}, nil
}

// Extract reads the PDF at path, pipes it through the container and splits
// the output into pages.
func (e *PdftotextExtractor) Extract(ctx context.Context, path string) (types.RawDocument, error) {
	doc := types.RawDocument{Source: path}

	f, err := os.Open(path)
	if err != nil {
		return doc, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := e.runtime.Run(ctx, e.image, pdftotextArgs, f, &out); err != nil {
		return doc, fmt.Errorf("converting %s with pdftotext: %w", path, err)
	}

	doc.Pages = splitFormFeeds(out.String())
	if len(doc.Pages) == 0 {
		return doc, fmt.Errorf("pdftotext produced empty output for %s: %w", path, ErrEmptyDocument)
	}

	e.logger.WithFields(logrus.Fields{
		"backend": types.BackendPdftotext,
		"runtime": e.runtime.Name(),
		"source":  path,
		"pages":   len(doc.Pages),
	}).Debug("extracted pages")
	return doc, nil
}

// splitFormFeeds splits pdftotext output on form feeds. pdftotext ends every
// page with one, so the empty tail after the last is not a page.
func splitFormFeeds(s string) []types.Page {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "\f")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	pages := make([]types.Page, 0, len(parts))
	for i, p := range parts {
		pages = append(pages, types.Page{Number: i + 1, Text: withTrailingNewline(p)})
	}
	return pages
}
