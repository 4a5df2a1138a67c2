// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract produces per-page plain text from source documents. Each
// backend (tabula, pdfcpu, pdftotext, text) implements Extractor; the result
// is a types.RawDocument whose Text method renders the page-marker format
// consumed by the format package.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pdf2md-legal/internal/container"
	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

var (
	// ErrUnsupportedBackend is returned by New for an unknown backend name.
	ErrUnsupportedBackend = errors.New("unsupported extraction backend")

	// ErrEmptyDocument is returned when a document has no pages.
	ErrEmptyDocument = errors.New("document has no pages")
)

// Extractor reads a document and returns its text, one entry per page.
type Extractor interface {
	Extract(ctx context.Context, path string) (types.RawDocument, error)
}

type options struct {
	logger  logrus.FieldLogger
	runtime container.Runtime
	detect  func() (container.Runtime, error)
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger for backend warnings and progress.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) { o.logger = l }
}

// WithRuntime sets the container runtime used by the pdftotext backend
// instead of detecting one.
func WithRuntime(rt container.Runtime) Option {
	return func(o *options) { o.runtime = rt }
}

// New returns the extractor for cfg.Backend. An empty backend selects tabula.
func New(cfg types.ExtractionConfig, opts ...Option) (Extractor, error) {
	o := options{logger: discardLogger(), detect: container.DetectRuntime}
	for _, fn := range opts {
		fn(&o)
	}

	switch cfg.Backend {
	case types.BackendTabula, "":
		return &TabulaExtractor{logger: o.logger}, nil
	case types.BackendPDFCPU:
		return &PDFCPUExtractor{logger: o.logger}, nil
	case types.BackendText:
		return &TextExtractor{}, nil
	case types.BackendPdftotext:
		rt := o.runtime
		if rt == nil {
			var err error
			if rt, err = o.detect(); err != nil {
				return nil, err
			}
		}
		return NewPdftotextExtractor(rt, cfg.ContainerImage, o.logger)
	default:
		return nil, fmt.Errorf("%w: %q (use tabula, pdfcpu, pdftotext, or text)", ErrUnsupportedBackend, cfg.Backend)
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// checkContext returns ctx.Err() once extraction should stop between pages.
func checkContext(ctx context.Context, page int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("extraction stopped before page %d: %w", page, err)
	}
	return nil
}
