// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives a conversion end to end: validate the input,
// extract its text, format it as Markdown and write the outputs. Batches of
// documents run with bounded concurrency; each document is still processed
// on a single goroutine.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/pdf2md-legal/internal/extract"
	"github.com/pdiddy/pdf2md-legal/internal/format"
	"github.com/pdiddy/pdf2md-legal/internal/render"
	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

var (
	// ErrInputNotFound is returned when the input path does not name a
	// regular file.
	ErrInputNotFound = errors.New("input file not found")

	// ErrExtraction wraps any failure of the extraction backend.
	ErrExtraction = errors.New("text extraction failed")
)

// Recorder stores successful conversions. *catalog.Store implements it.
type Recorder interface {
	Record(ctx context.Context, rec *types.ConversionRecord) (int64, error)
}

// Job describes one document to convert. Empty Output and Title are filled
// in by Resolve.
type Job struct {
	Input  string
	Output string
	Title  string

	// SaveRaw also writes the extracted text to RawPath.
	SaveRaw bool

	// HTML also writes an HTML preview to HTMLPath.
	HTML bool

	// Frontmatter prepends a YAML metadata block to the Markdown.
	Frontmatter bool

	// Force converts even when Output already exists. Only batches skip.
	Force bool

	RawPath  string
	HTMLPath string
}

// Resolve returns a copy of j with default output paths and title applied.
func (j Job) Resolve() Job {
	paths := OutputPaths(j.Input, j.Output)
	j.Output = paths.Markdown
	if j.RawPath == "" {
		j.RawPath = paths.Raw
	}
	if j.HTMLPath == "" {
		j.HTMLPath = paths.HTML
	}
	if j.Title == "" {
		j.Title = DefaultTitle(j.Input)
	}
	return j
}

// Report is the outcome of one conversion.
type Report struct {
	Job     Job
	Status  types.ConversionStatus
	Backend types.ExtractionBackend
	Pages   int
	Stats   types.FormatStats

	// Chars is the length of the Markdown in characters.
	Chars int

	// RecordID is the catalog id, zero when no catalog is configured.
	RecordID int64

	// Warnings lists problems that did not stop the conversion, such as an
	// unwritable HTML preview or a catalog failure.
	Warnings []string
}

func (r *Report) warn(log logrus.FieldLogger, msg string) {
	r.Warnings = append(r.Warnings, msg)
	log.Warn(msg)
}

// Pipeline converts documents with one extractor and one formatter.
type Pipeline struct {
	extractor extract.Extractor
	formatter *format.Formatter
	backend   types.ExtractionBackend
	recorder  Recorder
	logger    logrus.FieldLogger
	status    io.Writer
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithBackend names the extraction backend in reports, frontmatter and the
// catalog.
func WithBackend(b types.ExtractionBackend) Option {
	return func(p *Pipeline) { p.backend = b }
}

// WithRecorder records every successful conversion.
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithStatus sets where the step-by-step progress lines are printed.
func WithStatus(w io.Writer) Option {
	return func(p *Pipeline) { p.status = w }
}

// NewPipeline creates a pipeline. Progress lines are discarded unless
// WithStatus is given.
func NewPipeline(ex extract.Extractor, f *format.Formatter, opts ...Option) *Pipeline {
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	p := &Pipeline{
		extractor: ex,
		formatter: f,
		backend:   types.BackendTabula,
		logger:    silent,
		status:    io.Discard,
		now:       time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Convert runs job through every stage. The Markdown file is written only
// after extraction and formatting both succeed, and every output is written
// atomically.
func (p *Pipeline) Convert(ctx context.Context, job Job) (Report, error) {
	job = job.Resolve()
	rep := Report{Job: job, Status: types.ConversionFailed, Backend: p.backend}
	log := p.logger.WithFields(logrus.Fields{"run": uuid.NewString(), "input": job.Input})

	if err := Validate(job.Input); err != nil {
		return rep, err
	}
	if warning := checkPDF(job.Input, p.backend); warning != "" {
		rep.warn(log, warning)
	}

	fmt.Fprintln(p.status, "[1/3] Extracting text from PDF...")
	doc, err := p.extractor.Extract(ctx, job.Input)
	if err != nil {
		return rep, fmt.Errorf("%w: %s: %w", ErrExtraction, job.Input, err)
	}
	rep.Pages = doc.PageCount()
	fmt.Fprintf(p.status, "  ✓ Extracted %d pages successfully\n", rep.Pages)

	raw := doc.Text()
	if job.SaveRaw {
		if sameFile(job.RawPath, job.Input) {
			rep.warn(log, fmt.Sprintf("raw text path %s is the input file, not saving raw text", job.RawPath))
		} else {
			if err := writeAtomic(job.RawPath, []byte(raw)); err != nil {
				return rep, fmt.Errorf("saving raw text: %w", err)
			}
			fmt.Fprintf(p.status, "  ✓ Raw text saved to: %s\n", job.RawPath)
			fmt.Fprintf(p.status, "  Length: %d characters\n", utf8.RuneCountInString(raw))
		}
	}

	fmt.Fprintln(p.status, "\n[2/3] Formatting to Markdown...")
	res := p.formatter.Format(job.Title, raw)
	rep.Stats = res.Stats
	fmt.Fprintf(p.status, "  ✓ Processed %d lines\n", res.Stats.Lines)

	convertedAt := p.now().UTC()
	markdown := res.Markdown
	if job.Frontmatter {
		fm, err := frontmatter(job, p.backend, rep.Pages, convertedAt)
		if err != nil {
			return rep, err
		}
		markdown = fm + markdown
	}

	// The preview is rendered before any output is written; only writing it
	// can fail once the Markdown is on disk.
	var page []byte
	if job.HTML {
		if page, err = render.HTML(job.Title, []byte(res.Markdown)); err != nil {
			return rep, err
		}
	}

	fmt.Fprintln(p.status, "\n[3/3] Saving Markdown file...")
	if err := writeAtomic(job.Output, []byte(markdown)); err != nil {
		return rep, fmt.Errorf("saving markdown: %w", err)
	}
	rep.Chars = utf8.RuneCountInString(markdown)
	fmt.Fprintf(p.status, "  ✓ Markdown saved to: %s\n", job.Output)

	rep.Status = types.ConversionDone

	if job.HTML {
		if err := writeAtomic(job.HTMLPath, page); err != nil {
			rep.warn(log.WithError(err), "HTML preview not saved: "+job.HTMLPath)
		} else {
			fmt.Fprintf(p.status, "  ✓ HTML preview saved to: %s\n", job.HTMLPath)
		}
	}

	if p.recorder != nil {
		rec := &types.ConversionRecord{
			Input:       job.Input,
			Output:      job.Output,
			Title:       job.Title,
			Backend:     p.backend,
			Pages:       rep.Pages,
			Stats:       res.Stats,
			ConvertedAt: convertedAt,
			Outline:     Outline(res.Fragments),
		}
		id, err := p.recorder.Record(ctx, rec)
		if err != nil {
			rep.warn(log.WithError(err), "conversion not recorded in catalog")
		} else {
			rep.RecordID = id
		}
	}

	log.WithFields(logrus.Fields{
		"output":  job.Output,
		"pages":   rep.Pages,
		"lines":   rep.Stats.Lines,
		"dropped": rep.Stats.Dropped,
	}).Info("converted document")
	return rep, nil
}

// Outline lists the headings, bold structural titles and article numbers
// among fragments, keeping their positions.
func Outline(fragments []types.Fragment) []types.OutlineEntry {
	var out []types.OutlineEntry
	for i, f := range fragments {
		switch f.Kind {
		case types.KindHeading, types.KindBold, types.KindArticle:
			out = append(out, types.OutlineEntry{Position: i, Kind: f.Kind, Level: f.Level, Text: f.Line})
		}
	}
	return out
}

func sameFile(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}
