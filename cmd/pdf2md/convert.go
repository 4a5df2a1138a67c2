// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2md-legal/internal/catalog"
	"github.com/pdiddy/pdf2md-legal/internal/convert"
	"github.com/pdiddy/pdf2md-legal/internal/extract"
	"github.com/pdiddy/pdf2md-legal/internal/format"
	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.pdf> [more.pdf...]",
	Short: "Convert legal PDF files to structured Markdown",
	Long: `Convert extracts the text of each input PDF, classifies every line
(books, titles, chapters, sections, articles, citations, table of contents
entries, plain text) and writes the Markdown next to the input.

With one input the conversion steps are printed as they run. With several
inputs, documents whose Markdown already exists are skipped unless --force
is given, and --jobs documents are converted at a time.

Backends: tabula (pure Go, default), pdfcpu (pure Go, simple fonts only),
pdftotext (poppler in a docker or podman container), and text (re-format a
file saved with --save-raw).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conv := cfg.Conversion

	output, _ := cmd.Flags().GetString("output")
	title, _ := cmd.Flags().GetString("title")
	force, _ := cmd.Flags().GetBool("force")
	if output != "" && len(args) > 1 {
		return fmt.Errorf("--output applies to a single input, got %d inputs", len(args))
	}

	profile, err := format.LoadProfile(conv.ProfilePath)
	if err != nil {
		return err
	}
	formatter, err := format.New(profile, format.WithLogger(appLogger))
	if err != nil {
		return err
	}
	ex, err := extract.New(conv.ExtractionConfig, extract.WithLogger(appLogger))
	if err != nil {
		return err
	}

	opts := []convert.Option{
		convert.WithBackend(conv.Backend),
		convert.WithLogger(appLogger),
		convert.WithStatus(os.Stdout),
	}
	if conv.CatalogPath != "" {
		store, err := catalog.Open(conv.CatalogPath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, convert.WithRecorder(store))
	}
	pipeline := convert.NewPipeline(ex, formatter, opts...)

	jobs := make([]convert.Job, len(args))
	for i, in := range args {
		jobs[i] = convert.Job{
			Input:       in,
			Output:      output,
			Title:       title,
			SaveRaw:     conv.SaveRaw,
			HTML:        conv.HTML,
			Frontmatter: conv.Frontmatter,
			Force:       force,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(jobs) == 1 {
		return convertOne(ctx, pipeline, jobs[0], os.Stdout)
	}

	result := pipeline.ConvertBatch(ctx, jobs, conv.Jobs, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed conversion", result.Failed)
	}
	return nil
}

// convertOne prints the banner, runs the pipeline with its step lines and
// prints the summary. A missing input is reported before anything is
// printed.
func convertOne(ctx context.Context, pipeline *convert.Pipeline, job convert.Job, w io.Writer) error {
	if err := convert.Validate(job.Input); err != nil {
		return err
	}
	job = job.Resolve()
	rule := strings.Repeat("=", types.PageRuleWidth)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "PDF to Markdown Converter for Legal Documents")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "\nInput PDF:     %s\n", job.Input)
	fmt.Fprintf(w, "Output MD:     %s\n", job.Output)
	if job.SaveRaw {
		fmt.Fprintf(w, "Raw text:      %s\n", job.RawPath)
	}
	if job.HTML {
		fmt.Fprintf(w, "HTML preview:  %s\n", job.HTMLPath)
	}
	fmt.Fprintf(w, "Document title: %s\n", job.Title)
	fmt.Fprintln(w)

	rep, err := pipeline.Convert(ctx, job)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "\n"+rule)
	fmt.Fprintln(w, "✓ Conversion completed successfully!")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "\nOutput file: %s\n", rep.Job.Output)
	fmt.Fprintf(w, "File size:   %s characters\n", humanize.Comma(int64(rep.Chars)))
	if rep.RecordID != 0 {
		fmt.Fprintf(w, "Catalog id:  %d\n", rep.RecordID)
	}
	for _, msg := range rep.Warnings {
		fmt.Fprintf(w, "Warning:     %s\n", msg)
	}
	fmt.Fprintln(w)
	return nil
}

func init() {
	f := convertCmd.Flags()
	f.StringP("output", "o", "", "output Markdown file (default: input with .md extension)")
	f.StringP("title", "t", "", "document title (default: derived from the file name)")
	f.Bool("save-raw", false, "also save the raw extracted text next to the input as .txt")
	f.String("backend", string(types.BackendTabula), "extraction backend: tabula, pdfcpu, pdftotext, or text")
	f.String("container-image", types.DefaultContainerImage, "container image providing pdftotext")
	f.Bool("html", false, "also write an HTML preview next to the input")
	f.Bool("frontmatter", false, "prepend YAML frontmatter to the Markdown")
	f.Bool("force", false, "reconvert inputs whose Markdown already exists (batches only)")
	f.Int("jobs", 1, "number of documents converted concurrently")

	for key, flag := range map[string]string{
		"save_raw":        "save-raw",
		"backend":         "backend",
		"container_image": "container-image",
		"html":            "html",
		"frontmatter":     "frontmatter",
		"jobs":            "jobs",
	} {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(convertCmd)
}
