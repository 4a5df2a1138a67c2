// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/pdf2md-legal/pkg/types"
)

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int

	// Reports has one entry per job, in job order.
	Reports []Report
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts jobs with at most limit documents in flight,
// printing one status line per document to w and a summary at the end.
// Documents whose Markdown already exists are skipped unless the job sets
// Force. A failed document does not stop the others.
func (p *Pipeline) ConvertBatch(ctx context.Context, jobs []Job, limit int, w io.Writer) BatchResult {
	if limit < 1 {
		limit = 1
	}
	quiet := *p
	quiet.status = io.Discard

	result := BatchResult{Reports: make([]Report, len(jobs))}
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(limit)

	for i, job := range jobs {
		g.Go(func() error {
			job = job.Resolve()
			name := filepath.Base(job.Input)

			var (
				rep  Report
				line string
			)
			if _, err := os.Stat(job.Output); err == nil && !job.Force {
				rep = Report{Job: job, Status: types.ConversionSkipped, Backend: p.backend}
				line = fmt.Sprintf("skipped: %s (already exists)", name)
			} else {
				var err error
				rep, err = quiet.Convert(ctx, job)
				if err != nil {
					line = fmt.Sprintf("failed:  %s (%v)", name, err)
				} else {
					line = fmt.Sprintf("converted: %s -> %s", name, job.Output)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			result.Reports[i] = rep
			switch rep.Status {
			case types.ConversionDone:
				result.Converted++
			case types.ConversionSkipped:
				result.Skipped++
			default:
				result.Failed++
			}
			fmt.Fprintln(w, line)
			return nil
		})
	}
	_ = g.Wait()

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}
