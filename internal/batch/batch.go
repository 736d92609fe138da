// Package batch converts many documents concurrently.
//
// Each job is an independent engine run with its own store; the only
// shared state is the engine configuration and its metrics.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/case2geojson/internal/engine"
)

// OutputExt is appended to each input's base name.
const OutputExt = ".geojson"

// Job converts Input and writes the collection to Output.
type Job struct {
	Input  string
	Output string
}

// Outcome is the result of one job. Exactly one of Result and Err is set.
type Outcome struct {
	Job
	Result *engine.Result
	Err    error
}

// Plan expands glob patterns (doublestar syntax, "**" allowed) into jobs
// writing to outDir. Inputs are deduplicated and sorted. Two inputs with the
// same base name would overwrite each other and are rejected.
func Plan(patterns []string, outDir string) ([]Job, error) {
	seen := map[string]bool{}
	var inputs []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("glob %q: no files matched", p)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				inputs = append(inputs, m)
			}
		}
	}
	slices.Sort(inputs)

	outputs := map[string]string{}
	jobs := make([]Job, 0, len(inputs))
	for _, in := range inputs {
		base := filepath.Base(in)
		out := filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+OutputExt)
		if prev, ok := outputs[out]; ok {
			return nil, fmt.Errorf("inputs %s and %s both write %s", prev, in, out)
		}
		outputs[out] = in
		jobs = append(jobs, Job{Input: in, Output: out})
	}
	return jobs, nil
}

// Runner executes jobs with bounded concurrency.
type Runner struct {
	engine *engine.Engine
	jobs   int
	logger *slog.Logger
}

// NewRunner creates a Runner. jobs <= 0 means one per CPU.
func NewRunner(e *engine.Engine, jobs int, logger *slog.Logger) *Runner {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{engine: e, jobs: jobs, logger: logger}
}

// Run executes every job. A failing job does not stop the others; its
// error is recorded in its Outcome. Outcomes are in job order. The
// returned error is non-nil only if ctx was cancelled.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Outcome, error) {
	outcomes := make([]Outcome, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = Outcome{Job: job, Err: err}
				return err
			}
			res, err := r.convert(gctx, job)
			outcomes[i] = Outcome{Job: job, Result: res, Err: err}
			if err != nil {
				r.logger.Warn("batch job failed", "input", job.Input, "error", err)
			} else {
				r.logger.Info("batch job done", "input", job.Input, "output", job.Output, "features", res.Stats.Features)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}

func (r *Runner) convert(ctx context.Context, job Job) (*engine.Result, error) {
	res, err := r.engine.ConvertFile(ctx, job.Input)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.engine.Write(&buf, res); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(job.Output, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return res, nil
}

// Failed counts outcomes with an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
