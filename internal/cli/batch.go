package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/case2geojson/internal/batch"
	"github.com/roach88/case2geojson/internal/engine"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	OutDir string
	Jobs   int
	Report string
}

// BatchFile is one line of the batch summary.
type BatchFile struct {
	Input    string `json:"input"`
	Output   string `json:"output,omitempty"`
	Features int    `json:"features"`
	Defects  int    `json:"defects"`
	Error    string `json:"error,omitempty"`
}

// BatchResult holds the overall batch result.
type BatchResult struct {
	Files     []BatchFile `json:"files"`
	Converted int         `json:"converted"`
	Failed    int         `json:"failed"`
	Total     int         `json:"total"`
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch --out-dir <dir> <glob>...",
		Short: "Convert many documents concurrently",
		Long: `Convert every file matched by the glob patterns ("**" matches any
number of directories). Each input <name>.<ext> is written to
<out-dir>/<name>.geojson. A failing file does not stop the others.

Exit codes:
  0 - Every file converted
  1 - One or more files failed
  2 - Command error (bad glob, no matches, colliding output names)

Examples:
  case2geojson batch --out-dir out 'cases/**/*.jsonld'
  case2geojson batch --out-dir out --jobs 4 --report batch.json a.jsonld b.jsonld`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "directory for GeoJSON outputs (required)")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "concurrent conversions (default: number of CPUs)")
	cmd.Flags().StringVar(&opts.Report, "report", "", "write a JSON report for every file to this path")
	_ = cmd.MarkFlagRequired("out-dir")

	return cmd
}

func runBatch(opts *BatchOptions, patterns []string, cmd *cobra.Command) error {
	defer opts.writeMetrics(cmd)

	jobs, err := batch.Plan(patterns, opts.OutDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to expand inputs", err)
	}

	eng, err := opts.newEngine(cmd)
	if err != nil {
		return err
	}

	runner := batch.NewRunner(eng, opts.Jobs, opts.logger(cmd.ErrOrStderr()))
	outcomes, err := runner.Run(cmd.Context(), jobs)
	if err != nil {
		return WrapExitError(ExitCommandError, "batch interrupted", err)
	}

	result := BatchResult{Files: make([]BatchFile, 0, len(outcomes)), Total: len(outcomes)}
	reports := make([]engine.Report, 0, len(outcomes))
	for _, o := range outcomes {
		file := BatchFile{Input: o.Input}
		if o.Err != nil {
			file.Error = o.Err.Error()
			result.Failed++
			reports = append(reports, engine.FailureReport(o.Input, o.Err))
		} else {
			file.Output = o.Output
			file.Features = o.Result.Stats.Features
			file.Defects = len(o.Result.Defects)
			result.Converted++
			reports = append(reports, o.Result.Report(o.Input))
		}
		result.Files = append(result.Files, file)
	}

	if opts.Report != "" {
		if err := engine.WriteReports(opts.Report, reports...); err != nil {
			return WrapExitError(ExitCommandError, "failed to write report", err)
		}
	}

	if err := outputBatch(cmd, opts, result); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) failed", result.Failed, result.Total))
	}
	return nil
}

func outputBatch(cmd *cobra.Command, opts *BatchOptions, result BatchResult) error {
	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		status := "ok"
		if result.Failed > 0 {
			status = "error"
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: status, Data: result})
	}

	for _, f := range result.Files {
		if f.Error != "" {
			fmt.Fprintf(w, "✗ %s\n  %s\n", f.Input, f.Error)
			continue
		}
		fmt.Fprintf(w, "✓ %s -> %s (%d feature(s), %d defect(s))\n", f.Input, f.Output, f.Features, f.Defects)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Batch Summary: %d converted, %d failed, %d total\n", result.Converted, result.Failed, result.Total)
	return nil
}
