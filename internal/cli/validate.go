package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/case2geojson/internal/engine"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool            `json:"valid"`
	RunID   string          `json:"run_id"`
	Stats   engine.Stats    `json:"stats"`
	Defects []engine.Defect `json:"defects,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <input.jsonld>",
		Short: "Convert a document and report defects",
		Long: `Run the full conversion without writing GeoJSON and list every defect:
coordinates that do not decode, address fields bound to nodes instead of
literals, and locations dropped by facet_rows=first.

Exit codes:
  0 - No defects
  1 - Defects found
  2 - Fatal error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, input string, cmd *cobra.Command) error {
	defer opts.writeMetrics(cmd)

	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	eng, err := opts.newEngine(cmd)
	if err != nil {
		return err
	}

	res, err := convertInput(cmd.Context(), eng, input, cmd.InOrStdin())
	if err != nil {
		if fmtErr := formatter.Error(ErrorCode(err), err.Error(), nil); fmtErr != nil {
			return fmtErr
		}
		return WrapExitError(ExitCommandError, "conversion failed", err)
	}

	result := ValidationResult{
		Valid:   len(res.Defects) == 0,
		RunID:   res.RunID,
		Stats:   res.Stats,
		Defects: res.Defects,
	}

	if result.Valid {
		if opts.Format == "json" {
			return formatter.Success(result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d feature(s), no defects\n", input, res.Stats.Features)
		return nil
	}

	if opts.Format == "json" {
		if err := formatter.Error(ErrCodeDefects, fmt.Sprintf("%d defect(s)", len(res.Defects)), result); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "✗ %s: %d feature(s), %d defect(s)\n", input, res.Stats.Features, len(res.Defects))
		for _, d := range res.Defects {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d defect(s) found", len(res.Defects)))
}
