package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/case2geojson/internal/engine"
)

// StdinPath reads the document from standard input.
const StdinPath = "-"

// ConvertOptions holds flags for the convert command and the bare root form.
type ConvertOptions struct {
	*RootOptions
	Output string // GeoJSON destination; stdout if empty
	Report string // JSON report destination; none if empty
}

func (o *ConvertOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Output, "output", "o", "", "write GeoJSON to this file instead of stdout")
	cmd.Flags().StringVar(&o.Report, "report", "", "write a JSON report of stats and defects to this file")
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <input.jsonld>",
		Short: "Convert one document to GeoJSON",
		Long: `Convert one CASE JSON-LD document to a GeoJSON FeatureCollection.

The output is compact UTF-8 JSON terminated by a newline. Use "-" to read
the document from stdin.

Exit codes:
  0 - Converted (defects, if any, are logged as warnings)
  2 - Fatal error (unreadable input, invalid JSON-LD, strict-mode defect)

Examples:
  case2geojson convert case.jsonld
  case2geojson convert case.jsonld -o out.geojson --report report.json
  cat case.jsonld | case2geojson convert -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], cmd)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func runConvert(opts *ConvertOptions, input string, cmd *cobra.Command) error {
	defer opts.writeMetrics(cmd)

	eng, err := opts.newEngine(cmd)
	if err != nil {
		return err
	}

	res, err := convertInput(cmd.Context(), eng, input, cmd.InOrStdin())
	if err != nil {
		if opts.Report != "" {
			if repErr := engine.WriteReports(opts.Report, engine.FailureReport(input, err)); repErr != nil {
				return WrapExitError(ExitCommandError, "failed to write report", repErr)
			}
		}
		return WrapExitError(ExitCommandError, "conversion failed", err)
	}

	if err := writeOutput(eng, res, opts.Output, cmd.OutOrStdout()); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}

	if opts.Report != "" {
		if err := engine.WriteReports(opts.Report, res.Report(input)); err != nil {
			return WrapExitError(ExitCommandError, "failed to write report", err)
		}
	}
	return nil
}

// convertInput converts a file, or stdin for StdinPath.
func convertInput(ctx context.Context, eng *engine.Engine, input string, stdin io.Reader) (*engine.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if input == StdinPath {
		return eng.Convert(ctx, stdin)
	}
	return eng.ConvertFile(ctx, input)
}

// writeOutput writes the collection to path, or to w when path is empty.
// The file is written in one call so a failed conversion never leaves a
// truncated output behind.
func writeOutput(eng *engine.Engine, res *engine.Result, path string, w io.Writer) error {
	if path == "" {
		return eng.Write(w, res)
	}
	var buf bytes.Buffer
	if err := eng.Write(&buf, res); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
