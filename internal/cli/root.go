package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/case2geojson/internal/config"
	"github.com/roach88/case2geojson/internal/engine"
	"github.com/roach88/case2geojson/internal/metrics"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text", for command summaries
	LogFormat   string // "json" | "text", for stderr logs
	ConfigPath  string
	Strict      bool
	MetricsFile string

	// RunIDs overrides the run ID generator (for testing).
	// If nil, defaults to engine.UUIDv7Generator.
	RunIDs engine.RunIDGenerator

	metrics *metrics.Metrics
}

// ValidFormats defines the allowed output and log formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the case2geojson CLI.
//
// Called with a single file argument and no subcommand, it converts that
// file to stdout.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	convertOpts := &ConvertOptions{RootOptions: opts}

	cmd := &cobra.Command{
		Use:   "case2geojson <input.jsonld>",
		Short: "Convert CASE/UCO locations to GeoJSON",
		Long: `Convert the uco-location:Location objects of a CASE JSON-LD document
into a GeoJSON FeatureCollection.

Each location becomes one Feature. A LatLongCoordinatesFacet gives it a
Point geometry ([longitude, latitude]); a SimpleAddressFacet gives it
street, locality, region, postalCode and country properties.

A file whose name matches a subcommand (convert, query, validate, batch,
watch, test) is converted by putting "--" before it.

Exit codes:
  0 - Converted
  2 - Missing input, command error or fatal conversion error

Examples:
  case2geojson case.jsonld > locations.geojson
  case2geojson -- convert > locations.geojson
  case2geojson convert case.jsonld -o locations.geojson --report report.json
  case2geojson validate case.jsonld --strict`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if !slices.Contains(ValidFormats, opts.LogFormat) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid log format %q: must be one of %v", opts.LogFormat, ValidFormats))
			}
			if opts.MetricsFile != "" {
				opts.metrics = metrics.New()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return NewExitError(ExitCommandError, "missing input file: usage: "+cmd.UseLine())
			}
			return runConvert(convertOpts, args[0], cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "summary output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "text", "log format on stderr (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (.yaml, .yml, .json or .cue)")
	cmd.PersistentFlags().BoolVar(&opts.Strict, "strict", false, "make every defect fatal")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	convertOpts.addFlags(cmd)

	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// logger builds the stderr logger selected by the global flags.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if o.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// loadConfig reads --config and applies --strict.
func (o *RootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Strict {
		cfg.Strict()
	}
	return cfg, nil
}

// newEngine creates an engine from the global flags.
func (o *RootOptions) newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	engOpts := []engine.Option{
		engine.WithLogger(o.logger(cmd.ErrOrStderr())),
		engine.WithMetrics(o.metrics),
	}
	if o.RunIDs != nil {
		engOpts = append(engOpts, engine.WithRunIDGenerator(o.RunIDs))
	}

	eng, err := engine.New(cfg, engOpts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}
	return eng, nil
}

// writeMetrics writes --metrics-file if it was requested. A failure is
// logged and does not change the exit code.
func (o *RootOptions) writeMetrics(cmd *cobra.Command) {
	if o.MetricsFile == "" {
		return
	}
	if err := o.metrics.WriteFile(o.MetricsFile); err != nil {
		o.logger(cmd.ErrOrStderr()).Error("failed to write metrics", "path", o.MetricsFile, "error", err)
	}
}
