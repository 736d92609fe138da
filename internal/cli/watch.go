package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/case2geojson/internal/watch"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Output   string
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch -o <output.geojson> <input.jsonld>",
		Short: "Reconvert a document whenever it changes",
		Long: `Convert the input once, then again each time it is saved, writing the
GeoJSON to the output file. A failed conversion is logged and leaves the
previous output in place. Stop with Ctrl-C.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "GeoJSON output file (required)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", watch.DefaultDebounce, "wait this long after a change before converting")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runWatch(opts *WatchOptions, input string, cmd *cobra.Command) error {
	defer opts.writeMetrics(cmd)

	eng, err := opts.newEngine(cmd)
	if err != nil {
		return err
	}
	logger := opts.logger(cmd.ErrOrStderr())

	handle := func(ctx context.Context) error {
		res, err := eng.ConvertFile(ctx, input)
		if err != nil {
			return err
		}
		if err := writeOutput(eng, res, opts.Output, nil); err != nil {
			return err
		}
		logger.Info("wrote output", "output", opts.Output, "features", res.Stats.Features, "defects", len(res.Defects))
		return nil
	}

	w, err := watch.New(input, opts.Debounce, handle, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to watch input", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := w.Run(ctx); err != nil {
		return WrapExitError(ExitCommandError, "watch failed", err)
	}
	return nil
}
