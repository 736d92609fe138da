package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/case2geojson/internal/graphpattern"
	"github.com/roach88/case2geojson/internal/location"
	"github.com/roach88/case2geojson/internal/patternsql"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	SQL bool
}

// QueryOutput is the JSON payload of the query command.
type QueryOutput struct {
	Pattern string `json:"pattern"`
	SQL     string `json:"sql,omitempty"`
	Params  []any  `json:"params,omitempty"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the location graph pattern",
		Long: `Print the graph pattern that selects locations, in SPARQL syntax.

With --sql, print the SQL it compiles to and its parameters instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.SQL, "sql", false, "print the compiled SQL")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	sel := location.Query()
	if err := graphpattern.Validate(sel).Err(); err != nil {
		return WrapExitError(ExitCommandError, "invalid location pattern", err)
	}

	out := QueryOutput{Pattern: graphpattern.Render(sel)}
	if opts.SQL {
		sql, params, err := patternsql.NewSQLCompiler().Compile(sel)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to compile location pattern", err)
		}
		out.SQL = sql
		out.Params = params
	}

	if opts.Format == "json" {
		return formatter.Success(out)
	}

	w := cmd.OutOrStdout()
	if !opts.SQL {
		fmt.Fprint(w, out.Pattern)
		return nil
	}
	fmt.Fprintln(w, out.SQL)
	for i, p := range out.Params {
		fmt.Fprintf(w, "-- $%d = %v\n", i+1, p)
	}
	return nil
}
