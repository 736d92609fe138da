package patternsql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/case2geojson/internal/graphpattern"
	"github.com/roach88/case2geojson/internal/store"
	"github.com/roach88/case2geojson/internal/term"
)

// Evaluate compiles sel and runs it against q.
// Returns one Solution per result row in deterministic order; an empty
// slice (not nil) when nothing matches.
func Evaluate(ctx context.Context, q store.Querier, sel graphpattern.Select) ([]graphpattern.Solution, error) {
	query, params, err := NewSQLCompiler().Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}

	rows, err := q.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("execute pattern: %w", err)
	}
	defer rows.Close()

	solutions := []graphpattern.Solution{}
	for rows.Next() {
		sol, err := scanSolution(rows, sel.Vars)
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, sol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate solutions: %w", err)
	}
	return solutions, nil
}

func scanSolution(rows *sql.Rows, vars []graphpattern.Var) (graphpattern.Solution, error) {
	cols := make([]sql.NullString, len(vars)*4)
	dest := make([]any, len(cols))
	for i := range cols {
		dest[i] = &cols[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan solution: %w", err)
	}

	sol := make(graphpattern.Solution, len(vars))
	for i, v := range vars {
		kind, value, datatype, lang := cols[i*4], cols[i*4+1], cols[i*4+2], cols[i*4+3]
		if !kind.Valid {
			continue // unbound
		}
		t, err := term.Decode(term.Kind(kind.String), value.String, datatype.String, lang.String)
		if err != nil {
			return nil, fmt.Errorf("decode ?%s: %w", v, err)
		}
		sol[string(v)] = t
	}
	return sol, nil
}
