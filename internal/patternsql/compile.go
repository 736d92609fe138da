// Package patternsql compiles graph patterns to parameterized SQLite SQL
// over the quads table and evaluates them.
package patternsql

import (
	"fmt"
	"strings"

	"github.com/roach88/case2geojson/internal/graphpattern"
)

// Column suffixes. Each projected variable ?v becomes four result columns
// "v__kind", "v__value", "v__datatype", "v__lang"; all four are NULL when
// ?v is unbound.
const (
	suffixKind     = "__kind"
	suffixValue    = "__value"
	suffixDatatype = "__datatype"
	suffixLang     = "__lang"
)

// binding holds the SQL expressions that produce a variable's term columns.
type binding struct {
	kind, value, datatype, lang string
}

func (b binding) exprs() [4]string {
	return [4]string{b.kind, b.value, b.datatype, b.lang}
}

// fragment is a compiled group: a FROM clause, its WHERE conditions, the
// variables it binds, and the seq expressions that order its rows.
type fragment struct {
	from       strings.Builder
	fromParams []any

	where       []string
	whereParams []any

	vars     map[graphpattern.Var]binding
	varOrder []graphpattern.Var

	order []string
}

func newFragment() *fragment {
	return &fragment{vars: make(map[graphpattern.Var]binding)}
}

func (f *fragment) bind(v graphpattern.Var, b binding) {
	f.vars[v] = b
	f.varOrder = append(f.varOrder, v)
}

// SQLCompiler compiles graph pattern Selects to SQL.
//
// CRITICAL: every query ends in ORDER BY over the seq column of each
// matched quad, so solution order depends only on insertion order.
// CRITICAL: constants are always ? parameters, never interpolated.
type SQLCompiler struct {
	aliases int
}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a Select to parameterized SQL.
// Returns (sql, params, error). The Select must pass graphpattern.Validate.
//
// Required triples become joined aliases of the quads table; each OPTIONAL
// becomes a LEFT JOIN of a compiled subquery on the variables it shares
// with its parent's required triples.
func (c *SQLCompiler) Compile(sel graphpattern.Select) (string, []any, error) {
	if err := graphpattern.Validate(sel).Err(); err != nil {
		return "", nil, err
	}
	c.aliases = 0

	f, err := c.compileGroup(sel.Where)
	if err != nil {
		return "", nil, err
	}

	cols := make([]string, 0, len(sel.Vars)*4)
	for _, v := range sel.Vars {
		b, ok := f.vars[v]
		if !ok {
			return "", nil, fmt.Errorf("projected variable ?%s is never bound", v)
		}
		cols = append(cols, columnList(b, string(v))...)
	}

	var sql strings.Builder
	sql.WriteString("SELECT ")
	sql.WriteString(strings.Join(cols, ", "))
	sql.WriteString(" FROM ")
	sql.WriteString(f.from.String())
	params := append([]any{}, f.fromParams...)
	if len(f.where) > 0 {
		sql.WriteString(" WHERE ")
		sql.WriteString(strings.Join(f.where, " AND "))
		params = append(params, f.whereParams...)
	}

	// MANDATORY: ORDER BY on every query
	sql.WriteString(" ORDER BY ")
	order := make([]string, len(f.order))
	for i, o := range f.order {
		order[i] = o + " ASC"
	}
	sql.WriteString(strings.Join(order, ", "))

	return sql.String(), params, nil
}

// compileGroup compiles the required triples, then left-joins each optional.
func (c *SQLCompiler) compileGroup(g graphpattern.Group) (*fragment, error) {
	f := newFragment()

	for i, t := range g.Triples {
		c.aliases++
		alias := fmt.Sprintf("q%d", c.aliases)
		if i > 0 {
			f.from.WriteString(" JOIN ")
		}
		f.from.WriteString("quads ")
		f.from.WriteString(alias)
		f.order = append(f.order, alias+".seq")

		if err := c.compileTriple(f, t, alias); err != nil {
			return nil, err
		}
	}

	required := make(map[graphpattern.Var]binding, len(f.vars))
	for v, b := range f.vars {
		required[v] = b
	}

	for _, opt := range g.Optionals {
		if err := c.compileOptional(f, opt, required); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// compileOptional appends "LEFT JOIN (subquery) oN ON ..." to f.
func (c *SQLCompiler) compileOptional(f *fragment, opt graphpattern.Group, required map[graphpattern.Var]binding) error {
	sub, err := c.compileGroup(opt)
	if err != nil {
		return err
	}
	c.aliases++
	alias := fmt.Sprintf("o%d", c.aliases)

	var cols []string
	for _, v := range sub.varOrder {
		cols = append(cols, columnList(sub.vars[v], string(v))...)
	}
	for i, o := range sub.order {
		cols = append(cols, fmt.Sprintf("%s AS \"_o%d\"", o, i+1))
	}

	f.from.WriteString(" LEFT JOIN (SELECT ")
	f.from.WriteString(strings.Join(cols, ", "))
	f.from.WriteString(" FROM ")
	f.from.WriteString(sub.from.String())
	f.fromParams = append(f.fromParams, sub.fromParams...)
	if len(sub.where) > 0 {
		f.from.WriteString(" WHERE ")
		f.from.WriteString(strings.Join(sub.where, " AND "))
		f.fromParams = append(f.fromParams, sub.whereParams...)
	}
	f.from.WriteString(") ")
	f.from.WriteString(alias)

	var on []string
	for _, v := range sub.varOrder {
		outer := binding{
			kind:     columnRef(alias, string(v), suffixKind),
			value:    columnRef(alias, string(v), suffixValue),
			datatype: columnRef(alias, string(v), suffixDatatype),
			lang:     columnRef(alias, string(v), suffixLang),
		}
		if parent, ok := required[v]; ok {
			on = append(on, equalities(parent, outer)...)
			continue
		}
		f.bind(v, outer)
	}
	if len(on) == 0 {
		on = []string{"1 = 1"}
	}
	f.from.WriteString(" ON ")
	f.from.WriteString(strings.Join(on, " AND "))

	for i := range sub.order {
		f.order = append(f.order, fmt.Sprintf("%s.\"_o%d\"", alias, i+1))
	}
	return nil
}

// compileTriple adds the conditions and bindings for one triple pattern.
// CRITICAL: constants are parameterized.
func (c *SQLCompiler) compileTriple(f *fragment, t graphpattern.Triple, alias string) error {
	positions := []struct {
		pt graphpattern.PatternTerm
		b  binding
	}{
		{t.Subject, iriColumn(alias + ".subject")},
		{t.Predicate, iriColumn(alias + ".predicate")},
		{t.Object, binding{
			kind:     alias + ".object_kind",
			value:    alias + ".object_value",
			datatype: alias + ".object_datatype",
			lang:     alias + ".object_language",
		}},
	}

	for i, pos := range positions {
		switch pt := pos.pt.(type) {
		case graphpattern.Var:
			if prev, ok := f.vars[pt]; ok {
				f.where = append(f.where, equalities(prev, pos.b)...)
			} else {
				f.bind(pt, pos.b)
			}
		case graphpattern.IRI:
			if i == 2 {
				f.where = append(f.where, pos.b.kind+" = ?")
				f.whereParams = append(f.whereParams, "iri")
			}
			f.where = append(f.where, pos.b.value+" = ?")
			f.whereParams = append(f.whereParams, string(pt))
		case graphpattern.Literal:
			if i != 2 {
				return fmt.Errorf("literal in %s position", []string{"subject", "predicate"}[i])
			}
			f.where = append(f.where,
				pos.b.kind+" = ?",
				pos.b.value+" = ?",
				pos.b.datatype+" = ?",
				pos.b.lang+" = ?",
			)
			f.whereParams = append(f.whereParams, "literal", pt.Lexical, pt.Datatype, pt.Language)
		default:
			return fmt.Errorf("unsupported pattern term: %T", pos.pt)
		}
	}
	return nil
}

// iriColumn binds a subject or predicate column; these only ever hold IRIs.
func iriColumn(col string) binding {
	return binding{kind: "'iri'", value: col, datatype: "''", lang: "''"}
}

// equalities returns the conditions that make two bindings the same term,
// skipping pairs that are syntactically identical.
func equalities(a, b binding) []string {
	ae, be := a.exprs(), b.exprs()
	var out []string
	for i := range ae {
		if ae[i] == be[i] {
			continue
		}
		out = append(out, ae[i]+" = "+be[i])
	}
	return out
}

func columnList(b binding, name string) []string {
	return []string{
		fmt.Sprintf("%s AS %s", b.kind, quoteIdent(name+suffixKind)),
		fmt.Sprintf("%s AS %s", b.value, quoteIdent(name+suffixValue)),
		fmt.Sprintf("%s AS %s", b.datatype, quoteIdent(name+suffixDatatype)),
		fmt.Sprintf("%s AS %s", b.lang, quoteIdent(name+suffixLang)),
	}
}

func columnRef(alias, name, suffix string) string {
	return alias + "." + quoteIdent(name+suffix)
}

// quoteIdent quotes a column name. Variable names are validated to
// [A-Za-z_][A-Za-z0-9_]* so they never contain a quote.
func quoteIdent(name string) string {
	return `"` + name + `"`
}
