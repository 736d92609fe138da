package graphpattern

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/roach88/case2geojson/internal/term"
)

var varNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationResult reports problems found in a Select.
//
// Errors make the pattern unusable: the SQL backend refuses to compile it.
// Warnings describe patterns that are legal but probably not what was meant.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Err returns the errors as a single error, or nil if the pattern is valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("invalid graph pattern: %s", strings.Join(r.Errors, "; "))
}

// Validate checks a Select against the rules of the pattern language:
//  1. At least one projected variable, each bound somewhere in Where
//  2. Variable names match [A-Za-z_][A-Za-z0-9_]*
//  3. Every group has at least one triple
//  4. Subjects are variables or absolute IRIs; predicates likewise;
//     objects may also be literals
//  5. A variable inside an OPTIONAL that also appears outside it is bound
//     by the required triples of the OPTIONAL's parent group
func Validate(sel Select) ValidationResult {
	v := &validator{
		errors:   []string{},
		warnings: []string{},
		counts:   make(map[Var]int),
	}
	v.validateSelect(sel)

	return ValidationResult{
		Valid:    len(v.errors) == 0,
		Errors:   v.errors,
		Warnings: v.warnings,
	}
}

type validator struct {
	errors   []string
	warnings []string

	// counts holds how many triple positions mention each variable across
	// the whole pattern.
	counts map[Var]int
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateSelect(sel Select) {
	countVars(sel.Where, v.counts)

	if len(sel.Vars) == 0 {
		v.addError("no projected variables")
	}
	seen := make(map[Var]bool)
	for _, name := range sel.Vars {
		v.checkVarName(name)
		if seen[name] {
			v.addWarning("variable ?%s projected more than once", name)
		}
		seen[name] = true
		if v.counts[name] == 0 {
			v.addError("projected variable ?%s is never bound", name)
		}
	}

	for _, p := range sel.Prefixes {
		if p.Name == "" || !term.IsAbsolute(p.IRI) {
			v.addError("prefix %q: namespace %q is not an absolute IRI", p.Name, p.IRI)
		}
	}

	v.validateGroup(sel.Where, "WHERE")
}

func (v *validator) validateGroup(g Group, path string) {
	if len(g.Triples) == 0 {
		v.addError("%s: group has no triple patterns", path)
	}
	for i, t := range g.Triples {
		v.validateTriple(t, fmt.Sprintf("%s triple %d", path, i))
	}

	required := make(map[Var]int)
	for _, t := range g.Triples {
		countTriple(t, required)
	}

	for i, opt := range g.Optionals {
		optPath := fmt.Sprintf("%s OPTIONAL %d", path, i)
		v.validateOptional(opt, required, optPath)
		v.validateGroup(opt, optPath)
	}
}

// validateOptional enforces rule 5 for one optional group.
func (v *validator) validateOptional(opt Group, required map[Var]int, path string) {
	inside := make(map[Var]int)
	countVars(opt, inside)

	fresh := 0
	for _, name := range slices.Sorted(maps.Keys(inside)) {
		n := inside[name]
		if required[name] > 0 {
			continue
		}
		fresh++
		if v.counts[name] > n {
			v.addError("%s: ?%s also appears outside the OPTIONAL but is not bound by the enclosing group's required triples", path, name)
		}
	}
	if fresh == 0 {
		v.addWarning("%s: binds no new variables", path)
	}
}

func (v *validator) validateTriple(t Triple, path string) {
	switch s := t.Subject.(type) {
	case Var:
		v.checkVarName(s)
	case IRI:
		v.checkIRI(s, path+" subject")
	case nil:
		v.addError("%s: missing subject", path)
	default:
		v.addError("%s: subject must be a variable or IRI, got %T", path, t.Subject)
	}

	switch p := t.Predicate.(type) {
	case Var:
		v.checkVarName(p)
	case IRI:
		v.checkIRI(p, path+" predicate")
	case nil:
		v.addError("%s: missing predicate", path)
	default:
		v.addError("%s: predicate must be a variable or IRI, got %T", path, t.Predicate)
	}

	switch o := t.Object.(type) {
	case Var:
		v.checkVarName(o)
	case IRI:
		v.checkIRI(o, path+" object")
	case Literal:
	case nil:
		v.addError("%s: missing object", path)
	default:
		v.addError("%s: unsupported object %T", path, t.Object)
	}
}

func (v *validator) checkVarName(name Var) {
	if !varNamePattern.MatchString(string(name)) {
		v.addError("invalid variable name %q", string(name))
	}
}

func (v *validator) checkIRI(iri IRI, path string) {
	if !term.IsAbsolute(string(iri)) {
		v.addError("%s: %q is not an absolute IRI", path, string(iri))
	}
}

// countVars adds every variable mention in g (including nested optionals).
func countVars(g Group, counts map[Var]int) {
	for _, t := range g.Triples {
		countTriple(t, counts)
	}
	for _, opt := range g.Optionals {
		countVars(opt, counts)
	}
}

func countTriple(t Triple, counts map[Var]int) {
	for _, pt := range []PatternTerm{t.Subject, t.Predicate, t.Object} {
		if name, ok := pt.(Var); ok {
			counts[name]++
		}
	}
}
