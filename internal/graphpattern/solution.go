package graphpattern

import "github.com/roach88/case2geojson/internal/term"

// Solution maps variable names to bound terms.
// An unbound variable is absent; a variable bound to an empty literal is
// present with an empty lexical form.
type Solution map[string]term.Term

// Get returns the term bound to name.
func (s Solution) Get(name string) (term.Term, bool) {
	t, ok := s[name]
	return t, ok
}

// Literal returns the literal bound to name. The second result is false if
// the variable is unbound or bound to an IRI or blank node.
func (s Solution) Literal(name string) (term.Literal, bool) {
	t, ok := s[name]
	if !ok {
		return term.Literal{}, false
	}
	lit, ok := t.(term.Literal)
	return lit, ok
}

// Lexical returns the lexical form of the literal bound to name.
func (s Solution) Lexical(name string) (string, bool) {
	lit, ok := s.Literal(name)
	return lit.Lexical, ok
}
