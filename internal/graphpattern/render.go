package graphpattern

import (
	"regexp"
	"strings"

	"github.com/roach88/case2geojson/internal/term"
)

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

var localNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Render returns the SPARQL text of a Select.
// IRIs are compacted with the Select's prefixes; rdf:type in predicate
// position is written "a". Output is stable for equal inputs.
func Render(sel Select) string {
	r := &renderer{prefixes: sel.Prefixes}
	var b strings.Builder

	for _, p := range sel.Prefixes {
		b.WriteString("PREFIX ")
		b.WriteString(p.Name)
		b.WriteString(": <")
		b.WriteString(p.IRI)
		b.WriteString(">\n")
	}

	b.WriteString("SELECT")
	for _, v := range sel.Vars {
		b.WriteString(" ?")
		b.WriteString(string(v))
	}
	b.WriteString("\nWHERE {\n")
	r.group(&b, sel.Where, 1)
	b.WriteString("}\n")
	return b.String()
}

type renderer struct {
	prefixes []Prefix
}

func (r *renderer) group(b *strings.Builder, g Group, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, t := range g.Triples {
		b.WriteString(indent)
		b.WriteString(r.term(t.Subject, false))
		b.WriteByte(' ')
		b.WriteString(r.term(t.Predicate, true))
		b.WriteByte(' ')
		b.WriteString(r.term(t.Object, false))
		b.WriteString(" .\n")
	}
	for _, opt := range g.Optionals {
		b.WriteString(indent)
		b.WriteString("OPTIONAL {\n")
		r.group(b, opt, depth+1)
		b.WriteString(indent)
		b.WriteString("}\n")
	}
}

func (r *renderer) term(pt PatternTerm, predicate bool) string {
	switch t := pt.(type) {
	case Var:
		return "?" + string(t)
	case IRI:
		if predicate && string(t) == rdfType {
			return "a"
		}
		return r.iri(string(t))
	case Literal:
		lit := term.Literal(t)
		quoted := term.NewLiteral(lit.Lexical, "", "").String()
		switch {
		case lit.Language != "":
			return quoted + "@" + lit.Language
		case lit.Datatype == "" || lit.Datatype == term.XSDString:
			return quoted
		default:
			return quoted + "^^" + r.iri(lit.Datatype)
		}
	default:
		return "[]"
	}
}

// iri compacts to prefix:local when a prefix matches and the remainder is
// a plain local name, else writes <iri>.
func (r *renderer) iri(iri string) string {
	for _, p := range r.prefixes {
		local, ok := strings.CutPrefix(iri, p.IRI)
		if ok && localNamePattern.MatchString(local) {
			return p.Name + ":" + local
		}
	}
	return "<" + iri + ">"
}
