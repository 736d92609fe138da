package term

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Datatype IRIs assigned to literals that carry no explicit datatype.
const (
	XSDString     = "http://www.w3.org/2001/XMLSchema#string"
	RDFLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// Kind discriminates the three term variants.
type Kind string

const (
	KindIRI     Kind = "iri"
	KindBlank   Kind = "blank"
	KindLiteral Kind = "literal"
)

// Term is a sealed interface over RDF terms.
// Only IRI, BlankNode, and Literal implement it.
type Term interface {
	Kind() Kind

	// Value returns the IRI string, the blank node label, or the literal's
	// lexical form.
	Value() string

	// String renders the term in N-Triples syntax. For logs and diagnostics
	// only; never parse it back.
	String() string

	term() // Sealed
}

// IRI is an absolute resource identifier.
type IRI string

func (IRI) term()            {}
func (IRI) Kind() Kind       { return KindIRI }
func (i IRI) Value() string  { return string(i) }
func (i IRI) String() string { return "<" + string(i) + ">" }

// BlankNode is a document-local node label, without the "_:" prefix.
// Labels are stable only within one expansion run.
type BlankNode string

// NewBlankNode builds a BlankNode from a label with or without the "_:" prefix.
func NewBlankNode(label string) BlankNode {
	return BlankNode(strings.TrimPrefix(label, "_:"))
}

func (BlankNode) term()            {}
func (BlankNode) Kind() Kind       { return KindBlank }
func (b BlankNode) Value() string  { return string(b) }
func (b BlankNode) String() string { return "_:" + string(b) }

// Literal is a lexical value with a datatype and an optional language tag.
// Construct with NewLiteral so that the datatype and language are normalised;
// two literals are the same term exactly when their structs are equal.
type Literal struct {
	Lexical  string
	Datatype string
	Language string
}

// NewLiteral returns a Literal with defaults applied:
// a language-tagged literal always has datatype rdf:langString,
// an untyped literal gets xsd:string, and the language tag is canonicalised
// (BCP 47 casing). Tags that fail to parse are kept lower-cased.
func NewLiteral(lexical, datatype, lang string) Literal {
	if lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			lang = tag.String()
		} else {
			lang = strings.ToLower(lang)
		}
		datatype = RDFLangString
	} else if datatype == "" {
		datatype = XSDString
	}
	return Literal{Lexical: lexical, Datatype: datatype, Language: lang}
}

func (Literal) term()           {}
func (Literal) Kind() Kind      { return KindLiteral }
func (l Literal) Value() string { return l.Lexical }

func (l Literal) String() string {
	quoted := quoteLiteral(l.Lexical)
	switch {
	case l.Language != "":
		return quoted + "@" + l.Language
	case l.Datatype == "" || l.Datatype == XSDString:
		return quoted
	default:
		return quoted + "^^<" + l.Datatype + ">"
	}
}

// quoteLiteral escapes per the N-Triples STRING_LITERAL_QUOTE production.
func quoteLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Statement is one expander output: a triple plus the graph it belongs to.
// Graph is empty for the default graph.
type Statement struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     string
}

// InDefaultGraph reports whether the statement belongs to the default graph.
func (s Statement) InDefaultGraph() bool {
	return s.Graph == "" || s.Graph == "@default"
}

func (s Statement) String() string {
	out := fmt.Sprintf("%s %s %s", s.Subject, s.Predicate, s.Object)
	if !s.InDefaultGraph() {
		out += " <" + s.Graph + ">"
	}
	return out + " ."
}

// Quad is a triple in the default graph of the store.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func (q Quad) String() string {
	return fmt.Sprintf("%s %s %s .", q.Subject, q.Predicate, q.Object)
}
