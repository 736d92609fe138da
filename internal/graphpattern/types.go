package graphpattern

import "github.com/roach88/case2geojson/internal/term"

// Node is any element of a graph pattern.
// Sealed: only Select, Group, and Triple implement it.
type Node interface {
	patternNode()
}

// PatternTerm is a position in a triple pattern.
// Sealed: only Var, IRI, and Literal implement it.
type PatternTerm interface {
	patternTerm()
}

// Var is a named variable, written ?name. Names match [A-Za-z_][A-Za-z0-9_]*.
type Var string

func (Var) patternTerm() {}

// IRI is a constant absolute IRI.
type IRI string

func (IRI) patternTerm() {}

// Literal is a constant literal. Use term.NewLiteral conventions: an untyped
// literal has datatype xsd:string.
type Literal term.Literal

func (Literal) patternTerm() {}

// Triple is one triple pattern.
//
// SPARQL MAPPING:
//
//	Triple{Var("l"), IRI(rdf:type), IRI(loc:Location)}
//
// becomes:
//
//	?l a loc:Location .
type Triple struct {
	Subject   PatternTerm
	Predicate PatternTerm
	Object    PatternTerm
}

func (Triple) patternNode() {}

// Group is a basic graph pattern with optional sub-groups.
//
// Semantics: the Triples are joined (every triple must match); each entry
// of Optionals is then left-joined in order. A solution of the group
// extends each solution of the Triples with every compatible solution of an
// optional group, or keeps it unextended when there is none.
type Group struct {
	Triples   []Triple
	Optionals []Group
}

func (Group) patternNode() {}

// Prefix binds a short name to a namespace IRI for rendering.
type Prefix struct {
	Name string
	IRI  string
}

// Select projects variables from the solutions of a group.
//
// Solutions keep duplicates (no DISTINCT) and come back in a deterministic
// order fixed by the store's insertion order.
type Select struct {
	Prefixes []Prefix
	Vars     []Var
	Where    Group
}

func (Select) patternNode() {}

// T builds a triple pattern.
func T(s, p, o PatternTerm) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// Optional builds an optional group from its triples and nested optionals.
func Optional(triples []Triple, nested ...Group) Group {
	return Group{Triples: triples, Optionals: nested}
}
