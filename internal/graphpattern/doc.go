// Package graphpattern provides the graph pattern IR evaluated against the
// quad store.
//
// The IR is a small subset of SPARQL SELECT:
//
//	Select{Vars, Where}      SELECT ?a ?b WHERE { ... }
//	Group{Triples}           basic graph pattern (inner join)
//	Group{Optionals}         OPTIONAL { ... } (left join), nested to any depth
//	Triple{S, P, O}          ?s <p> ?o .
//
// Pattern terms are Var, IRI, and Literal. Node and PatternTerm are sealed
// interfaces using the marker method pattern, so backends can switch over
// every case exhaustively:
//
//	switch t := pt.(type) {
//	case Var:
//	case IRI:
//	case Literal:
//	}
//
// # Restrictions
//
// OPTIONAL groups join on the variables they share with the required
// triples of their immediate parent. A variable that appears inside an
// OPTIONAL and anywhere outside it must be bound by those required triples.
// Validate reports violations; the SQL backend relies on it.
//
// Validate and Render are pure functions.
package graphpattern
