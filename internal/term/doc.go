// Package term provides the RDF term, statement, and quad types shared by
// every stage of the conversion pipeline.
//
// This package contains type definitions only. All other internal packages
// import term; term imports nothing internal.
//
// Key design constraints:
//   - Term is sealed: only IRI, BlankNode, and Literal implement it
//   - Literal values are read through Lexical, never by parsing display text
//   - Quad subjects and predicates are absolute IRIs (see Quad.Validate)
//   - Quad identity is content-addressed (see QuadID)
package term
