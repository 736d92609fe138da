// Package expand turns a JSON-LD document into RDF statements.
//
// Expansion is offline: remote @context documents are never fetched, so a
// document that needs one fails with an expansion error.
package expand

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/piprate/json-gold/ld"

	"github.com/roach88/case2geojson/internal/term"
)

// DefaultBaseIRI resolves relative identifiers in the input document.
// It is fixed rather than derived from the input path so that output does
// not depend on where the file lives.
const DefaultBaseIRI = "https://example.com/sample.jsonld"

// MediaType is the input media type.
const MediaType = "application/ld+json"

const defaultGraph = "@default"

// ErrRemoteContext is returned by the document loader for every remote load.
var ErrRemoteContext = errors.New("remote documents are not loaded")

// InputError means the document is not well-formed JSON.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return "input: " + e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// ExpansionError means the document is JSON but not valid JSON-LD, or it
// references a context that cannot be loaded.
type ExpansionError struct {
	Err error
}

func (e *ExpansionError) Error() string { return "expansion: " + e.Err.Error() }
func (e *ExpansionError) Unwrap() error { return e.Err }

// Options configures Expand.
type Options struct {
	// BaseIRI overrides DefaultBaseIRI when non-empty.
	BaseIRI string
}

func (o Options) base() string {
	if o.BaseIRI != "" {
		return o.BaseIRI
	}
	return DefaultBaseIRI
}

// offlineLoader refuses every document load.
type offlineLoader struct{}

func (offlineLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, fmt.Errorf("%s: %w", u, ErrRemoteContext))
}

// Parse reads a JSON document.
func Parse(r io.Reader) (any, error) {
	doc, err := ld.DocumentFromReader(r)
	if err != nil {
		return nil, &InputError{Err: err}
	}
	return doc, nil
}

// Expand converts a parsed document to statements.
//
// Statements come back default graph first, then named graphs sorted by
// name. Within a graph they are sorted by subject, predicate and object:
// the processor emits subjects in map order, and statement order becomes
// feature order downstream.
func Expand(ctx context.Context, doc any, opts Options) ([]term.Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	proc := ld.NewJsonLdProcessor()
	ldOpts := ld.NewJsonLdOptions(opts.base())
	ldOpts.DocumentLoader = offlineLoader{}

	out, err := proc.ToRDF(doc, ldOpts)
	if err != nil {
		return nil, &ExpansionError{Err: err}
	}
	dataset, ok := out.(*ld.RDFDataset)
	if !ok {
		return nil, &ExpansionError{Err: fmt.Errorf("unexpected ToRDF result %T", out)}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(dataset.Graphs))
	for name := range dataset.Graphs {
		if name != defaultGraph {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	names = append([]string{defaultGraph}, names...)

	var stmts []term.Statement
	for _, name := range names {
		graph := name
		if graph == defaultGraph {
			graph = ""
		}
		start := len(stmts)
		for _, q := range dataset.Graphs[name] {
			s, err := statement(q, graph)
			if err != nil {
				return nil, &ExpansionError{Err: err}
			}
			stmts = append(stmts, s)
		}
		slices.SortFunc(stmts[start:], compareStatements)
	}
	return stmts, nil
}

// compareStatements orders statements by their N-Quads rendering of
// subject, predicate and object. It is a total order on distinct triples.
func compareStatements(a, b term.Statement) int {
	return cmp.Or(
		strings.Compare(a.Subject.String(), b.Subject.String()),
		strings.Compare(a.Predicate.String(), b.Predicate.String()),
		strings.Compare(a.Object.String(), b.Object.String()),
	)
}

func statement(q *ld.Quad, graph string) (term.Statement, error) {
	s, err := convertNode(q.Subject)
	if err != nil {
		return term.Statement{}, fmt.Errorf("subject: %w", err)
	}
	p, err := convertNode(q.Predicate)
	if err != nil {
		return term.Statement{}, fmt.Errorf("predicate: %w", err)
	}
	o, err := convertNode(q.Object)
	if err != nil {
		return term.Statement{}, fmt.Errorf("object: %w", err)
	}
	return term.Statement{Subject: s, Predicate: p, Object: o, Graph: graph}, nil
}

func convertNode(n ld.Node) (term.Term, error) {
	switch v := n.(type) {
	case *ld.IRI:
		return term.IRI(v.Value), nil
	case *ld.BlankNode:
		return term.NewBlankNode(v.Attribute), nil
	case *ld.Literal:
		return term.NewLiteral(v.Value, v.Datatype, v.Language), nil
	case nil:
		return nil, errors.New("missing node")
	default:
		return nil, fmt.Errorf("unsupported node type %T", n)
	}
}
