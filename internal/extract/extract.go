// Package extract turns expander statements into store quads.
//
// Every default-graph statement becomes exactly one insert, in input order.
// Blank nodes are replaced by skolem IRIs under /.well-known/genid/ so that
// every stored subject is an absolute IRI.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/roach88/case2geojson/internal/term"
)

// Policy says what to do with a statement that cannot become a quad.
type Policy string

const (
	// PolicyFail stops extraction with a *ResolveError.
	PolicyFail Policy = "fail"

	// PolicySkip logs a warning, counts the statement, and continues.
	PolicySkip Policy = "skip"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyFail, PolicySkip:
		return p, nil
	default:
		return "", fmt.Errorf("unknown statement policy %q (want %q or %q)", s, PolicyFail, PolicySkip)
	}
}

// GenIDPath is the RFC 8089/RDF 1.1 skolem path prefix.
const GenIDPath = "/.well-known/genid/"

// Inserter is the part of the store the extractor writes to.
type Inserter interface {
	Insert(ctx context.Context, q term.Quad) (bool, error)
}

// Stats counts what happened to each statement.
type Stats struct {
	Statements int `json:"statements"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
	NamedGraph int `json:"named_graph"`
}

// Extractor converts statements and inserts them.
type Extractor struct {
	store      Inserter
	policy     Policy
	skolemBase string
	logger     *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPolicy sets the invalid statement policy. Default PolicyFail.
func WithPolicy(p Policy) Option {
	return func(e *Extractor) {
		e.policy = p
	}
}

// WithLogger sets the logger. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// WithSkolemBase derives skolem IRIs from base's scheme and authority.
func WithSkolemBase(base string) Option {
	return func(e *Extractor) {
		e.skolemBase = skolemPrefix(base)
	}
}

// New creates an Extractor writing to store.
func New(store Inserter, opts ...Option) *Extractor {
	e := &Extractor{
		store:      store,
		policy:     PolicyFail,
		skolemBase: skolemPrefix("https://example.com/"),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func skolemPrefix(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "https://example.com" + GenIDPath
	}
	return u.Scheme + "://" + u.Host + GenIDPath
}

// Extract consumes stmts once, in order. Statements outside the default
// graph are counted and ignored.
func (e *Extractor) Extract(ctx context.Context, stmts []term.Statement) (Stats, error) {
	var stats Stats
	for i, st := range stmts {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Statements++

		if !st.InDefaultGraph() {
			stats.NamedGraph++
			e.logger.Debug("ignoring named graph statement", "index", i, "graph", st.Graph)
			continue
		}

		q, err := e.resolve(i, st)
		if err != nil {
			if e.policy == PolicySkip {
				stats.Skipped++
				e.logger.Warn("skipping statement", "index", i, "error", err)
				continue
			}
			return stats, err
		}

		inserted, err := e.store.Insert(ctx, q)
		if err != nil {
			return stats, fmt.Errorf("statement %d: %w", i, err)
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Duplicates++
		}
	}
	return stats, nil
}

// resolve builds the quad for one statement.
func (e *Extractor) resolve(index int, st term.Statement) (term.Quad, error) {
	fail := func(position string, t term.Term, reason string) error {
		return &ResolveError{Index: index, Statement: st, Position: position, Term: t, Reason: reason}
	}

	subject, err := e.node(st.Subject)
	if err != nil {
		return term.Quad{}, fail("subject", st.Subject, err.Error())
	}

	pred, ok := st.Predicate.(term.IRI)
	if !ok {
		return term.Quad{}, fail("predicate", st.Predicate, "predicate must be an IRI")
	}
	if !term.IsAbsolute(string(pred)) {
		return term.Quad{}, fail("predicate", st.Predicate, "not an absolute IRI")
	}

	var object term.Term
	switch o := st.Object.(type) {
	case term.Literal:
		object = o
	default:
		object, err = e.node(st.Object)
		if err != nil {
			return term.Quad{}, fail("object", st.Object, err.Error())
		}
	}

	return term.Quad{Subject: subject, Predicate: pred, Object: object}, nil
}

// node resolves a subject or object node reference to an absolute IRI.
func (e *Extractor) node(t term.Term) (term.IRI, error) {
	switch v := t.(type) {
	case term.IRI:
		if !term.IsAbsolute(string(v)) {
			return "", fmt.Errorf("not an absolute IRI")
		}
		return v, nil
	case term.BlankNode:
		if v == "" {
			return "", fmt.Errorf("empty blank node label")
		}
		return term.IRI(e.skolemBase + url.PathEscape(string(v))), nil
	case nil:
		return "", fmt.Errorf("missing term")
	default:
		return "", fmt.Errorf("%s cannot name a node", t.Kind())
	}
}
