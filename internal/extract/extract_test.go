package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/case2geojson/internal/store"
	"github.com/roach88/case2geojson/internal/term"
	"github.com/roach88/case2geojson/internal/vocab"
)

// recorder captures inserts and reports repeats as not new.
type recorder struct {
	quads []term.Quad
	seen  map[term.Quad]bool
	err   error
}

func (r *recorder) Insert(_ context.Context, q term.Quad) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	if r.seen == nil {
		r.seen = map[term.Quad]bool{}
	}
	r.quads = append(r.quads, q)
	if r.seen[q] {
		return false, nil
	}
	r.seen[q] = true
	return true, nil
}

func stmt(s term.Term, p term.Term, o term.Term) term.Statement {
	return term.Statement{Subject: s, Predicate: p, Object: o}
}

const loc = "http://example.org/kb/location-1"

func TestExtract_InsertsInOrder(t *testing.T) {
	rec := &recorder{}
	stmts := []term.Statement{
		stmt(term.IRI(loc), term.IRI(vocab.RDFType), term.IRI(vocab.ClassLocation)),
		stmt(term.IRI(loc), term.IRI(vocab.Locality), term.NewLiteral("Paris", "", "")),
	}

	stats, err := New(rec).Extract(context.Background(), stmts)
	require.NoError(t, err)
	assert.Equal(t, Stats{Statements: 2, Inserted: 2}, stats)
	require.Len(t, rec.quads, 2)
	assert.Equal(t, term.IRI(vocab.ClassLocation), rec.quads[0].Object)
	assert.Equal(t, term.NewLiteral("Paris", "", ""), rec.quads[1].Object)
}

func TestExtract_DuplicatesCounted(t *testing.T) {
	rec := &recorder{}
	s := stmt(term.IRI(loc), term.IRI(vocab.RDFType), term.IRI(vocab.ClassLocation))

	stats, err := New(rec).Extract(context.Background(), []term.Statement{s, s})
	require.NoError(t, err)
	assert.Equal(t, 2, len(rec.quads), "every statement is one insert call")
	assert.Equal(t, 1, stats.Inserted)
	assert.Equal(t, 1, stats.Duplicates)
}

func TestExtract_SkolemisesBlankNodes(t *testing.T) {
	rec := &recorder{}
	stmts := []term.Statement{
		stmt(term.NewBlankNode("_:b0"), term.IRI(vocab.HasFacet), term.NewBlankNode("_:b1")),
	}

	_, err := New(rec, WithSkolemBase("https://cases.example.org/x/doc.jsonld")).Extract(context.Background(), stmts)
	require.NoError(t, err)
	require.Len(t, rec.quads, 1)
	assert.Equal(t, term.IRI("https://cases.example.org/.well-known/genid/b0"), rec.quads[0].Subject)
	assert.Equal(t, term.IRI("https://cases.example.org/.well-known/genid/b1"), rec.quads[0].Object)
}

func TestExtract_DefaultSkolemBase(t *testing.T) {
	rec := &recorder{}
	stmts := []term.Statement{
		stmt(term.NewBlankNode("b7"), term.IRI(vocab.RDFType), term.IRI(vocab.ClassLocation)),
	}

	_, err := New(rec).Extract(context.Background(), stmts)
	require.NoError(t, err)
	assert.Equal(t, term.IRI("https://example.com/.well-known/genid/b7"), rec.quads[0].Subject)
}

func TestExtract_NamedGraphIgnored(t *testing.T) {
	rec := &recorder{}
	s := stmt(term.IRI(loc), term.IRI(vocab.RDFType), term.IRI(vocab.ClassLocation))
	s.Graph = "http://example.org/kb/graph-1"

	stats, err := New(rec).Extract(context.Background(), []term.Statement{s})
	require.NoError(t, err)
	assert.Empty(t, rec.quads)
	assert.Equal(t, Stats{Statements: 1, NamedGraph: 1}, stats)
}

func TestExtract_InvalidStatementFails(t *testing.T) {
	tests := []struct {
		name     string
		stmt     term.Statement
		position string
	}{
		{"relative subject", stmt(term.IRI("location-1"), term.IRI(vocab.RDFType), term.IRI(vocab.ClassLocation)), "subject"},
		{"literal subject", stmt(term.NewLiteral("x", "", ""), term.IRI(vocab.RDFType), term.IRI(vocab.ClassLocation)), "subject"},
		{"blank predicate", stmt(term.IRI(loc), term.NewBlankNode("p"), term.IRI(vocab.ClassLocation)), "predicate"},
		{"relative predicate", stmt(term.IRI(loc), term.IRI("type"), term.IRI(vocab.ClassLocation)), "predicate"},
		{"relative object", stmt(term.IRI(loc), term.IRI(vocab.HasFacet), term.IRI("facet")), "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			_, err := New(rec).Extract(context.Background(), []term.Statement{tt.stmt})
			require.Error(t, err)

			var re *ResolveError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.position, re.Position)
			assert.Equal(t, 0, re.Index)
			assert.True(t, IsResolveError(err))
			assert.Empty(t, rec.quads)
		})
	}
}

func TestExtract_SkipPolicy(t *testing.T) {
	rec := &recorder{}
	stmts := []term.Statement{
		stmt(term.IRI("relative"), term.IRI(vocab.RDFType), term.IRI(vocab.ClassLocation)),
		stmt(term.IRI(loc), term.IRI(vocab.RDFType), term.IRI(vocab.ClassLocation)),
	}

	stats, err := New(rec, WithPolicy(PolicySkip)).Extract(context.Background(), stmts)
	require.NoError(t, err)
	assert.Equal(t, Stats{Statements: 2, Inserted: 1, Skipped: 1}, stats)
}

func TestExtract_StoreError(t *testing.T) {
	boom := errors.New("disk full")
	rec := &recorder{err: boom}
	stmts := []term.Statement{
		stmt(term.IRI(loc), term.IRI(vocab.RDFType), term.IRI(vocab.ClassLocation)),
	}

	_, err := New(rec).Extract(context.Background(), stmts)
	require.ErrorIs(t, err, boom)
	assert.False(t, IsResolveError(err))
}

func TestExtract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&recorder{}).Extract(ctx, []term.Statement{
		stmt(term.IRI(loc), term.IRI(vocab.RDFType), term.IRI(vocab.ClassLocation)),
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestExtract_IntoStore(t *testing.T) {
	s, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	stmts := []term.Statement{
		stmt(term.IRI(loc), term.IRI(vocab.RDFType), term.IRI(vocab.ClassLocation)),
		stmt(term.IRI(loc), term.IRI(vocab.RDFType), term.IRI(vocab.ClassLocation)),
		stmt(term.IRI(loc), term.IRI(vocab.Locality), term.NewLiteral("Paris", "", "")),
	}
	stats, err := New(s).Extract(context.Background(), stmts)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 1, stats.Duplicates)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("skip")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, p)

	_, err = ParsePolicy("ignore")
	require.Error(t, err)
}
