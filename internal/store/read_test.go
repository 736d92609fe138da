package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/case2geojson/internal/term"
)

func TestQuads_EmptyStore(t *testing.T) {
	s := createTestStore(t)

	quads, err := s.Quads(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, quads, "empty store returns an empty slice, not nil")
	assert.Empty(t, quads)
}

func TestQuads_InsertionOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Inserted in reverse lexical order; reads must follow insertion order.
	want := []term.Quad{
		quad("http://example.org/z", "http://example.org/p", "3"),
		quad("http://example.org/m", "http://example.org/p", "2"),
		quad("http://example.org/a", "http://example.org/p", "1"),
	}
	for _, q := range want {
		_, err := s.Insert(ctx, q)
		require.NoError(t, err)
	}

	got, err := s.Quads(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestQuads_PreservesLiteralShape(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	q := term.Quad{
		Subject:   term.IRI("http://example.org/kb/latlong"),
		Predicate: term.IRI("https://ontology.unifiedcyberontology.org/uco/location/latitude"),
		Object:    term.NewLiteral("48.860346", "http://www.w3.org/2001/XMLSchema#decimal", ""),
	}
	_, err := s.Insert(ctx, q)
	require.NoError(t, err)

	got, err := s.Quads(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, q, got[0])
}

func TestContains(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	q := quad("http://example.org/a", "http://example.org/p", "x")

	ok, err := s.Contains(ctx, q)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Insert(ctx, q)
	require.NoError(t, err)

	ok, err = s.Contains(ctx, q)
	require.NoError(t, err)
	assert.True(t, ok)
}
