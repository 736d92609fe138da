package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/case2geojson/internal/term"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// quad builds a quad with a plain string literal object.
func quad(subject, predicate, object string) term.Quad {
	return term.Quad{
		Subject:   term.IRI(subject),
		Predicate: term.IRI(predicate),
		Object:    term.NewLiteral(object, "", ""),
	}
}

// seqs returns every stored seq in ascending order.
func seqs(t *testing.T, s *Store) []int64 {
	t.Helper()
	rows, err := s.db.Query("SELECT seq FROM quads ORDER BY seq")
	require.NoError(t, err)
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var n int64
		require.NoError(t, rows.Scan(&n))
		out = append(out, n)
	}
	require.NoError(t, rows.Err())
	return out
}
