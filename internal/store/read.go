package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/case2geojson/internal/term"
)

// Contains reports whether an equal quad is in the store.
func (s *Store) Contains(ctx context.Context, q term.Quad) (bool, error) {
	id, err := term.QuadID(q)
	if err != nil {
		return false, fmt.Errorf("contains: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM quads WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("contains: %w", err)
	}
	return true, nil
}

// Count returns the number of quads in the store.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quads`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count quads: %w", err)
	}
	return n, nil
}

// Quads returns every quad in insertion order.
// Returns an empty slice (not nil) for an empty store.
func (s *Store) Quads(ctx context.Context) ([]term.Quad, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject, predicate, object_kind, object_value, object_datatype, object_language
		FROM quads
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query quads: %w", err)
	}
	defer rows.Close()

	quads := []term.Quad{}
	for rows.Next() {
		var subject, predicate, kind, value, datatype, lang string
		if err := rows.Scan(&subject, &predicate, &kind, &value, &datatype, &lang); err != nil {
			return nil, fmt.Errorf("scan quad: %w", err)
		}
		obj, err := term.Decode(term.Kind(kind), value, datatype, lang)
		if err != nil {
			return nil, fmt.Errorf("decode quad object: %w", err)
		}
		quads = append(quads, term.Quad{
			Subject:   term.IRI(subject),
			Predicate: term.IRI(predicate),
			Object:    obj,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quads: %w", err)
	}
	return quads, nil
}
