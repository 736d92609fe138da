package store

import (
	"context"
	"fmt"

	"github.com/roach88/case2geojson/internal/term"
)

// Insert adds a quad to the store.
// Returns true if the quad was newly added, false if an equal quad was
// already present. Uses ON CONFLICT(id) DO NOTHING so duplicates are not
// errors; other constraint violations still are.
// A new quad's seq is one past the current maximum, assigned inside the
// INSERT so it is atomic with the write. Duplicates consume no seq.
//
// The quad must satisfy term.Quad.Validate.
func (s *Store) Insert(ctx context.Context, q term.Quad) (bool, error) {
	inserted, err := s.insert(ctx, q)
	if err != nil {
		return false, fmt.Errorf("insert quad: %w", err)
	}
	return inserted, nil
}

func (s *Store) insert(ctx context.Context, q term.Quad) (bool, error) {
	if err := q.Validate(); err != nil {
		return false, err
	}
	id, err := term.QuadID(q)
	if err != nil {
		return false, err
	}
	kind, value, datatype, lang := term.Columns(q.Object)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO quads
		(id, seq, subject, predicate, object_kind, object_value, object_datatype, object_language)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM quads), ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		q.Subject.Value(),
		q.Predicate.Value(),
		string(kind),
		value,
		datatype,
		lang,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
