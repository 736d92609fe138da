package extract

import (
	"errors"
	"fmt"

	"github.com/roach88/case2geojson/internal/term"
)

// ResolveError is a statement that cannot be turned into a quad.
type ResolveError struct {
	Index     int
	Statement term.Statement
	Position  string
	Term      term.Term
	Reason    string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("statement %d: %s %v: %s", e.Index, e.Position, e.Term, e.Reason)
}

// IsResolveError reports whether err wraps a *ResolveError.
func IsResolveError(err error) bool {
	var re *ResolveError
	return errors.As(err, &re)
}
