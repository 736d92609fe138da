package location

import (
	"fmt"

	"github.com/roach88/case2geojson/internal/term"
)

// Row is one solution of the location query.
// Nil fields are unbound; a bound field may still hold an empty lexical form.
type Row struct {
	// Index is the position of the solution in query order.
	Index int

	// Location is the ?nLocation node, usually an IRI. Nil only for rows
	// built by hand.
	Location term.Term

	Latitude  *term.Literal
	Longitude *term.Literal

	AddressType *term.Literal
	Country     *term.Literal
	Locality    *term.Literal
	PostalCode  *term.Literal
	Region      *term.Literal
	Street      *term.Literal
}

// LocationID returns the location node as a string, or "" if unknown.
func (r Row) LocationID() string {
	if r.Location == nil {
		return ""
	}
	return r.Location.Value()
}

// Defect describes a solution variable that could not be used.
type Defect struct {
	Row      int       `json:"row"`
	Location term.Term `json:"-"`
	Variable string    `json:"variable"`
	Message  string    `json:"message"`
}

func (d Defect) Error() string {
	loc := "<unknown>"
	if d.Location != nil {
		loc = d.Location.String()
	}
	return fmt.Sprintf("row %d (%s): ?%s: %s", d.Row, loc, d.Variable, d.Message)
}
