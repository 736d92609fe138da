package term

import (
	"fmt"
	"net/url"
)

// IsAbsolute reports whether s parses as an IRI with a scheme.
func IsAbsolute(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs()
}

// Validate checks the quad invariant: the subject and predicate are absolute
// IRIs and the object is present.
func (q Quad) Validate() error {
	if q.Subject == nil || q.Predicate == nil || q.Object == nil {
		return fmt.Errorf("quad has a missing position: %v", q)
	}
	subj, ok := q.Subject.(IRI)
	if !ok {
		return fmt.Errorf("subject %s is a %s, want an absolute IRI", q.Subject, q.Subject.Kind())
	}
	if !IsAbsolute(string(subj)) {
		return fmt.Errorf("subject %s is not an absolute IRI", subj)
	}
	pred, ok := q.Predicate.(IRI)
	if !ok {
		return fmt.Errorf("predicate %s is a %s, want an absolute IRI", q.Predicate, q.Predicate.Kind())
	}
	if !IsAbsolute(string(pred)) {
		return fmt.Errorf("predicate %s is not an absolute IRI", pred)
	}
	return nil
}

// Decode rebuilds a term from its stored columns.
// The inverse of reading Kind, Value, and (for literals) Datatype and Language.
func Decode(kind Kind, value, datatype, lang string) (Term, error) {
	switch kind {
	case KindIRI:
		return IRI(value), nil
	case KindBlank:
		return BlankNode(value), nil
	case KindLiteral:
		return Literal{Lexical: value, Datatype: datatype, Language: lang}, nil
	default:
		return nil, fmt.Errorf("unknown term kind %q", kind)
	}
}

// Columns splits a term into its stored columns.
// Datatype and language are empty for IRIs and blank nodes.
func Columns(t Term) (kind Kind, value, datatype, lang string) {
	switch v := t.(type) {
	case Literal:
		return KindLiteral, v.Lexical, v.Datatype, v.Language
	case *Literal:
		return KindLiteral, v.Lexical, v.Datatype, v.Language
	default:
		return t.Kind(), t.Value(), "", ""
	}
}
