package store

import (
	"regexp"
)

// Pattern is a triple pattern to match stored statements against.
//
// Each component may be:
//
//	nil          wildcard, matches anything
//	rdfkit.Term  matched by equality on the persisted lexical form
//	Regex        matched with the backend's native regular expressions
//	List         disjunction of any of the above
//	Null         matches SQL NULL (only meaningful for optional columns)
//
// Any other value is rejected by the clause builder with
// ErrUnsupportedTerm.
type Pattern struct {
	Subject   any
	Predicate any
	Object    any
}

// Regex is a pattern component matched with the backend's native regular
// expression operator. The expression is also compiled locally so planners
// can probe it (e.g. "could this match rdf:type?").
type Regex struct {
	expr *regexp.Regexp
}

// NewRegex compiles expr into a Regex pattern component.
func NewRegex(expr string) (Regex, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Regex{}, err
	}
	return Regex{expr: re}, nil
}

// MustRegex is like NewRegex but panics on a malformed expression. Intended
// for tests and package-level declarations.
func MustRegex(expr string) Regex {
	r, err := NewRegex(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// MatchString reports whether the expression matches s.
func (r Regex) MatchString(s string) bool {
	if r.expr == nil {
		return false
	}
	return r.expr.MatchString(s)
}

// String returns the source expression as handed to the backend.
func (r Regex) String() string {
	if r.expr == nil {
		return ""
	}
	return r.expr.String()
}

// List is a disjunction of pattern components; a column matches when any
// element matches.
type List []any

// NullValue matches SQL NULL. Use the Null sentinel.
type NullValue struct{}

// Null is the pattern component matching SQL NULL.
var Null NullValue
