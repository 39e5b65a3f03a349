package rdfkit

import "fmt"

// TermComb encodes the term kinds of one stored statement row: the subject,
// predicate, object, and context kinds packed into a single small integer,
// two bits per position with the subject in the most significant pair. It
// lets a store reconstruct typed terms from a row without a schema lookup.
type TermComb uint16

// CombineKinds packs four term kinds into a TermComb.
func CombineKinds(s, p, o, c TermKind) (TermComb, error) {
	for _, k := range [...]TermKind{s, p, o, c} {
		if k >= numTermKinds {
			return 0, fmt.Errorf("rdfkit: invalid term kind %v", k)
		}
	}
	return TermComb(s)<<6 | TermComb(p)<<4 | TermComb(o)<<2 | TermComb(c), nil
}

// CombineTriple packs the kinds of a triple asserted in graph g.
func CombineTriple(t Triple, g Graph) (TermComb, error) {
	return CombineKinds(t.Subject.TermKind(), t.Predicate.TermKind(), t.Object.TermKind(), g.TermKind())
}

// Kinds unpacks the four term kinds in storage order.
func (tc TermComb) Kinds() (s, p, o, c TermKind) {
	return TermKind(tc >> 6 & 3), TermKind(tc >> 4 & 3), TermKind(tc >> 2 & 3), TermKind(tc & 3)
}

// Valid reports whether the packed value round-trips through CombineKinds.
func (tc TermComb) Valid() bool {
	return tc <= 0xff
}
