package rdfkit

import "fmt"

// RDFType is the rdf:type predicate.
//
// Statements with this predicate are special-cased by partitioned stores:
// they model class membership and are kept apart from general assertions.
const RDFType URIRef = `http://www.w3.org/1999/02/22-rdf-syntax-ns#type`

// TermKind discriminates the lexical families an RDF term can belong to.
type TermKind uint8

// The four term kinds a partitioned store can persist.
const (
	KindURI TermKind = iota
	KindBNode
	KindLiteral
	KindFormula
	numTermKinds
)

// String implements fmt.Stringer.
func (k TermKind) String() string {
	switch k {
	case KindURI:
		return "uri"
	case KindBNode:
		return "bnode"
	case KindLiteral:
		return "literal"
	case KindFormula:
		return "formula"
	}
	return fmt.Sprintf("invalid(%d)", uint8(k))
}

// Term is an RDF term: the subject, predicate, or object of a statement, or
// the identifier of a graph.
//
// Implementations in this package are URIRef, BNode, Literal, and Graph.
type Term interface {
	// TermKind reports the lexical family of the term.
	TermKind() TermKind
	// Lexical returns the string form persisted and compared by stores.
	Lexical() string
}

// URIRef is an RDF URI reference.
type URIRef string

// TermKind implements Term.
func (URIRef) TermKind() TermKind { return KindURI }

// Lexical implements Term.
func (u URIRef) Lexical() string { return string(u) }

// BNode is a blank node label.
type BNode string

// TermKind implements Term.
func (BNode) TermKind() TermKind { return KindBNode }

// Lexical implements Term.
func (b BNode) Lexical() string { return string(b) }

// Literal is an RDF literal with an optional language tag or datatype URI.
// The two are mutually exclusive per the RDF data model, but this package
// does not enforce that.
type Literal struct {
	Value    string
	Language string
	Datatype URIRef
}

// TermKind implements Term.
func (Literal) TermKind() TermKind { return KindLiteral }

// Lexical implements Term.
func (l Literal) Lexical() string { return l.Value }

// Graph identifies a named graph, the context a statement is asserted in.
//
// A quoted Graph is a formula: its statements are data rather than asserted
// facts and are never reported as top-level contexts.
type Graph struct {
	Identifier Term
	Quoted     bool
}

// NewGraph returns a Graph named by id.
func NewGraph(id Term) Graph { return Graph{Identifier: id} }

// NewQuotedGraph returns a formula graph named by id.
func NewQuotedGraph(id Term) Graph { return Graph{Identifier: id, Quoted: true} }

// TermKind implements Term. A quoted graph reports KindFormula; otherwise
// the kind of the identifier is reported.
func (g Graph) TermKind() TermKind {
	if g.Quoted {
		return KindFormula
	}
	if g.Identifier == nil {
		return KindURI
	}
	return g.Identifier.TermKind()
}

// Lexical implements Term by dereferencing to the graph's identifier.
func (g Graph) Lexical() string {
	if g.Identifier == nil {
		return ""
	}
	return g.Identifier.Lexical()
}

// Triple is a single (subject, predicate, object) statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// Equal reports whether two triples have the same terms, compared by kind
// and lexical form.
func (t Triple) Equal(o Triple) bool {
	return termEqual(t.Subject, o.Subject) &&
		termEqual(t.Predicate, o.Predicate) &&
		termEqual(t.Object, o.Object)
}

func termEqual(a, b Term) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	case a.TermKind() != b.TermKind() || a.Lexical() != b.Lexical():
		return false
	}
	// Literals only collate equal when the language tag and datatype agree.
	if la, ok := a.(Literal); ok {
		lb, ok := b.(Literal)
		return ok && la.Language == lb.Language && la.Datatype == lb.Datatype
	}
	return true
}

// TermForKind reconstructs a Term from its persisted columns. The language
// and datatype arguments are only consulted for KindLiteral. A KindFormula
// term is returned as a quoted Graph with a blank-node identifier, the only
// identifier family formulae are written with.
func TermForKind(k TermKind, lexical, language, datatype string) (Term, error) {
	switch k {
	case KindURI:
		return URIRef(lexical), nil
	case KindBNode:
		return BNode(lexical), nil
	case KindLiteral:
		return Literal{Value: lexical, Language: language, Datatype: URIRef(datatype)}, nil
	case KindFormula:
		return NewQuotedGraph(BNode(lexical)), nil
	}
	return nil, fmt.Errorf("rdfkit: cannot build term of kind %v", k)
}
