package store

import "fmt"

// Partition names one of the four statement tables a partitioned store
// splits its triples across. A concrete triple lives in exactly one of
// {asserted, type, literal}; the quoted partition is an orthogonal overlay
// holding formula statements.
type Partition uint8

const (
	// PartitionAsserted holds non-rdf:type statements with non-literal
	// objects.
	PartitionAsserted Partition = iota
	// PartitionType holds rdf:type statements as (member, klass) rows.
	PartitionType
	// PartitionLiteral holds statements whose object is a literal.
	PartitionLiteral
	// PartitionQuoted holds statements inside quoted/formula graphs.
	PartitionQuoted
)

// Role returns the partition's table-name component, e.g. "asserted" in
// "<prefix>_asserted_statements".
func (p Partition) Role() string {
	switch p {
	case PartitionAsserted:
		return "asserted"
	case PartitionType:
		return "type"
	case PartitionLiteral:
		return "literal"
	case PartitionQuoted:
		return "quoted"
	}
	return fmt.Sprintf("invalid(%d)", uint8(p))
}

// String implements fmt.Stringer.
func (p Partition) String() string { return p.Role() }

// FullShape reports whether the partition's table natively carries the
// universal 7-column triple shape, needing no projection in UNION queries.
func (p Partition) FullShape() bool {
	return p == PartitionLiteral || p == PartitionQuoted
}

// SelectMode selects the projection of a partition UNION query.
type SelectMode uint8

const (
	// SelectTriples projects the universal 7-column triple shape, ordered
	// by (subject, predicate, object) so results can be regrouped.
	SelectTriples SelectMode = iota
	// SelectCount projects COUNT(*) per partition.
	SelectCount
	// SelectContexts projects the context column only.
	SelectContexts
)
