package postgres

import (
	"github.com/doug-martin/goqu/v8"
	// Register the postgres dialect.
	_ "github.com/doug-martin/goqu/v8/dialect/postgres"

	"github.com/rdfkit/rdfkit"
	"github.com/rdfkit/rdfkit/store"
)

var psql = goqu.Dialect("postgres")

// Table aliases used in pattern-match queries.
const (
	aliasAsserted = "asserted"
	aliasType     = "typetable"
	aliasLiteral  = "literal"
	aliasQuoted   = "quoted"
)

// partSelect is one partition's contribution to a UNION query.
type partSelect struct {
	table string
	alias string
	where goqu.Expression
	kind  store.Partition
}

// isTypePredicate reports whether the pattern's predicate is exactly
// rdf:type.
func isTypePredicate(pred any) bool {
	switch p := pred.(type) {
	case rdfkit.URIRef:
		return p == rdfkit.RDFType
	case rdfkit.Term:
		return p.TermKind() == rdfkit.KindURI && p.Lexical() == string(rdfkit.RDFType)
	}
	return false
}

// couldMatchType reports whether the predicate is a regex that could match
// rdf:type.
func couldMatchType(pred any) bool {
	r, ok := pred.(store.Regex)
	return ok && r.MatchString(string(rdfkit.RDFType))
}

// objectShape classifies the pattern's object for partition selection.
func objectShape(obj any) (isLiteral, isRegex, isWild bool) {
	switch obj.(type) {
	case nil:
		isWild = true
	case rdfkit.Literal:
		isLiteral = true
	case store.Regex:
		isRegex = true
	}
	return isLiteral, isRegex, isWild
}

// planTriples selects the partitions participating in a pattern match and
// builds their where clauses.
//
// The selection rules, which must not be simplified (overlap between the
// object-kind filters is intentional):
//
//  1. predicate exactly rdf:type: only the type partition.
//  2. predicate wildcard, or a regex that could match rdf:type: the literal
//     partition when the object is a literal, unset, or a regex; the
//     asserted partition when the object is non-literal, unset, or a regex;
//     the type partition always, appended last.
//  3. any other bound predicate: as rule 2 without the type partition.
//
// Whenever a context is explicitly given the quoted partition joins the
// match; formulae are only visible under an explicit context.
func (s *Store) planTriples(p store.Pattern, g *rdfkit.Graph) ([]partSelect, error) {
	var parts []partSelect
	include := func(kind store.Partition, alias string, typeTable bool) error {
		pat := p
		if typeTable {
			// The type table has no predicate column.
			pat.Predicate = nil
		}
		where, err := buildTripleClause(alias, pat, g, typeTable)
		if err != nil {
			return err
		}
		parts = append(parts, partSelect{
			table: s.tableName(kind),
			alias: alias,
			where: where,
			kind:  kind,
		})
		return nil
	}

	objLiteral, objRegex, objWild := objectShape(p.Object)
	wantLiteral := objWild || objLiteral || objRegex
	wantAsserted := objWild || !objLiteral || objRegex

	switch {
	case isTypePredicate(p.Predicate):
		if err := include(store.PartitionType, aliasType, true); err != nil {
			return nil, err
		}
	case p.Predicate == nil || couldMatchType(p.Predicate):
		if wantLiteral {
			if err := include(store.PartitionLiteral, aliasLiteral, false); err != nil {
				return nil, err
			}
		}
		if wantAsserted {
			if err := include(store.PartitionAsserted, aliasAsserted, false); err != nil {
				return nil, err
			}
		}
		if err := include(store.PartitionType, aliasType, true); err != nil {
			return nil, err
		}
	default:
		if wantLiteral {
			if err := include(store.PartitionLiteral, aliasLiteral, false); err != nil {
				return nil, err
			}
		}
		if wantAsserted {
			if err := include(store.PartitionAsserted, aliasAsserted, false); err != nil {
				return nil, err
			}
		}
	}

	if g != nil {
		if err := include(store.PartitionQuoted, aliasQuoted, false); err != nil {
			return nil, err
		}
	}
	return parts, nil
}

// unionSelect builds one UNION query over the participating partitions.
// With distinct false the union is UNION ALL. In SelectTriples mode every
// partition is projected to the universal seven-column shape (subject,
// predicate, object, context, termcomb, objlanguage, objdatatype) and the
// query always ends with ORDER BY subject, predicate, object: the result
// reconstructor's grouping is undefined without that total order, so the
// clause is a contract of this function, not an optimization.
func unionSelect(parts []partSelect, distinct bool, mode store.SelectMode) (string, []any, error) {
	sets := make([]*goqu.SelectDataset, len(parts))
	for i, p := range parts {
		var ds *goqu.SelectDataset
		switch mode {
		case store.SelectCount:
			// Count selects scan the bare table; clauses are qualified by
			// table name.
			ds = psql.From(goqu.T(p.table)).Select(goqu.COUNT(goqu.Star()))
		case store.SelectContexts:
			ds = psql.From(goqu.T(p.table).As(p.alias)).
				Select(goqu.T(p.alias).Col("context"))
		case store.SelectTriples:
			a := goqu.T(p.alias)
			from := psql.From(goqu.T(p.table).As(p.alias))
			switch {
			case p.kind.FullShape():
				ds = from.Select(
					a.Col("subject"), a.Col("predicate"), a.Col("object"),
					a.Col("context"), a.Col("termcomb"),
					a.Col("objlanguage"), a.Col("objdatatype"),
				)
			case p.kind == store.PartitionAsserted:
				ds = from.Select(
					a.Col("subject"), a.Col("predicate"), a.Col("object"),
					a.Col("context"), a.Col("termcomb"),
					goqu.L("NULL").As("objlanguage"), goqu.L("NULL").As("objdatatype"),
				)
			case p.kind == store.PartitionType:
				ds = from.Select(
					a.Col("member").As("subject"),
					goqu.L("?", string(rdfkit.RDFType)).As("predicate"),
					a.Col("klass").As("object"),
					a.Col("context"), a.Col("termcomb"),
					goqu.L("NULL").As("objlanguage"), goqu.L("NULL").As("objdatatype"),
				)
			}
		}
		if p.where != nil {
			ds = ds.Where(p.where)
		}
		sets[i] = ds
	}

	u := sets[0]
	for _, ds := range sets[1:] {
		if distinct {
			u = u.Union(ds)
		} else {
			u = u.UnionAll(ds)
		}
	}
	if mode == store.SelectTriples {
		u = u.Order(goqu.C("subject").Asc(), goqu.C("predicate").Asc(), goqu.C("object").Asc())
	}
	return u.Prepared(true).ToSQL()
}
