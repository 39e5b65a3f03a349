package postgres

import (
	"fmt"

	"github.com/doug-martin/goqu/v8"
	"github.com/doug-martin/goqu/v8/exp"

	"github.com/rdfkit/rdfkit"
	"github.com/rdfkit/rdfkit/store"
)

// column returns a qualified column reference, or a bare one when qualifier
// is empty.
func column(qualifier, name string) exp.IdentifierExpression {
	if qualifier == "" {
		return goqu.C(name)
	}
	return goqu.T(qualifier).Col(name)
}

// buildGenericClause turns one pattern component into a boolean expression
// on the named column. A nil expression with a nil error means the
// component is a wildcard and constrains nothing. Parameters are bound
// natively; nothing is interpolated into the SQL text.
func buildGenericClause(qualifier, name string, value any) (goqu.Expression, error) {
	col := column(qualifier, name)
	switch v := value.(type) {
	case nil:
		return nil, nil
	case store.Regex:
		return goqu.L("? ~ ?", col, v.String()), nil
	case store.List:
		exprs := make([]goqu.Expression, 0, len(v))
		for _, alt := range v {
			if alt == nil {
				// A wildcard alternative makes the disjunction vacuous.
				return nil, nil
			}
			e, err := buildGenericClause(qualifier, name, alt)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, e)
		}
		if len(exprs) == 0 {
			return nil, nil
		}
		return goqu.Or(exprs...), nil
	case store.NullValue:
		return col.IsNull(), nil
	case rdfkit.Graph:
		// Graphs compare by their identifier.
		return col.Eq(v.Lexical()), nil
	case rdfkit.Term:
		return col.Eq(v.Lexical()), nil
	}
	return nil, fmt.Errorf("%w: %T", store.ErrUnsupportedTerm, value)
}

// buildTripleClause builds the full per-partition where expression for a
// triple pattern. For the type partition the pattern's subject constrains
// the member column and the object the klass column; the predicate is
// implicit. A nil expression means the partition scan is unconstrained.
func buildTripleClause(qualifier string, p store.Pattern, g *rdfkit.Graph, typeTable bool) (goqu.Expression, error) {
	var parts []goqu.Expression
	add := func(name string, v any) error {
		e, err := buildGenericClause(qualifier, name, v)
		if err != nil {
			return err
		}
		if e != nil {
			parts = append(parts, e)
		}
		return nil
	}

	var err error
	if typeTable {
		err = errorsFirst(
			add("member", p.Subject),
			add("klass", p.Object),
		)
	} else {
		err = errorsFirst(
			add("subject", p.Subject),
			add("predicate", p.Predicate),
			add("object", p.Object),
		)
	}
	if err != nil {
		return nil, err
	}
	if g != nil {
		if err := add("context", *g); err != nil {
			return nil, err
		}
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return goqu.And(parts...), nil
}

func errorsFirst(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
