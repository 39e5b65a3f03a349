package postgres

import (
	"errors"
	"strings"
	"testing"

	"github.com/doug-martin/goqu/v8"
	"github.com/google/go-cmp/cmp"

	"github.com/rdfkit/rdfkit"
	"github.com/rdfkit/rdfkit/store"
)

// render materializes a clause expression the way the planner does, so
// tests can inspect the SQL fragment and its bound parameters.
func render(t *testing.T, e goqu.Expression) (string, []any) {
	t.Helper()
	sql, args, err := psql.From(goqu.T("tbl")).Select(goqu.Star()).Where(e).Prepared(true).ToSQL()
	if err != nil {
		t.Fatal(err)
	}
	return sql, args
}

func TestClauseWildcard(t *testing.T) {
	e, err := buildGenericClause("asserted", "subject", nil)
	if err != nil {
		t.Fatal(err)
	}
	if e != nil {
		t.Errorf("wildcard must constrain nothing, got %v", e)
	}
}

func TestClauseScalar(t *testing.T) {
	e, err := buildGenericClause("asserted", "subject", rdfkit.URIRef("urn:example:s"))
	if err != nil {
		t.Fatal(err)
	}
	sql, args := render(t, e)
	if !strings.Contains(sql, `"asserted"."subject" = `) {
		t.Errorf("unexpected fragment: %s", sql)
	}
	if want := []any{"urn:example:s"}; !cmp.Equal(args, want) {
		t.Error(cmp.Diff(args, want))
	}
}

func TestClauseRegex(t *testing.T) {
	e, err := buildGenericClause("literal", "object", store.MustRegex(`^urn:example:.*`))
	if err != nil {
		t.Fatal(err)
	}
	sql, args := render(t, e)
	if !strings.Contains(sql, `"literal"."object" ~ `) {
		t.Errorf("expected native regex operator: %s", sql)
	}
	if want := []any{`^urn:example:.*`}; !cmp.Equal(args, want) {
		t.Error(cmp.Diff(args, want))
	}
}

func TestClauseList(t *testing.T) {
	e, err := buildGenericClause("asserted", "predicate", store.List{
		rdfkit.URIRef("urn:example:a"),
		rdfkit.URIRef("urn:example:b"),
	})
	if err != nil {
		t.Fatal(err)
	}
	sql, args := render(t, e)
	if !strings.Contains(sql, " OR ") {
		t.Errorf("expected disjunction: %s", sql)
	}
	if want := []any{"urn:example:a", "urn:example:b"}; !cmp.Equal(args, want) {
		t.Error(cmp.Diff(args, want))
	}
}

func TestClauseListMixed(t *testing.T) {
	e, err := buildGenericClause("asserted", "object", store.List{
		store.MustRegex(`b$`),
		rdfkit.BNode("b0"),
	})
	if err != nil {
		t.Fatal(err)
	}
	sql, args := render(t, e)
	if !strings.Contains(sql, " ~ ") || !strings.Contains(sql, " = ") {
		t.Errorf("expected mixed regex/equality disjunction: %s", sql)
	}
	if len(args) != 2 {
		t.Errorf("expected two parameters, got %v", args)
	}
}

func TestClauseNull(t *testing.T) {
	e, err := buildGenericClause("literal", "objlanguage", store.Null)
	if err != nil {
		t.Fatal(err)
	}
	sql, args := render(t, e)
	if !strings.Contains(sql, `"literal"."objlanguage" IS NULL`) {
		t.Errorf("unexpected fragment: %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("IS NULL binds nothing, got %v", args)
	}
}

func TestClauseGraph(t *testing.T) {
	g := rdfkit.NewQuotedGraph(rdfkit.BNode("f0"))
	e, err := buildGenericClause("quoted", "context", g)
	if err != nil {
		t.Fatal(err)
	}
	sql, args := render(t, e)
	if !strings.Contains(sql, `"quoted"."context" = `) {
		t.Errorf("unexpected fragment: %s", sql)
	}
	// Graphs dereference to their identifier.
	if want := []any{"f0"}; !cmp.Equal(args, want) {
		t.Error(cmp.Diff(args, want))
	}
}

func TestClauseUnsupported(t *testing.T) {
	_, err := buildGenericClause("asserted", "subject", 42)
	if !errors.Is(err, store.ErrUnsupportedTerm) {
		t.Errorf("expected ErrUnsupportedTerm, got %v", err)
	}
	_, err = buildGenericClause("asserted", "subject", store.List{rdfkit.URIRef("urn:a"), 42})
	if !errors.Is(err, store.ErrUnsupportedTerm) {
		t.Errorf("list element: expected ErrUnsupportedTerm, got %v", err)
	}
}

func TestTripleClauseTypeTable(t *testing.T) {
	p := store.Pattern{
		Subject: rdfkit.URIRef("urn:example:m"),
		Object:  rdfkit.URIRef("urn:example:Class"),
	}
	g := rdfkit.NewGraph(rdfkit.URIRef("urn:example:g"))
	e, err := buildTripleClause(aliasType, p, &g, true)
	if err != nil {
		t.Fatal(err)
	}
	sql, args := render(t, e)
	for _, want := range []string{`"typetable"."member"`, `"typetable"."klass"`, `"typetable"."context"`} {
		if !strings.Contains(sql, want) {
			t.Errorf("missing %s in: %s", want, sql)
		}
	}
	if want := []any{"urn:example:m", "urn:example:Class", "urn:example:g"}; !cmp.Equal(args, want) {
		t.Error(cmp.Diff(args, want))
	}
}
