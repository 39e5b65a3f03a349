package postgres

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rdfkit/rdfkit"
	"github.com/rdfkit/rdfkit/store"
)

func testStore() *Store {
	return New(rdfkit.URIRef("urn:example:store"), &Config{User: "rdf", DBName: "graphs"})
}

func kinds(parts []partSelect) []store.Partition {
	out := make([]store.Partition, len(parts))
	for i, p := range parts {
		out[i] = p.kind
	}
	return out
}

func TestPlanTypePredicate(t *testing.T) {
	s := testStore()
	parts, err := s.planTriples(store.Pattern{Predicate: rdfkit.RDFType}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := []store.Partition{store.PartitionType}; !cmp.Equal(kinds(parts), want) {
		t.Error(cmp.Diff(kinds(parts), want))
	}
}

func TestPlanWildcardPredicate(t *testing.T) {
	s := testStore()
	parts, err := s.planTriples(store.Pattern{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	// All three asserted partitions, type last.
	want := []store.Partition{store.PartitionLiteral, store.PartitionAsserted, store.PartitionType}
	if !cmp.Equal(kinds(parts), want) {
		t.Error(cmp.Diff(kinds(parts), want))
	}
}

func TestPlanRegexPredicate(t *testing.T) {
	s := testStore()

	// A regex that could match rdf:type brings in the type partition.
	parts, err := s.planTriples(store.Pattern{Predicate: store.MustRegex(`.*type$`)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []store.Partition{store.PartitionLiteral, store.PartitionAsserted, store.PartitionType}
	if !cmp.Equal(kinds(parts), want) {
		t.Error(cmp.Diff(kinds(parts), want))
	}

	// One that cannot does not.
	parts, err = s.planTriples(store.Pattern{Predicate: store.MustRegex(`^urn:example:.*`)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want = []store.Partition{store.PartitionLiteral, store.PartitionAsserted}
	if !cmp.Equal(kinds(parts), want) {
		t.Error(cmp.Diff(kinds(parts), want))
	}
}

func TestPlanObjectKind(t *testing.T) {
	s := testStore()
	pred := rdfkit.URIRef("urn:example:p")
	tt := []struct {
		name   string
		object any
		want   []store.Partition
	}{
		{"Literal", rdfkit.Literal{Value: "v"}, []store.Partition{store.PartitionLiteral}},
		{"URI", rdfkit.URIRef("urn:example:o"), []store.Partition{store.PartitionAsserted}},
		{"BNode", rdfkit.BNode("b0"), []store.Partition{store.PartitionAsserted}},
		{"Wildcard", nil, []store.Partition{store.PartitionLiteral, store.PartitionAsserted}},
		{"Regex", store.MustRegex(`v.*`), []store.Partition{store.PartitionLiteral, store.PartitionAsserted}},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			parts, err := s.planTriples(store.Pattern{Predicate: pred, Object: tc.object}, nil)
			if err != nil {
				t.Fatal(err)
			}
			if !cmp.Equal(kinds(parts), tc.want) {
				t.Error(cmp.Diff(kinds(parts), tc.want))
			}
		})
	}
}

func TestPlanQuotedRequiresContext(t *testing.T) {
	s := testStore()
	p := store.Pattern{Predicate: rdfkit.URIRef("urn:example:p")}

	parts, err := s.planTriples(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, part := range parts {
		if part.kind == store.PartitionQuoted {
			t.Error("quoted partition must not participate without a context")
		}
	}

	g := rdfkit.NewGraph(rdfkit.URIRef("urn:example:g"))
	parts, err = s.planTriples(p, &g)
	if err != nil {
		t.Fatal(err)
	}
	if last := parts[len(parts)-1].kind; last != store.PartitionQuoted {
		t.Errorf("quoted partition must join an explicit-context match, got %v", kinds(parts))
	}

	// Even a type-predicate match scans the quoted partition under an
	// explicit context.
	parts, err = s.planTriples(store.Pattern{Predicate: rdfkit.RDFType}, &g)
	if err != nil {
		t.Fatal(err)
	}
	want := []store.Partition{store.PartitionType, store.PartitionQuoted}
	if !cmp.Equal(kinds(parts), want) {
		t.Error(cmp.Diff(kinds(parts), want))
	}
}

func TestPlanUnsupportedTerm(t *testing.T) {
	s := testStore()
	if _, err := s.planTriples(store.Pattern{Subject: 42}, nil); err == nil {
		t.Error("expected error for unsupported subject")
	}
}

func TestUnionSelectOrderContract(t *testing.T) {
	s := testStore()
	parts, err := s.planTriples(store.Pattern{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	sql, _, err := unionSelect(parts, false, store.SelectTriples)
	if err != nil {
		t.Fatal(err)
	}
	// The reconstructor folds consecutive rows; without this total order
	// grouping is undefined. Dropping the clause must fail this test.
	const order = `ORDER BY "subject" ASC, "predicate" ASC, "object" ASC`
	if !strings.HasSuffix(strings.TrimSpace(sql), order) {
		t.Errorf("triple select must end with %q:\n%s", order, sql)
	}
	if !strings.Contains(sql, " UNION ALL ") {
		t.Errorf("triple select unions all partitions:\n%s", sql)
	}
}

func TestUnionSelectShapes(t *testing.T) {
	s := testStore()
	g := rdfkit.NewGraph(rdfkit.URIRef("urn:example:g"))
	parts, err := s.planTriples(store.Pattern{}, &g)
	if err != nil {
		t.Fatal(err)
	}
	sql, args, err := unionSelect(parts, false, store.SelectTriples)
	if err != nil {
		t.Fatal(err)
	}

	// Every partition participates.
	for _, part := range []string{"_literal_statements", "_asserted_statements", "_type_statements", "_quoted_statements"} {
		if !strings.Contains(sql, s.interned+part) {
			t.Errorf("missing partition %s:\n%s", part, sql)
		}
	}
	// The type partition is normalized to the universal shape.
	for _, want := range []string{`"member" AS "subject"`, `"klass" AS "object"`, `AS "predicate"`} {
		if !strings.Contains(sql, want) {
			t.Errorf("missing type projection %q:\n%s", want, sql)
		}
	}
	// The asserted partition pads the literal columns.
	if !strings.Contains(sql, `NULL AS "objlanguage"`) || !strings.Contains(sql, `NULL AS "objdatatype"`) {
		t.Errorf("missing NULL padding:\n%s", sql)
	}
	// The rdf:type constant and four context restrictions are bound, never
	// interpolated.
	wantArgs := 0
	for _, a := range args {
		switch a {
		case string(rdfkit.RDFType), "urn:example:g":
			wantArgs++
		}
	}
	if wantArgs != 5 {
		t.Errorf("expected rdf:type and 4 context parameters, got %v", args)
	}
}

func TestUnionSelectCount(t *testing.T) {
	s := testStore()
	parts := []partSelect{
		{table: s.tableName(store.PartitionType), alias: s.tableName(store.PartitionType), kind: store.PartitionType},
		{table: s.tableName(store.PartitionAsserted), alias: s.tableName(store.PartitionAsserted), kind: store.PartitionAsserted},
	}
	sql, _, err := unionSelect(parts, false, store.SelectCount)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(sql, `COUNT(*)`); got != 2 {
		t.Errorf("expected one COUNT per partition, got %d:\n%s", got, sql)
	}
	if strings.Contains(sql, "ORDER BY") {
		t.Errorf("count select must not order:\n%s", sql)
	}
}

func TestUnionSelectDistinctContexts(t *testing.T) {
	s := testStore()
	parts := []partSelect{
		{table: s.tableName(store.PartitionType), alias: aliasType, kind: store.PartitionType},
		{table: s.tableName(store.PartitionAsserted), alias: aliasAsserted, kind: store.PartitionAsserted},
	}
	sql, _, err := unionSelect(parts, true, store.SelectContexts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sql, " UNION ") || strings.Contains(sql, " UNION ALL ") {
		t.Errorf("context select deduplicates with a distinct union:\n%s", sql)
	}
	if !strings.Contains(sql, `"context"`) {
		t.Errorf("context select projects the context column:\n%s", sql)
	}
}
