package store

import (
	"testing"

	"github.com/rdfkit/rdfkit"
)

func TestRegexMatchesType(t *testing.T) {
	tt := []struct {
		expr string
		want bool
	}{
		{`.*type$`, true},
		{`http://www\.w3\.org/.*`, true},
		{`^urn:example:.*`, false},
	}
	for _, tc := range tt {
		r := MustRegex(tc.expr)
		if got := r.MatchString(string(rdfkit.RDFType)); got != tc.want {
			t.Errorf("%q: got %v, want %v", tc.expr, got, tc.want)
		}
	}
}

func TestRegexZeroValue(t *testing.T) {
	var r Regex
	if r.MatchString("anything") {
		t.Error("zero Regex must not match")
	}
	if r.String() != "" {
		t.Error("zero Regex must render empty")
	}
}

func TestNewRegexError(t *testing.T) {
	if _, err := NewRegex(`(`); err == nil {
		t.Error("expected compile error")
	}
}

func TestPartitionRoles(t *testing.T) {
	want := map[Partition]string{
		PartitionAsserted: "asserted",
		PartitionType:     "type",
		PartitionLiteral:  "literal",
		PartitionQuoted:   "quoted",
	}
	for p, role := range want {
		if p.Role() != role {
			t.Errorf("%d: got %q, want %q", p, p.Role(), role)
		}
	}
	if !PartitionLiteral.FullShape() || !PartitionQuoted.FullShape() {
		t.Error("literal and quoted partitions carry the full shape")
	}
	if PartitionAsserted.FullShape() || PartitionType.FullShape() {
		t.Error("asserted and type partitions need projection")
	}
}
