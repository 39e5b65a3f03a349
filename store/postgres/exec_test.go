package postgres

import (
	"regexp"
	"strings"
	"testing"
)

func TestRenderInline(t *testing.T) {
	got := renderInline("SELECT %s, %s, %s;", 5, nil, "joe")
	re := regexp.MustCompile(`^SELECT 5, NULL, (\$[a-z]{5}\$)joe(\$[a-z]{5}\$);$`)
	m := re.FindStringSubmatch(got)
	if m == nil {
		t.Fatalf("unexpected rendering: %q", got)
	}
	if m[1] != m[2] {
		t.Errorf("delimiters must pair: %q vs %q", m[1], m[2])
	}
}

func TestRenderInlineNULLToken(t *testing.T) {
	if got := renderInline("%s", "NULL"); got != "NULL" {
		t.Errorf("literal NULL token must pass through, got %q", got)
	}
}

func TestDollarQuoteAvoidsCollision(t *testing.T) {
	// A value laced with dollar-quote delimiters forces redraws until the
	// chosen tag is absent from the value.
	var v strings.Builder
	for _, tag := range []string{"aaaaa", "abcde", "zzzzz", "joeqx"} {
		v.WriteString("$" + tag + "$ ")
	}
	for i := 0; i < 64; i++ {
		q := dollarQuote(v.String())
		delim := q[:7]
		if !strings.HasPrefix(delim, "$") || !strings.HasSuffix(delim, "$") {
			t.Fatalf("malformed delimiter in %q", q)
		}
		inner := strings.TrimSuffix(strings.TrimPrefix(q, delim), delim)
		if strings.Contains(inner, delim) {
			t.Fatalf("delimiter %q occurs in quoted body", delim)
		}
		if inner != v.String() {
			t.Fatalf("value mangled: %q", inner)
		}
	}
}

func TestRandTag(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 128; i++ {
		tag := randTag(5)
		if len(tag) != 5 {
			t.Fatalf("tag length: %q", tag)
		}
		for _, r := range tag {
			if r < 'a' || r > 'z' {
				t.Fatalf("tag alphabet: %q", tag)
			}
		}
		seen[tag] = struct{}{}
	}
	if len(seen) < 2 {
		t.Error("tags are not randomized")
	}
}
