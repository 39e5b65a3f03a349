package postgres

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Pattern-match queries bind their parameters natively through pgx; the
// inline renderer below exists for the statements where binding is not
// available, such as utility DDL (COMMENT ON cannot take a parameter).

// renderInline renders params into a printf-style statement. String
// parameters are wrapped in randomized dollar-quote delimiters; integers
// and the literal token NULL pass through unquoted.
func renderInline(format string, params ...any) string {
	rendered := make([]any, len(params))
	for i, p := range params {
		rendered[i] = inlineValue(p)
	}
	return fmt.Sprintf(format, rendered...)
}

func inlineValue(v any) string {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	case nil:
		return "NULL"
	case string:
		if x == "NULL" {
			return x
		}
		return dollarQuote(x)
	}
	return dollarQuote(fmt.Sprint(v))
}

// dollarQuote wraps v in a dollar-quote pair with a fresh random tag. A tag
// colliding with text inside v would terminate the quote early, so tags are
// redrawn until the delimiter does not occur in the value.
func dollarQuote(v string) string {
	for {
		delim := "$" + randTag(5) + "$"
		if !strings.Contains(v, delim) {
			return delim + v + delim
		}
	}
}

func randTag(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.IntN(len(letters))]
	}
	return string(b)
}
