package postgres

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/quay/zlog"

	"github.com/rdfkit/rdfkit"
	"github.com/rdfkit/rdfkit/store"
)

var (
	triplesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rdfkit",
			Subsystem: "store_postgres",
			Name:      "triples_total",
			Help:      "Total number of database queries issued in the Triples method.",
		},
		[]string{"query"},
	)
	triplesDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rdfkit",
			Subsystem: "store_postgres",
			Name:      "triples_duration_seconds",
			Help:      "The duration of all queries issued in the Triples method",
		},
		[]string{"query"},
	)
)

// Triples yields every stored triple matching the pattern, coupled with the
// contexts asserting it. A triple asserted in N contexts is stored as N
// rows; the UNION query orders rows by (subject, predicate, object) and
// consecutive rows sharing that key are folded into one Match. The sequence
// is finite, single-pass, and not restartable.
func (s *Store) Triples(ctx context.Context, p store.Pattern, g *rdfkit.Graph) iter.Seq2[store.Match, error] {
	return func(yield func(store.Match, error) bool) {
		ctx := zlog.ContextWithValues(ctx, "component", "store/postgres/Store.Triples")
		fail := func(err error) { yield(store.Match{}, err) }

		pool, err := s.conn()
		if err != nil {
			fail(err)
			return
		}
		parts, err := s.planTriples(p, g)
		if err != nil {
			fail(err)
			return
		}
		if len(parts) == 0 {
			// Pathological pattern: nothing to scan, empty result.
			return
		}
		query, args, err := unionSelect(parts, false, store.SelectTriples)
		if err != nil {
			fail(fmt.Errorf("failed to build triple query: %w", err))
			return
		}

		start := time.Now()
		rows, err := pool.Query(ctx, query, args...)
		if err != nil {
			fail(fmt.Errorf("triple query failed: %w", err))
			return
		}
		defer rows.Close()
		triplesCounter.WithLabelValues("triples").Add(1)
		triplesDuration.WithLabelValues("triples").Observe(time.Since(start).Seconds())

		var cur store.Match
		have := false
		for rows.Next() {
			t, c, err := scanTripleRow(rows)
			if err != nil {
				fail(err)
				return
			}
			if have && cur.Triple.Equal(t) {
				cur.Contexts = append(cur.Contexts, c)
				continue
			}
			if have && !yield(cur, nil) {
				return
			}
			cur = store.Match{Triple: t, Contexts: []rdfkit.Graph{c}}
			have = true
		}
		if err := rows.Err(); err != nil {
			fail(fmt.Errorf("triple query failed mid-stream: %w", err))
			return
		}
		if have {
			yield(cur, nil)
		}
	}
}

// scanTripleRow decodes one row of the universal 7-column shape into a
// typed triple and its asserting context, using the row's term combination.
func scanTripleRow(rows pgx.Rows) (rdfkit.Triple, rdfkit.Graph, error) {
	var (
		subject, predicate, object, context string
		comb                                int16
		objLanguage, objDatatype            *string
	)
	err := rows.Scan(&subject, &predicate, &object, &context, &comb, &objLanguage, &objDatatype)
	if err != nil {
		return rdfkit.Triple{}, rdfkit.Graph{}, fmt.Errorf("failed to scan triple row: %w", err)
	}
	sKind, pKind, oKind, cKind := rdfkit.TermComb(comb).Kinds()

	var lang, dt string
	if objLanguage != nil {
		lang = *objLanguage
	}
	if objDatatype != nil {
		dt = *objDatatype
	}

	st, err := rdfkit.TermForKind(sKind, subject, "", "")
	if err != nil {
		return rdfkit.Triple{}, rdfkit.Graph{}, err
	}
	pt, err := rdfkit.TermForKind(pKind, predicate, "", "")
	if err != nil {
		return rdfkit.Triple{}, rdfkit.Graph{}, err
	}
	ot, err := rdfkit.TermForKind(oKind, object, lang, dt)
	if err != nil {
		return rdfkit.Triple{}, rdfkit.Graph{}, err
	}
	return rdfkit.Triple{Subject: st, Predicate: pt, Object: ot}, graphForKind(cKind, context), nil
}

// graphForKind rebuilds the asserting context from its stored kind.
func graphForKind(k rdfkit.TermKind, lexical string) rdfkit.Graph {
	switch k {
	case rdfkit.KindBNode:
		return rdfkit.NewGraph(rdfkit.BNode(lexical))
	case rdfkit.KindFormula:
		return rdfkit.NewQuotedGraph(rdfkit.BNode(lexical))
	}
	return rdfkit.NewGraph(rdfkit.URIRef(lexical))
}
