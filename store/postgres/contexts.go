package postgres

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/quay/zlog"

	"github.com/rdfkit/rdfkit"
	"github.com/rdfkit/rdfkit/store"
)

var (
	contextsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rdfkit",
			Subsystem: "store_postgres",
			Name:      "contexts_total",
			Help:      "Total number of database queries issued in the Contexts method.",
		},
		[]string{"query"},
	)
	contextsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rdfkit",
			Subsystem: "store_postgres",
			Name:      "contexts_duration_seconds",
			Help:      "The duration of all queries issued in the Contexts method",
		},
		[]string{"query"},
	)
)

// Contexts yields the distinct contexts statements are asserted in,
// restricted to those asserting a match of p when p is non-nil.
//
// The quoted partition never participates: formulae are data, not valid
// top-level contexts.
func (s *Store) Contexts(ctx context.Context, p *store.Pattern) iter.Seq2[rdfkit.Graph, error] {
	return func(yield func(rdfkit.Graph, error) bool) {
		ctx := zlog.ContextWithValues(ctx, "component", "store/postgres/Store.Contexts")
		fail := func(err error) { yield(rdfkit.Graph{}, err) }

		pool, err := s.conn()
		if err != nil {
			fail(err)
			return
		}

		var parts []partSelect
		if p == nil {
			for _, kind := range []store.Partition{store.PartitionType, store.PartitionAsserted, store.PartitionLiteral} {
				parts = append(parts, partSelect{
					table: s.tableName(kind),
					alias: aliasFor(kind),
					kind:  kind,
				})
			}
		} else {
			// Same partition participation as a triple match, minus the
			// quoted partition, with no context restriction.
			parts, err = s.planTriples(*p, nil)
			if err != nil {
				fail(err)
				return
			}
		}
		if len(parts) == 0 {
			return
		}
		query, args, err := unionSelect(parts, true, store.SelectContexts)
		if err != nil {
			fail(fmt.Errorf("failed to build context query: %w", err))
			return
		}

		start := time.Now()
		rows, err := pool.Query(ctx, query, args...)
		if err != nil {
			fail(fmt.Errorf("context query failed: %w", err))
			return
		}
		defer rows.Close()
		contextsCounter.WithLabelValues("contexts").Add(1)
		contextsDuration.WithLabelValues("contexts").Observe(time.Since(start).Seconds())

		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				fail(fmt.Errorf("failed to scan context row: %w", err))
				return
			}
			if !yield(rdfkit.NewGraph(rdfkit.URIRef(id)), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			fail(fmt.Errorf("context query failed mid-stream: %w", err))
		}
	}
}

func aliasFor(p store.Partition) string {
	switch p {
	case store.PartitionType:
		return aliasType
	case store.PartitionLiteral:
		return aliasLiteral
	case store.PartitionQuoted:
		return aliasQuoted
	}
	return aliasAsserted
}
