package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/quay/zlog"

	"github.com/rdfkit/rdfkit"
	"github.com/rdfkit/rdfkit/store"
)

var (
	lenCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rdfkit",
			Subsystem: "store_postgres",
			Name:      "len_total",
			Help:      "Total number of database queries issued in the Len method.",
		},
		[]string{"query"},
	)
	lenDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rdfkit",
			Subsystem: "store_postgres",
			Name:      "len_duration_seconds",
			Help:      "The duration of all queries issued in the Len method",
		},
		[]string{"query"},
	)
)

// Len counts stored statements, optionally restricted to context g.
//
// Without a context filter the type, asserted, and literal partitions are
// counted; a concrete triple lives in exactly one of them, so the sum is
// free of double counting. With a context filter the quoted partition joins
// the count, since formulae are visible under an explicit context. The
// per-partition counts are combined with UNION ALL: a distinct union would
// collapse partitions that happen to hold the same count.
func (s *Store) Len(ctx context.Context, g *rdfkit.Graph) (int64, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "store/postgres/Store.Len")
	pool, err := s.conn()
	if err != nil {
		return 0, err
	}

	partitions := []store.Partition{store.PartitionType, store.PartitionAsserted, store.PartitionLiteral}
	if g != nil {
		partitions = []store.Partition{store.PartitionType, store.PartitionQuoted, store.PartitionAsserted, store.PartitionLiteral}
	}

	parts := make([]partSelect, 0, len(partitions))
	for _, p := range partitions {
		tbl := s.tableName(p)
		var ctxVal any
		if g != nil {
			ctxVal = *g
		}
		where, err := buildGenericClause(tbl, "context", ctxVal)
		if err != nil {
			return 0, err
		}
		parts = append(parts, partSelect{table: tbl, alias: tbl, where: where, kind: p})
	}

	query, args, err := unionSelect(parts, false, store.SelectCount)
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	start := time.Now()
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	defer rows.Close()
	lenCounter.WithLabelValues("len").Add(1)

	var total int64
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("failed to scan count row: %w", err)
		}
		total += n
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("count query failed mid-stream: %w", err)
	}
	lenDuration.WithLabelValues("len").Observe(time.Since(start).Seconds())
	return total, nil
}
