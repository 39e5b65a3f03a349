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
	removeCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rdfkit",
			Subsystem: "store_postgres",
			Name:      "remove_total",
			Help:      "Total number of database queries issued in the Remove method.",
		},
		[]string{"query"},
	)
	removeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rdfkit",
			Subsystem: "store_postgres",
			Name:      "remove_duration_seconds",
			Help:      "The duration of all queries issued in the Remove method",
		},
		[]string{"query"},
	)
)

// Remove deletes every statement matching p, optionally restricted to
// graph g. The partitions participating are the same ones a Triples call
// with the same arguments would scan; deletes run in one transaction.
func (s *Store) Remove(ctx context.Context, p store.Pattern, g *rdfkit.Graph) error {
	ctx = zlog.ContextWithValues(ctx, "component", "store/postgres/Store.Remove")
	pool, err := s.conn()
	if err != nil {
		return err
	}
	parts, err := s.planTriples(p, g)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	start := time.Now()
	for _, part := range parts {
		// Deletes cannot alias their target; rebuild the clause qualified
		// by the bare table name.
		pat := p
		typeTable := part.kind == store.PartitionType
		if typeTable {
			pat.Predicate = nil
		}
		where, err := buildTripleClause(part.table, pat, g, typeTable)
		if err != nil {
			return err
		}
		ds := psql.Delete(part.table)
		if where != nil {
			ds = ds.Where(where)
		}
		query, args, err := ds.Prepared(true).ToSQL()
		if err != nil {
			return fmt.Errorf("failed to build delete for %s: %w", part.table, err)
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("delete from %s failed: %w", part.table, err)
		}
		removeCounter.WithLabelValues(part.kind.Role()).Add(1)
		zlog.Debug(ctx).
			Str("partition", part.kind.Role()).
			Int64("rows", tag.RowsAffected()).
			Msg("statements removed")
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit deletes: %w", err)
	}
	removeDuration.WithLabelValues("remove").Observe(time.Since(start).Seconds())
	return nil
}
