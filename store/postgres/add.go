package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/quay/zlog"

	"github.com/rdfkit/rdfkit"
	"github.com/rdfkit/rdfkit/pkg/microbatch"
	"github.com/rdfkit/rdfkit/store"
)

var (
	addCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rdfkit",
			Subsystem: "store_postgres",
			Name:      "add_total",
			Help:      "Total number of statements written by the Add methods.",
		},
		[]string{"query"},
	)
	addDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rdfkit",
			Subsystem: "store_postgres",
			Name:      "add_duration_seconds",
			Help:      "The duration of all queries issued in the Add methods",
		},
		[]string{"query"},
	)
)

// addBatchSize limits how many inserts are queued before a batch is
// flushed.
const addBatchSize = 500

// partitionFor reports the single partition a concrete statement is stored
// in: statements in a quoted graph go to the quoted partition, rdf:type
// statements to the type partition, literal-object statements to the
// literal partition, and everything else to the asserted partition.
func partitionFor(t rdfkit.Triple, g rdfkit.Graph) store.Partition {
	switch {
	case g.Quoted:
		return store.PartitionQuoted
	case isTypePredicate(t.Predicate):
		return store.PartitionType
	case t.Object.TermKind() == rdfkit.KindLiteral:
		return store.PartitionLiteral
	}
	return store.PartitionAsserted
}

// insertStatement renders the insert for one statement: the target table's
// SQL and its bound arguments.
func (s *Store) insertStatement(t rdfkit.Triple, g rdfkit.Graph) (string, []any, error) {
	comb, err := rdfkit.CombineTriple(t, g)
	if err != nil {
		return "", nil, err
	}
	p := partitionFor(t, g)
	tbl := s.tableName(p)
	switch p {
	case store.PartitionType:
		query := fmt.Sprintf(
			`INSERT INTO %s (member, klass, context, termcomb) VALUES ($1, $2, $3, $4);`, tbl)
		return query, []any{t.Subject.Lexical(), t.Object.Lexical(), g.Lexical(), int16(comb)}, nil
	case store.PartitionAsserted:
		query := fmt.Sprintf(
			`INSERT INTO %s (subject, predicate, object, context, termcomb) VALUES ($1, $2, $3, $4, $5);`, tbl)
		return query, []any{t.Subject.Lexical(), t.Predicate.Lexical(), t.Object.Lexical(), g.Lexical(), int16(comb)}, nil
	}
	// Literal and quoted partitions carry the full shape.
	var lang, dt *string
	if l, ok := t.Object.(rdfkit.Literal); ok {
		if l.Language != "" {
			lang = &l.Language
		}
		if l.Datatype != "" {
			v := string(l.Datatype)
			dt = &v
		}
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (subject, predicate, object, context, termcomb, objlanguage, objdatatype) VALUES ($1, $2, $3, $4, $5, $6, $7);`, tbl)
	return query, []any{t.Subject.Lexical(), t.Predicate.Lexical(), t.Object.Lexical(), g.Lexical(), int16(comb), lang, dt}, nil
}

// Add asserts t in graph g.
func (s *Store) Add(ctx context.Context, t rdfkit.Triple, g rdfkit.Graph) error {
	ctx = zlog.ContextWithValues(ctx, "component", "store/postgres/Store.Add")
	pool, err := s.conn()
	if err != nil {
		return err
	}
	query, args, err := s.insertStatement(t, g)
	if err != nil {
		return err
	}
	start := time.Now()
	if _, err := pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert statement: %w", err)
	}
	addCounter.WithLabelValues("add").Add(1)
	addDuration.WithLabelValues("add").Observe(time.Since(start).Seconds())
	return nil
}

// AddBatch asserts every triple in ts in graph g, batching inserts. It
// reports the number of statements written; on error the transaction is
// rolled back and nothing is written.
func (s *Store) AddBatch(ctx context.Context, ts []rdfkit.Triple, g rdfkit.Graph) (int, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "store/postgres/Store.AddBatch")
	pool, err := s.conn()
	if err != nil {
		return 0, err
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	start := time.Now()
	batch := microbatch.NewInsert(tx, addBatchSize, time.Minute)
	for _, t := range ts {
		query, args, err := s.insertStatement(t, g)
		if err != nil {
			return 0, err
		}
		if err := batch.Queue(ctx, query, args...); err != nil {
			return 0, err
		}
	}
	if err := batch.Done(ctx); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	addCounter.WithLabelValues("addbatch").Add(float64(len(ts)))
	addDuration.WithLabelValues("addbatch").Observe(time.Since(start).Seconds())
	zlog.Debug(ctx).Int("count", len(ts)).Msg("statements written")
	return len(ts), nil
}
