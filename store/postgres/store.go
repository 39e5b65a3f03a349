package postgres

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/quay/zlog"

	"github.com/rdfkit/rdfkit"
	"github.com/rdfkit/rdfkit/store"
	"github.com/rdfkit/rdfkit/store/postgres/migrations"
)

// internedPrefix starts every managed table name. The interned form of the
// store identifier must be a valid unquoted SQL identifier, so the
// identifier itself is hashed.
const internedPrefix = "kb_"

// appName is the application_name reported to the backend.
const appName = "rdfkit"

// Store is a PostgreSQL-backed, formula-aware triple store. It persists
// statements in four partitions plus a namespace-binding table, all named
// by the interned form of the store identifier.
//
// A Store owns its connection pool between Open and Close. Operations are
// synchronous; a single handle must not be used concurrently without
// external serialization.
type Store struct {
	pool       *pgxpool.Pool
	cfg        *Config
	identifier rdfkit.Term
	interned   string
}

var (
	_ store.Store            = (*Store)(nil)
	_ store.NamespaceManager = (*Store)(nil)
)

// New returns a Store for the logical store named by identifier, configured
// by cfg. The store is unusable until Open succeeds.
func New(identifier rdfkit.Term, cfg *Config) *Store {
	return &Store{
		cfg:        cfg,
		identifier: identifier,
		interned:   internID(identifier),
	}
}

// internID derives the table-name prefix for an identifier. Multiple
// logical stores share one database; the prefix keeps their tables
// disjoint.
func internID(identifier rdfkit.Term) string {
	h := sha1.Sum([]byte(identifier.Lexical()))
	return internedPrefix + hex.EncodeToString(h[:])[:10]
}

// Identifier returns the term naming this logical store.
func (s *Store) Identifier() rdfkit.Term { return s.identifier }

// Open connects to the configured backend. If create is true the schema is
// initialized (created, or cleared when already present) and the store is
// recorded in the shared registry. Open reports store.ErrNoStore when the
// schema is absent afterwards.
func (s *Store) Open(ctx context.Context, create bool) error {
	ctx = zlog.ContextWithValues(ctx, "component", "store/postgres/Store.Open")
	pool, err := Connect(ctx, s.cfg.DSN(), appName)
	if err != nil {
		return err
	}
	s.pool = pool

	if create {
		if err := migrations.Registry(ctx, pool.Config().ConnConfig); err != nil {
			s.Close()
			return fmt.Errorf("registry migrations failed: %w", err)
		}
		if err := s.Initialize(ctx); err != nil {
			s.Close()
			return err
		}
		if err := s.register(ctx); err != nil {
			s.Close()
			return err
		}
	}

	ok, err := s.Exists(ctx)
	switch {
	case err != nil:
		// The connection was established but the existence check failed;
		// degrade to a no-store result.
		zlog.Warn(ctx).Err(err).Msg("existence check failed")
		fallthrough
	case !ok:
		s.Close()
		return store.ErrNoStore
	}
	return nil
}

// Close releases the connection pool. It is safe to call on a store that
// never opened.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
}

// errClosed is reported by operations on a store without an open pool.
var errClosed = errors.New("postgres: store is not open")

func (s *Store) conn() (*pgxpool.Pool, error) {
	if s.pool == nil {
		return nil, errClosed
	}
	return s.pool, nil
}

// tableName returns the backing table for a partition.
func (s *Store) tableName(p store.Partition) string {
	return fmt.Sprintf("%s_%s_statements", s.interned, p.Role())
}

// bindsTable returns the namespace-binding table name.
func (s *Store) bindsTable() string {
	return s.interned + "_namespace_binds"
}
