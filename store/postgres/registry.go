package postgres

import (
	"context"
	"fmt"

	"github.com/quay/zlog"

	"github.com/rdfkit/rdfkit"
)

// The registry is the single shared table in an rdfkit database: it maps
// every interned prefix to the identifier that produced it, so that logical
// stores sharing one database keep their prefixes unique and discoverable.
// Its schema is versioned by the migrations package.

// register records this store in the shared registry. Registering the same
// identifier twice is a no-op; a prefix collision with a different
// identifier is an error.
func (s *Store) register(ctx context.Context) error {
	const query = `
INSERT INTO rdf_store_registry (interned_id, identifier)
	VALUES ($1, $2)
	ON CONFLICT (interned_id) DO NOTHING;
`
	const check = `SELECT identifier FROM rdf_store_registry WHERE interned_id = $1;`
	pool, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, query, s.interned, s.identifier.Lexical()); err != nil {
		return fmt.Errorf("failed to register store: %w", err)
	}
	var got string
	if err := pool.QueryRow(ctx, check, s.interned).Scan(&got); err != nil {
		return fmt.Errorf("failed to read back registration: %w", err)
	}
	if got != s.identifier.Lexical() {
		return &rdfkit.Error{
			Op:      `store/postgres/Store.register`,
			Kind:    rdfkit.ErrInvalid,
			Message: fmt.Sprintf("prefix %s already registered to %q", s.interned, got),
		}
	}
	return nil
}

// deregister removes this store from the shared registry. Missing rows and
// a missing registry table are both fine; destroy must stay idempotent.
func (s *Store) deregister(ctx context.Context) error {
	const query = `DELETE FROM rdf_store_registry WHERE interned_id = $1;`
	const exists = `SELECT EXISTS(SELECT 1 FROM pg_class WHERE relname = 'rdf_store_registry');`
	pool, err := s.conn()
	if err != nil {
		return err
	}
	var ok bool
	if err := pool.QueryRow(ctx, exists).Scan(&ok); err != nil {
		return fmt.Errorf("registry check failed: %w", err)
	}
	if !ok {
		zlog.Debug(ctx).Msg("no registry table, nothing to deregister")
		return nil
	}
	if _, err := pool.Exec(ctx, query, s.interned); err != nil {
		return fmt.Errorf("failed to deregister store: %w", err)
	}
	return nil
}
