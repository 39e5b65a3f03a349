package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rdfkit/rdfkit"
)

// ErrNoBinding is reported when a prefix or namespace lookup finds nothing.
var ErrNoBinding = errors.New("postgres: no such namespace binding")

// Bind records prefix as shorthand for uri, replacing any previous binding
// for the prefix.
func (s *Store) Bind(ctx context.Context, prefix string, uri rdfkit.URIRef) error {
	pool, err := s.conn()
	if err != nil {
		return err
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (prefix, uri) VALUES ($1, $2) ON CONFLICT (prefix) DO UPDATE SET uri = excluded.uri;`,
		s.bindsTable())
	if _, err := pool.Exec(ctx, query, prefix, string(uri)); err != nil {
		return fmt.Errorf("failed to bind namespace: %w", err)
	}
	return nil
}

// Namespace returns the namespace bound to prefix.
func (s *Store) Namespace(ctx context.Context, prefix string) (rdfkit.URIRef, error) {
	pool, err := s.conn()
	if err != nil {
		return "", err
	}
	query := fmt.Sprintf(`SELECT uri FROM %s WHERE prefix = $1;`, s.bindsTable())
	var uri string
	switch err := pool.QueryRow(ctx, query, prefix).Scan(&uri); {
	case errors.Is(err, pgx.ErrNoRows):
		return "", ErrNoBinding
	case err != nil:
		return "", fmt.Errorf("namespace lookup failed: %w", err)
	}
	return rdfkit.URIRef(uri), nil
}

// Prefix returns the prefix bound to uri.
func (s *Store) Prefix(ctx context.Context, uri rdfkit.URIRef) (string, error) {
	pool, err := s.conn()
	if err != nil {
		return "", err
	}
	query := fmt.Sprintf(`SELECT prefix FROM %s WHERE uri = $1;`, s.bindsTable())
	var prefix string
	switch err := pool.QueryRow(ctx, query, string(uri)).Scan(&prefix); {
	case errors.Is(err, pgx.ErrNoRows):
		return "", ErrNoBinding
	case err != nil:
		return "", fmt.Errorf("prefix lookup failed: %w", err)
	}
	return prefix, nil
}

// Namespaces returns every binding in the store.
func (s *Store) Namespaces(ctx context.Context) (map[string]rdfkit.URIRef, error) {
	pool, err := s.conn()
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT prefix, uri FROM %s;`, s.bindsTable())
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("namespace enumeration failed: %w", err)
	}
	defer rows.Close()
	out := make(map[string]rdfkit.URIRef)
	for rows.Next() {
		var prefix, uri string
		if err := rows.Scan(&prefix, &uri); err != nil {
			return nil, err
		}
		out[prefix] = rdfkit.URIRef(uri)
	}
	return out, rows.Err()
}
