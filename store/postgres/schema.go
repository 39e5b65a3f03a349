package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/quay/zlog"

	"github.com/rdfkit/rdfkit/store"
)

//go:embed ddl/*.sql
var ddl embed.FS

// tableRoles lists the managed tables in creation order, keyed by the role
// component of their names.
var tableRoles = [...]string{"asserted", "type", "quoted", "namespace_binds", "literal"}

// tableDDL reads the embedded CREATE TABLE statement for a role and renders
// the store's prefix into it.
func tableDDL(prefix, role string) (string, error) {
	name := role + "_statements"
	if role == "namespace_binds" {
		name = role
	}
	b, err := fs.ReadFile(ddl, "ddl/"+name+".sql")
	if err != nil {
		return "", fmt.Errorf("missing ddl for %s: %w", role, err)
	}
	return fmt.Sprintf(string(b), prefix), nil
}

// managedTables returns every table name owned by this store.
func (s *Store) managedTables() []string {
	out := make([]string, 0, len(tableRoles))
	for _, role := range tableRoles {
		if role == "namespace_binds" {
			out = append(out, s.bindsTable())
			continue
		}
		out = append(out, fmt.Sprintf("%s_%s_statements", s.interned, role))
	}
	return out
}

// indexSpec names one supported access path. These are the only indices the
// store maintains; no compound indices exist.
type indexSpec struct {
	// name and table are fmt patterns taking the interned prefix.
	name    string
	table   string
	columns []string
}

var indices = [...]indexSpec{
	{"%s_a_termcomb_index", "%s_asserted_statements", []string{"termcomb"}},
	{"%s_a_s_index", "%s_asserted_statements", []string{"subject"}},
	{"%s_a_p_index", "%s_asserted_statements", []string{"predicate"}},
	{"%s_a_o_index", "%s_asserted_statements", []string{"object"}},
	{"%s_a_c_index", "%s_asserted_statements", []string{"context"}},
	{"%s_t_termcomb_index", "%s_type_statements", []string{"termcomb"}},
	{"%s_member_index", "%s_type_statements", []string{"member"}},
	{"%s_klass_index", "%s_type_statements", []string{"klass"}},
	{"%s_c_index", "%s_type_statements", []string{"context"}},
	{"%s_l_termcomb_index", "%s_literal_statements", []string{"termcomb"}},
	{"%s_l_s_index", "%s_literal_statements", []string{"subject"}},
	{"%s_l_p_index", "%s_literal_statements", []string{"predicate"}},
	{"%s_l_c_index", "%s_literal_statements", []string{"context"}},
	{"%s_q_termcomb_index", "%s_quoted_statements", []string{"termcomb"}},
	{"%s_q_s_index", "%s_quoted_statements", []string{"subject"}},
	{"%s_q_p_index", "%s_quoted_statements", []string{"predicate"}},
	{"%s_q_o_index", "%s_quoted_statements", []string{"object"}},
	{"%s_q_c_index", "%s_quoted_statements", []string{"context"}},
	{"%s_uri_index", "%s_namespace_binds", []string{"uri"}},
}

// Exists reports whether every managed table is present in the backend's
// catalog.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	const query = `SELECT count(*) FROM pg_class WHERE relkind = 'r' AND relname = ANY($1::text[]);`
	pool, err := s.conn()
	if err != nil {
		return false, err
	}
	tables := s.managedTables()
	var n int
	if err := pool.QueryRow(ctx, query, tables).Scan(&n); err != nil {
		return false, fmt.Errorf("catalog query failed: %w", err)
	}
	return n == len(tables), nil
}

// Initialize creates the store's tables, comments, and indices when they do
// not exist. When the schema is already present every managed table is
// instead cleared in place, best-effort: a failing DELETE is logged and the
// remaining tables are still cleared.
func (s *Store) Initialize(ctx context.Context) error {
	ctx = zlog.ContextWithValues(ctx, "component", "store/postgres/Store.Initialize")
	pool, err := s.conn()
	if err != nil {
		return err
	}

	ok, err := s.Exists(ctx)
	if err != nil {
		return err
	}
	if ok {
		// Clearing runs outside a transaction: a failed statement must not
		// poison the remaining deletes.
		for _, tbl := range s.managedTables() {
			if _, err := pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s;`, tbl)); err != nil {
				zlog.Warn(ctx).Str("table", tbl).Err(err).Msg("unable to clear table")
				continue
			}
			zlog.Debug(ctx).Str("table", tbl).Msg("table cleared")
		}
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, role := range tableRoles {
		stmt, err := tableDDL(s.interned, role)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create %s table: %w", role, err)
		}
	}
	// COMMENT ON takes a string literal, not a parameter; render the
	// identifier inline with dollar quoting.
	for _, tbl := range s.managedTables() {
		stmt := renderInline(`COMMENT ON TABLE `+tbl+` IS %s;`, "identifier: "+s.identifier.Lexical())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to comment on %s: %w", tbl, err)
		}
	}
	for _, idx := range indices {
		stmt := fmt.Sprintf(`CREATE INDEX %s ON %s (%s);`,
			fmt.Sprintf(idx.name, s.interned),
			fmt.Sprintf(idx.table, s.interned),
			strings.Join(idx.columns, ", "))
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	zlog.Info(ctx).Str("prefix", s.interned).Msg("schema created")
	return nil
}

// Destroy drops every managed table and index, tolerating already-missing
// objects, and removes the store from the shared registry. Failures do not
// stop the teardown; they are logged and aggregated into the report.
func (s *Store) Destroy(ctx context.Context) (store.DropReport, error) {
	ctx = zlog.ContextWithValues(ctx, "component", "store/postgres/Store.Destroy")
	var report store.DropReport
	pool, err := s.conn()
	if err != nil {
		return report, err
	}

	var errs []error
	for _, tbl := range s.managedTables() {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE;`, tbl)); err != nil {
			zlog.Warn(ctx).Str("table", tbl).Err(err).Msg("unable to drop table")
			report.Failed++
			errs = append(errs, fmt.Errorf("drop %s: %w", tbl, err))
			continue
		}
		report.Dropped++
	}
	for _, idx := range indices {
		name := fmt.Sprintf(idx.name, s.interned)
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP INDEX IF EXISTS %s CASCADE;`, name)); err != nil {
			zlog.Warn(ctx).Str("index", name).Err(err).Msg("unable to drop index")
			report.Failed++
			errs = append(errs, fmt.Errorf("drop %s: %w", name, err))
			continue
		}
		report.Dropped++
	}
	if err := s.deregister(ctx); err != nil {
		zlog.Warn(ctx).Err(err).Msg("unable to deregister store")
		report.Failed++
		errs = append(errs, err)
	}
	report.Err = errors.Join(errs...)
	return report, nil
}
