// Package migrations versions the shared tables of an rdfkit database.
//
// Per-store tables are named by an interned prefix and cannot be managed by
// static migration files; see the schema manager in the parent package.
// Everything shared between stores, currently only the store registry, is
// created here.
package migrations

import (
	"context"
	"database/sql"
	"embed"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/remind101/migrate"
)

// RegistryMigrationTable records which migrations have run.
const RegistryMigrationTable = "rdfkit_migrations"

//go:embed registry/*.sql
var fs embed.FS

func runFile(n string) func(*sql.Tx) error {
	b, err := fs.ReadFile(n)
	return func(tx *sql.Tx) error {
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(b)); err != nil {
			return err
		}
		return nil
	}
}

// RegistryMigrations creates and evolves the shared store registry.
var RegistryMigrations = []migrate.Migration{
	{
		ID: 1,
		Up: runFile("registry/01-init.sql"),
	},
}

// Registry runs the registry migrations over the given connection
// configuration.
func Registry(_ context.Context, cfg *pgx.ConnConfig) error {
	db := stdlib.OpenDB(*cfg)
	defer db.Close()
	migrator := migrate.NewPostgresMigrator(db)
	migrator.Table = RegistryMigrationTable
	return migrator.Exec(migrate.Up, RegistryMigrations...)
}
