/*
Package postgres implements the rdfkit store interface for a PostgreSQL
database.

Statements are split across four per-store tables (asserted, type, literal,
quoted) and pattern matches are answered with UNION queries normalized to a
universal seven-column triple shape. SQL for pattern matching is built with
goqu and executed with native parameter binding; only schema maintenance
statements, where binding is unavailable, are rendered inline.

SQL statements should be arranged in this package such that they're
constants in the closest scope possible to where they're used. Queries
should endeavor to do work database-side, as opposed to making queries to
construct further queries.
*/
package postgres
