// Package sqlstore implements the store interfaces on database/sql for
// PostgreSQL (pgx) and SQLite (modernc.org/sqlite).
//
// Queries are built with squirrel so the same code serves both dialects;
// only the placeholder format differs. The schema is managed by goose from
// migrations embedded per dialect.
package sqlstore
