// Package store persists tracked series, artists and albums in SQLite.
//
// The Store owns the database file: schema creation, embedded migrations
// (the id_source backfill and the unique title index), per-record upserts,
// health checks and timestamped file backups with rotation. Every write runs
// inside an explicit transaction and every statement is parameterized, since
// titles routinely contain quotes.
//
// Treat this package as the single source of truth for persisted state; the
// reconcilers borrow records for one pass and write them back through it.
package store
