// Package store persists the Reprise catalog in SQLite.
//
// The database lives at config.DatabasePath and is opened through sqlx over
// the pure-Go modernc.org/sqlite driver with WAL journaling, foreign keys and
// a busy timeout. Schema changes ship as embedded golang-migrate files and are
// applied on Open.
//
// Store implements catalog.Repository. Every Update runs inside one
// IMMEDIATE transaction so the CLI and the daemon never interleave partial
// writes, and the whole callback is retried when SQLite reports the database
// as busy. Callbacks therefore must not keep side effects outside the Tx.
package store
