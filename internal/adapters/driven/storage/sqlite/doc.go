// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DocumentStore: ingested document persistence
//   - FieldStore: field definitions and their extraction rules
//   - FieldValueStore: one extracted value per (document, field)
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Applied versions are recorded in schema_migrations and can be rolled back
// with MigrateDown.
//
// # Data Location
//
// By default, the database is stored at ~/.sercha-extract/data/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. Value upserts are single statements, so concurrent
// writers to the same (document, field) never create duplicates.
package sqlite
