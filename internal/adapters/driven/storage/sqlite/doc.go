// Package sqlite persists an index corpus and its manifest in a SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. One database file (corpus.db) sits next to
// the vector index blob inside each artifact directory and holds:
//
//   - chunks: the ordered chunk texts and sources, keyed by corpus position
//   - manifest: a single row describing the build
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files,
// and applied versions are recorded in schema_migrations.
//
// # Thread Safety
//
// All operations are thread-safe. Stores from NewStore write in WAL mode.
// OpenReadOnly serves a finished database as immutable, so reading it takes no
// locks and leaves no journal files behind.
package sqlite
