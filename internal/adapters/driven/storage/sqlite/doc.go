// Package sqlite provides a SQLite-based implementation of the document and
// vector store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Both stores share one database:
//
//   - DocumentStore: document record persistence
//   - VectorStore: chunk embeddings tagged with organization and document
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Similarity
//
// Candidates are narrowed in SQL by organization and document, then ranked
// in process by cosine similarity.
//
// # Data Location
//
// By default, the database is stored at ~/.ragdesk/data/ragdesk.db
package sqlite
