// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document record persistence (SQLite, MongoDB, memory)
//   - BlobStore: Durable storage for uploaded files
//   - Normaliser: Extracts page text from stored PDFs
//   - PostProcessor: Chunks page text and tags it with provenance
//   - VectorIndex: Text-level add, filtered search and filtered delete
//
// # Composed Interfaces
//
// VectorIndex is normally built from two lower level ports:
//
//   - EmbeddingService: Generates vector embeddings (OpenAI, Ollama)
//   - VectorStore: Stores raw vectors (SQLite, pgvector, Qdrant, memory)
//
// # Optional Interfaces
//
//   - LLMService: Answers questions. Without it, ingestion and deletion
//     still work but querying fails with ErrLLMUnavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
