// Package domain defines the core business entities for ragdesk.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentRecord: An uploaded PDF and its processing status
//   - VectorMetadata: The immutable tag attached to every embedded chunk
//   - UploadResult, QueryResult, DeletionResult: One result per pipeline
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
