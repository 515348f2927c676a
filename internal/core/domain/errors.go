package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or missing input.
	// Returned before any side effect has happened.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or backend type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrPartialFailure indicates a batch where some items failed.
	// Results carrying it also carry the per-item errors.
	ErrPartialFailure = errors.New("partial failure")

	// ErrExternalDependency indicates a store, index or model call failed.
	ErrExternalDependency = errors.New("external dependency failure")

	// ErrProcessingFailed indicates a post-upload step failed after files
	// were already persisted.
	ErrProcessingFailed = errors.New("processing failed")

	// ErrQueryFailed is the single error surfaced when answering fails.
	ErrQueryFailed = errors.New("query failed")

	// ErrUnscopedQuery indicates a vector index call without any filter.
	ErrUnscopedQuery = errors.New("vector index call requires a metadata filter")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index cannot be reached.
	// Deletion records it once and skips the remaining index calls.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
