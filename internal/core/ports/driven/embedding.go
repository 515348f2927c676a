package driven

import "context"

// EmbeddingService turns text into vectors. It only computes embeddings;
// VectorStore persists and searches them.
type EmbeddingService interface {
	// Embed returns the vector for a single text, such as a question.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in input order. Callers
	// bound the batch size themselves.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector length. Stores that fix a schema size,
	// such as pgvector, are created with it.
	Dimensions() int

	ModelName() string

	// Ping checks credentials and reachability with the smallest request
	// the provider allows.
	Ping(ctx context.Context) error

	Close() error
}
