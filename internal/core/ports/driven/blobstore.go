package driven

import "context"

// BlobStore is durable storage for uploaded files.
// Paths are slash separated and relative to the store root.
type BlobStore interface {
	// Write creates or replaces the file at path.
	Write(ctx context.Context, path string, data []byte) error

	// Read returns the file content.
	// Returns domain.ErrNotFound if the file does not exist.
	Read(ctx context.Context, path string) ([]byte, error)

	// Delete removes the file.
	// Returns domain.ErrNotFound if the file does not exist.
	Delete(ctx context.Context, path string) error

	// Exists reports whether a file is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the file names directly inside dir, sorted.
	// A missing directory yields an empty list.
	List(ctx context.Context, dir string) ([]string, error)
}
