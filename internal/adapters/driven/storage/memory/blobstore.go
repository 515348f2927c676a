package memory

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore keeps files in memory keyed by cleaned path.
type BlobStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewBlobStore creates an empty in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{files: make(map[string][]byte)}
}

// Write stores a copy of data at p.
func (s *BlobStore) Write(_ context.Context, p string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path.Clean(p)] = append([]byte(nil), data...)
	return nil
}

// Read returns a copy of the file at p.
func (s *BlobStore) Read(_ context.Context, p string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[path.Clean(p)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Delete removes the file at p.
func (s *BlobStore) Delete(_ context.Context, p string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := path.Clean(p)
	if _, ok := s.files[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.files, key)
	return nil
}

// Exists reports whether a file is stored at p.
func (s *BlobStore) Exists(_ context.Context, p string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[path.Clean(p)]
	return ok, nil
}

// List returns the names of files directly inside dir.
func (s *BlobStore) List(_ context.Context, dir string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := path.Clean(dir) + "/"
	var names []string
	for key := range s.files {
		rest, ok := strings.CutPrefix(key, prefix)
		if ok && !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}
	sort.Strings(names)
	return names, nil
}
