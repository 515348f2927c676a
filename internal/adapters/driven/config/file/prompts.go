package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// DefaultPrompts are the built-in templates, keyed by prompt name.
var DefaultPrompts = map[string]string{
	driven.PromptAnswerSystem: "You are a helpful assistant.",
}

// promptFile is a cached template and the file state it was read from.
type promptFile struct {
	text    string
	modTime time.Time
	size    int64
}

// PromptStore serves prompt templates from <dir>/<name>.txt. A file is
// re-read whenever its modification time or size changes, so edits apply
// to the next question without a restart. Missing or blank files fall back
// to DefaultPrompts.
type PromptStore struct {
	dir string

	mu    sync.Mutex
	files map[string]promptFile
}

// NewPromptStore creates a prompt store rooted at dir.
// An empty dir means ~/.ragdesk/prompts.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{dir: dir, files: make(map[string]promptFile)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Path returns the file backing the named prompt.
func (s *PromptStore) Path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// Seed writes every default prompt that has no file yet, so users have
// something to edit. Existing files are left alone.
func (s *PromptStore) Seed() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	for name, text := range DefaultPrompts {
		path := s.Path(name)
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := os.WriteFile(path, []byte(text+"\n"), 0600); err != nil {
			return fmt.Errorf("write default prompt %q: %w", name, err)
		}
	}
	return nil
}

// Load returns the named template.
func (s *PromptStore) Load(name string) (string, error) {
	fallback, hasDefault := DefaultPrompts[name]

	info, err := os.Stat(s.Path(name))
	if err != nil {
		if hasDefault {
			return fallback, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cached, ok := s.files[name]
	if !ok || !cached.modTime.Equal(info.ModTime()) || cached.size != info.Size() {
		data, err := os.ReadFile(s.Path(name))
		if err != nil {
			if hasDefault {
				return fallback, nil
			}
			return "", fmt.Errorf("load prompt %q: %w", name, err)
		}
		cached = promptFile{text: strings.TrimSpace(string(data)), modTime: info.ModTime(), size: info.Size()}
		s.files[name] = cached
	}

	if cached.text == "" {
		if hasDefault {
			return fallback, nil
		}
		return "", fmt.Errorf("load prompt %q: file is empty", name)
	}
	return cached.text, nil
}
