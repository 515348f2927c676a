// Package postprocessors turns chunker settings into a PostProcessor.
// Builders are looked up by name so the config file can select one.
package postprocessors

import (
	"fmt"
	"maps"
	"slices"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Config is the loosely typed settings table handed to a builder. Values
// come from TOML, YAML or JSON, so numbers may arrive as int, int64 or
// float64.
type Config map[string]any

// Int returns the integer at key and whether a usable number was present.
func (c Config) Int(key string) (int, bool) {
	switch v := c[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// String returns the string at key, or "".
func (c Config) String(key string) string {
	s, _ := c[key].(string)
	return s
}

// BuilderFunc creates a PostProcessor from its settings table.
type BuilderFunc func(cfg Config) (driven.PostProcessor, error)

// Registry maps processor names to builders. It is not safe for concurrent
// registration; build it once at startup.
type Registry struct {
	builders map[string]BuilderFunc
}

func NewRegistry() *Registry {
	return &Registry{builders: map[string]BuilderFunc{}}
}

// Register adds a builder. Registering a name twice is an error.
func (r *Registry) Register(name string, builder BuilderFunc) error {
	if _, dup := r.builders[name]; dup {
		return fmt.Errorf("%w: processor %q registered twice", domain.ErrInvalidInput, name)
	}
	r.builders[name] = builder
	return nil
}

// Build runs the named builder. Unknown names report ErrUnsupportedType
// along with the names that are available.
func (r *Registry) Build(name string, cfg Config) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: processor %q (have %v)", domain.ErrUnsupportedType, name, r.Names())
	}
	proc, err := builder(cfg)
	if err != nil {
		return nil, fmt.Errorf("build processor %q: %w", name, err)
	}
	return proc, nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names lists registered processors alphabetically.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.builders))
}
