package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrPartialFailure", ErrPartialFailure},
		{"ErrExternalDependency", ErrExternalDependency},
		{"ErrProcessingFailed", ErrProcessingFailed},
		{"ErrQueryFailed", ErrQueryFailed},
		{"ErrUnscopedQuery", ErrUnscopedQuery},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrVectorIndexUnavailable", ErrVectorIndexUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("find documents: %w", ErrNotFound)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrInvalidInput))

	joined := fmt.Errorf("%w: %w", ErrQueryFailed, ErrExternalDependency)
	assert.True(t, errors.Is(joined, ErrQueryFailed))
	assert.True(t, errors.Is(joined, ErrExternalDependency))
}
