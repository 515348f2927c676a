package vectormath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Cosine(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}

	_, err := Cosine([]float32{1}, []float32{1, 2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTopK(t *testing.T) {
	hits := []domain.VectorHit{
		{ID: "c", Score: 0.5},
		{ID: "a", Score: 0.9},
		{ID: "b", Score: 0.5},
		{ID: "d", Score: 0.1},
	}

	top := TopK(hits, 3)

	require.Len(t, top, 3)
	assert.Equal(t, "a", top[0].ID)
	assert.Equal(t, "b", top[1].ID)
	assert.Equal(t, "c", top[2].ID)
}

func TestEncodeDecode(t *testing.T) {
	in := []float32{0.25, -1.5, 3.0e-7}

	data := Encode(in)
	assert.Len(t, data, 12)
	assert.Equal(t, in, Decode(data))

	assert.Empty(t, Encode(nil))
	assert.Nil(t, Decode(nil))
	assert.Nil(t, Decode([]byte{1, 2}))
}
