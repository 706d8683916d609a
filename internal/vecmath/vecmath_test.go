package vecmath

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotProduct(t *testing.T) {
	got, err := DotProduct([]float32{1, 2, 3}, []float32{4, 5, 6})
	require.NoError(t, err)
	assert.InDelta(t, 32.0, got, 1e-9)
}

func TestDotProduct_DimensionErrors(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
	}{
		{"mismatched lengths", []float32{1, 2}, []float32{1, 2, 3}},
		{"empty a", []float32{}, []float32{1}},
		{"empty b", []float32{1}, nil},
		{"both empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DotProduct(tt.a, tt.b)
			assert.ErrorIs(t, err, ErrDimension)
		})
	}
}

func TestMagnitude(t *testing.T) {
	got, err := Magnitude([]float32{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-9)

	_, err = Magnitude(nil)
	assert.ErrorIs(t, err, ErrDimension)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
		delta    float64
	}{
		{
			name:     "identical vectors",
			a:        []float32{1.0, 2.0, 3.0},
			b:        []float32{1.0, 2.0, 3.0},
			expected: 1.0,
			delta:    0.0001,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1.0, 0.0},
			b:        []float32{0.0, 1.0},
			expected: 0.0,
			delta:    0.0001,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1.0, 2.0, 3.0},
			b:        []float32{-1.0, -2.0, -3.0},
			expected: -1.0,
			delta:    0.0001,
		},
		{
			name:     "normalized vectors at 45 degrees",
			a:        []float32{1.0, 0.0},
			b:        []float32{0.707, 0.707},
			expected: 0.707,
			delta:    0.01,
		},
		{
			name:     "zero vector",
			a:        []float32{0.0, 0.0, 0.0},
			b:        []float32{1.0, 2.0, 3.0},
			expected: 0.0,
			delta:    0,
		},
		{
			name:     "different dimensions",
			a:        []float32{1.0, 2.0},
			b:        []float32{1.0, 2.0, 3.0},
			expected: 0.0,
			delta:    0,
		},
		{
			name:     "empty vectors",
			a:        nil,
			b:        []float32{},
			expected: 0.0,
			delta:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CosineSimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.expected, result, tt.delta)
		})
	}
}

func TestCosineSimilarity_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		dim := 1 + rng.Intn(64)
		a := randomVector(rng, dim)
		b := randomVector(rng, dim)

		sim := CosineSimilarity(a, b)
		assert.GreaterOrEqual(t, sim, -1.0-1e-9)
		assert.LessOrEqual(t, sim, 1.0+1e-9)

		if magnitudeNonZero(a) {
			assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-6)
		}
		assert.Equal(t, 0.0, CosineSimilarity(a, make([]float32, dim)))
	}
}

func randomVector(rng *rand.Rand, dim int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32(rng.NormFloat64())
	}
	return v
}

func magnitudeNonZero(v []float32) bool {
	m, err := Magnitude(v)
	return err == nil && m > 0 && !math.IsInf(m, 0)
}

func BenchmarkCosineSimilarity(b *testing.B) {
	vec1 := make([]float32, 384)
	vec2 := make([]float32, 384)
	for i := range vec1 {
		vec1[i] = float32(i) / 384
		vec2[i] = float32(384-i) / 384
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CosineSimilarity(vec1, vec2)
	}
}
