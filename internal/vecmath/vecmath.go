// Package vecmath provides the vector routines used to score embeddings.
package vecmath

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimension is returned when vectors are empty or have different lengths
var ErrDimension = errors.New("dimension mismatch")

// DotProduct returns the sum of elementwise products of a and b
func DotProduct(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("%w: empty vector", ErrDimension)
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimension, len(a), len(b))
	}

	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum, nil
}

// Magnitude returns the Euclidean norm of v
func Magnitude(v []float32) (float64, error) {
	if len(v) == 0 {
		return 0, fmt.Errorf("%w: empty vector", ErrDimension)
	}

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum), nil
}

// CosineSimilarity computes the cosine similarity between two vectors.
// It never fails: zero-magnitude or malformed input yields 0.
func CosineSimilarity(a, b []float32) float64 {
	magA, err := Magnitude(a)
	if err != nil {
		return 0
	}
	magB, err := Magnitude(b)
	if err != nil {
		return 0
	}
	if magA == 0 || magB == 0 {
		return 0
	}

	dot, err := DotProduct(a, b)
	if err != nil {
		return 0
	}

	sim := dot / (magA * magB)
	if math.IsNaN(sim) {
		return 0
	}
	return sim
}
