// Package vecmath provides the small float32 vector routines shared by the
// chunker, the retriever and the in-memory vector index.
package vecmath

import "math"

// Dot returns the inner product of a and b.
// Vectors of unequal length are compared over the shorter prefix.
func Dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm returns the Euclidean norm of v.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Zero vectors yield 0.
func Cosine(a, b []float32) float64 {
	na := Norm(a)
	nb := Norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// Centroid returns the element-wise mean of the given vectors.
// Returns nil for an empty input.
func Centroid(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	dims := len(vectors[0])
	sums := make([]float64, dims)
	for _, v := range vectors {
		for i := 0; i < dims && i < len(v); i++ {
			sums[i] += float64(v[i])
		}
	}
	out := make([]float32, dims)
	for i, s := range sums {
		out[i] = float32(s / float64(len(vectors)))
	}
	return out
}
