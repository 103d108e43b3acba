package index

import (
	"errors"
	"fmt"
	"sort"
)

// Common errors
var (
	ErrInvalidDimension  = errors.New("dimension must be > 0")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Flat is an exact nearest-neighbor index over squared L2 distance.
// Vectors are stored row-major in a single concatenated matrix, one row
// per added vector. Positions are assigned in insertion order and never
// change; callers join position i back to whatever entity produced the
// i-th Add call.
//
// Flat is not safe for concurrent mutation. Once building is finished it
// is safe for concurrent Search calls, since Search never writes.
type Flat struct {
	dim  int
	data []float32 // len(data) == dim * count
}

// New creates a flat index for vectors of the given dimension.
func New(dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	return &Flat{dim: dim}, nil
}

// Dimension returns the vector dimension the index was created with.
func (f *Flat) Dimension() int {
	return f.dim
}

// Size returns the number of vectors stored.
func (f *Flat) Size() int {
	return len(f.data) / f.dim
}

// Add appends a vector to the index. The vector is copied, so the caller
// may reuse its slice. The vector's position is Size() before the call.
func (f *Flat) Add(vec []float32) error {
	if len(vec) != f.dim {
		return fmt.Errorf("%w: got %d, index dimension is %d", ErrDimensionMismatch, len(vec), f.dim)
	}
	f.data = append(f.data, vec...)
	return nil
}

// neighbor pairs a stored vector position with its distance to a query.
type neighbor struct {
	position int
	distance float64
}

// Search returns the k nearest stored vectors to query by squared L2
// distance, closest first. If fewer than k vectors are stored, all of
// them are returned. Tie order between equidistant vectors is
// unspecified but stable for a fixed index.
func (f *Flat) Search(query []float32, k int) ([]float64, []int, error) {
	if len(query) != f.dim {
		return nil, nil, fmt.Errorf("%w: query has %d, index dimension is %d", ErrDimensionMismatch, len(query), f.dim)
	}

	n := f.Size()
	if n == 0 || k <= 0 {
		return nil, nil, nil
	}
	if k > n {
		k = n
	}

	neighbors := make([]neighbor, n)
	for i := 0; i < n; i++ {
		row := f.data[i*f.dim : (i+1)*f.dim]
		neighbors[i] = neighbor{position: i, distance: squaredL2(query, row)}
	}

	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].distance < neighbors[b].distance
	})

	distances := make([]float64, k)
	positions := make([]int, k)
	for i := 0; i < k; i++ {
		distances[i] = neighbors[i].distance
		positions[i] = neighbors[i].position
	}
	return distances, positions, nil
}

// squaredL2 computes the squared Euclidean distance between two vectors
// of equal length. Accumulation is done in float64 to limit rounding
// error on high-dimensional embeddings.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
