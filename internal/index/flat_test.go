package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		dim     int
		wantErr bool
	}{
		{name: "valid dimension", dim: 1536, wantErr: false},
		{name: "dimension of one", dim: 1, wantErr: false},
		{name: "zero dimension", dim: 0, wantErr: true},
		{name: "negative dimension", dim: -3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := New(tt.dim)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDimension)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dim, idx.Dimension())
			assert.Equal(t, 0, idx.Size())
		})
	}
}

func TestAdd(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)

	require.NoError(t, idx.Add([]float32{1, 0, 0}))
	require.NoError(t, idx.Add([]float32{0, 1, 0}))
	assert.Equal(t, 2, idx.Size())

	t.Run("dimension mismatch", func(t *testing.T) {
		err := idx.Add([]float32{1, 2})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
		assert.Equal(t, 2, idx.Size())
	})

	t.Run("caller slice reuse does not alias stored data", func(t *testing.T) {
		vec := []float32{5, 5, 5}
		require.NoError(t, idx.Add(vec))
		vec[0] = -100

		dists, positions, err := idx.Search([]float32{5, 5, 5}, 1)
		require.NoError(t, err)
		require.Len(t, positions, 1)
		assert.Equal(t, 2, positions[0])
		assert.Equal(t, 0.0, dists[0])
	})
}

func TestSearchRanking(t *testing.T) {
	idx, err := New(2)
	require.NoError(t, err)

	// Positions: 0 at (0,0), 1 at (3,4), 2 at (1,1)
	require.NoError(t, idx.Add([]float32{0, 0}))
	require.NoError(t, idx.Add([]float32{3, 4}))
	require.NoError(t, idx.Add([]float32{1, 1}))

	dists, positions, err := idx.Search([]float32{0, 0}, 3)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 1}, positions)
	assert.Equal(t, []float64{0, 2, 25}, dists)
}

func TestSearchAscendingOrder(t *testing.T) {
	idx, err := New(4)
	require.NoError(t, err)

	vectors := [][]float32{
		{0.9, 0.1, 0.3, 0.7},
		{0.2, 0.2, 0.2, 0.2},
		{0.5, 0.5, 0.5, 0.5},
		{0.0, 1.0, 0.0, 1.0},
		{0.4, 0.4, 0.1, 0.9},
	}
	for _, v := range vectors {
		require.NoError(t, idx.Add(v))
	}

	dists, positions, err := idx.Search([]float32{0.3, 0.3, 0.3, 0.3}, 5)
	require.NoError(t, err)
	require.Len(t, dists, 5)
	require.Len(t, positions, 5)

	for i := 1; i < len(dists); i++ {
		assert.LessOrEqual(t, dists[i-1], dists[i], "distances must be ascending")
	}
}

func TestSearchEdgeCases(t *testing.T) {
	t.Run("k larger than size clamps", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)
		require.NoError(t, idx.Add([]float32{1, 1}))
		require.NoError(t, idx.Add([]float32{2, 2}))

		dists, positions, err := idx.Search([]float32{0, 0}, 10)
		require.NoError(t, err)
		assert.Len(t, dists, 2)
		assert.Len(t, positions, 2)
	})

	t.Run("empty index", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)

		dists, positions, err := idx.Search([]float32{0, 0}, 4)
		require.NoError(t, err)
		assert.Empty(t, dists)
		assert.Empty(t, positions)
	})

	t.Run("zero k", func(t *testing.T) {
		idx, err := New(2)
		require.NoError(t, err)
		require.NoError(t, idx.Add([]float32{1, 1}))

		dists, positions, err := idx.Search([]float32{0, 0}, 0)
		require.NoError(t, err)
		assert.Empty(t, dists)
		assert.Empty(t, positions)
	})

	t.Run("query dimension mismatch", func(t *testing.T) {
		idx, err := New(3)
		require.NoError(t, err)
		require.NoError(t, idx.Add([]float32{1, 1, 1}))

		_, _, err = idx.Search([]float32{1, 1}, 1)
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

func TestSearchDeterminism(t *testing.T) {
	idx, err := New(3)
	require.NoError(t, err)

	vectors := [][]float32{
		{0.1, 0.9, 0.4},
		{0.8, 0.3, 0.2},
		{0.5, 0.5, 0.5},
		{0.2, 0.6, 0.7},
	}
	for _, v := range vectors {
		require.NoError(t, idx.Add(v))
	}

	query := []float32{0.3, 0.4, 0.5}
	d1, p1, err := idx.Search(query, 4)
	require.NoError(t, err)
	d2, p2, err := idx.Search(query, 4)
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Equal(t, p1, p2)
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 0},
		{name: "unit apart", a: []float32{0, 0}, b: []float32{1, 0}, want: 1},
		{name: "3-4-5 triangle", a: []float32{0, 0}, b: []float32{3, 4}, want: 25},
		{name: "negative components", a: []float32{-1, -1}, b: []float32{1, 1}, want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, squaredL2(tt.a, tt.b), 1e-9)
		})
	}
}
