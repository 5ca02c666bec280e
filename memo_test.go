package arbiter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorgonia/arbiter/layer"
	"github.com/gorgonia/arbiter/param"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemo(t *testing.T) {
	space, _ := searchable(t)
	memo, err := NewMemo[layer.GlobalPooling](space, 2)
	require.NoError(t, err)

	hits := testutil.ToFloat64(memoHits)
	misses := testutil.ToFloat64(memoMisses)

	a := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	b := []float64{0.5, 0.4, 0.3, 0.2, 0.1}
	c := []float64{0.9, 0.9, 0.9, 0.9, 0.9}

	first, err := memo.Value(a)
	require.NoError(t, err)
	again, err := memo.Value(a)
	require.NoError(t, err)
	assert.True(t, cmp.Equal(first, again))
	assert.Equal(t, hits+1, testutil.ToFloat64(memoHits))
	assert.Equal(t, misses+1, testutil.ToFloat64(memoMisses))

	_, err = memo.Value(b)
	require.NoError(t, err)
	_, err = memo.Value(c)
	require.NoError(t, err)
	assert.Equal(t, 2, memo.Len())

	// failures are not cached
	_, err = memo.Value([]float64{0.5})
	assert.Error(t, err)
	assert.Equal(t, 2, memo.Len())

	assert.Equal(t, space.NumParameters(), memo.NumParameters())
	assert.False(t, memo.IsLeaf())
}

func TestMemoErrors(t *testing.T) {
	_, err := NewMemo[int](nil, 4)
	assert.Error(t, err)

	_, err = NewMemo[int](param.NewInteger(0, 1), 0)
	assert.Error(t, err)
}

func TestVectorKey(t *testing.T) {
	assert.Equal(t, vectorKey([]float64{0.1, 0.2}), vectorKey([]float64{0.1, 0.2}))
	assert.NotEqual(t, vectorKey([]float64{0.1, 0.2}), vectorKey([]float64{0.2, 0.1}))
	assert.NotEqual(t, vectorKey([]float64{0}), vectorKey([]float64{0, 0}))
	assert.Len(t, vectorKey([]float64{1, 2, 3}), 24)
}
