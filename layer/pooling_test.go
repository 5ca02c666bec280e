package layer

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// sequence returns a (1, 2, 2) batch of one sequence with two features over
// two time steps: feature 0 is [1, 2] and feature 1 is [3, 4].
func sequence() *tensor.Dense {
	return tensor.New(tensor.WithShape(1, 2, 2), tensor.WithBacking([]float64{1, 2, 3, 4}))
}

var applyCases = []struct {
	typ     PoolingType
	correct []float64
}{
	{Sum, []float64{3, 7}},
	{Avg, []float64{1.5, 3.5}},
	{Max, []float64{2, 4}},
	{PNorm, []float64{math.Sqrt(5), 5}},
}

func TestApply(t *testing.T) {
	for _, c := range applyCases {
		l, err := NewGlobalPoolingBuilder().PoolingType(c.typ).Build()
		require.NoError(t, err)

		out, err := l.Apply(sequence())
		if err != nil {
			t.Fatalf("%v: %+v", c.typ, err)
		}
		assert.Equal(t, tensor.Shape{1, 2}, out.Shape(), "%v", c.typ)
		assert.InDeltaSlice(t, c.correct, out.Data().([]float64), 1e-9, "%v", c.typ)
	}
}

func TestApplyImage(t *testing.T) {
	x := tensor.New(tensor.WithShape(1, 1, 2, 2), tensor.WithBacking([]float32{1, -2, 3, 4}))

	l, err := NewGlobalPoolingBuilder().PoolingType(Sum).CollapseDimensions(false).Build()
	require.NoError(t, err)
	out, err := l.Apply(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 1, 1}, out.Shape())
	assert.InDeltaSlice(t, []float32{6}, out.Data().([]float32), 1e-6)

	l, err = NewGlobalPoolingBuilder().PoolingType(PNorm).PNorm(1).Build()
	require.NoError(t, err)
	out, err = l.Apply(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1}, out.Shape())
	assert.InDeltaSlice(t, []float32{10}, out.Data().([]float32), 1e-5)
}

func TestApplyErrors(t *testing.T) {
	l, err := NewGlobalPoolingBuilder().PoolingType(None).Build()
	require.NoError(t, err)
	_, err = l.Apply(sequence())
	assert.True(t, errors.Is(err, ErrUnsupportedPooling), "%v", err)

	ints := tensor.New(tensor.WithShape(1, 2, 2), tensor.WithBacking([]int{1, 2, 3, 4}))
	l, _ = NewGlobalPoolingBuilder().PoolingType(Avg).Build()
	_, err = l.Apply(ints)
	assert.Error(t, err)
}

func TestNode(t *testing.T) {
	for _, c := range applyCases[:3] {
		l, err := NewGlobalPoolingBuilder().PoolingType(c.typ).Build()
		require.NoError(t, err)

		g := G.NewGraph()
		x := G.NewTensor(g, tensor.Float64, 3, G.WithShape(1, 2, 2), G.WithValue(sequence()), G.WithName("x"))
		pooled, err := l.Node(x)
		if err != nil {
			t.Fatalf("%v: %+v", c.typ, err)
		}

		m := G.NewTapeMachine(g)
		if err := m.RunAll(); err != nil {
			t.Fatalf("%v: %+v", c.typ, err)
		}
		assert.InDeltaSlice(t, c.correct, pooled.Value().Data().([]float64), 1e-9, "%v", c.typ)
		m.Close()
	}
}

func TestNodeKeepsDimensions(t *testing.T) {
	l, err := NewGlobalPoolingBuilder().PoolingType(PNorm).CollapseDimensions(false).Build()
	require.NoError(t, err)

	g := G.NewGraph()
	x := G.NewTensor(g, tensor.Float64, 3, G.WithShape(1, 2, 2), G.WithName("x"))
	pooled, err := l.Node(x)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 2, 1}, pooled.Shape())

	l, _ = NewGlobalPoolingBuilder().PoolingType(None).Build()
	_, err = l.Node(x)
	assert.True(t, errors.Is(err, ErrUnsupportedPooling))
}
