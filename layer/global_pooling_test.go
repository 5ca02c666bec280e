package layer

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGlobalPooling(t *testing.T) {
	l, err := NewGlobalPoolingBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, Max, l.PoolingType())
	assert.Nil(t, l.PoolingDimensions())
	assert.True(t, l.CollapseDimensions())
	assert.Equal(t, 2, l.PNorm())
	assert.Equal(t, 0.0, l.Dropout())
	assert.Equal(t, "", l.Name())
	if !cmp.Equal(DefaultGlobalPooling(), l) {
		t.Errorf("builder default differs: %s", cmp.Diff(DefaultGlobalPooling(), l))
	}
}

func TestGlobalPoolingBuilder(t *testing.T) {
	l, err := NewGlobalPoolingBuilder().
		Name("pool").
		Dropout(0.25).
		PoolingType(PNorm).
		PoolingDimensions(2, 3).
		CollapseDimensions(false).
		PNorm(3).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "pool", l.Name())
	assert.Equal(t, 0.25, l.Dropout())
	assert.Equal(t, PNorm, l.PoolingType())
	assert.Equal(t, []int{2, 3}, l.PoolingDimensions())
	assert.False(t, l.CollapseDimensions())
	assert.Equal(t, 3, l.PNorm())
	assert.Equal(t, `GlobalPooling("pool", PNORM, dims=[2 3], collapse=false, pnorm=3, dropout=0.25)`, l.String())
}

func TestGlobalPoolingIsImmutable(t *testing.T) {
	dims := []int{1, 2}
	b := NewGlobalPoolingBuilder().PoolingDimensions(dims...)
	l, err := b.Build()
	require.NoError(t, err)

	dims[0] = 7
	got := l.PoolingDimensions()
	got[1] = 9
	b.PoolingDimensions(5)

	assert.Equal(t, []int{1, 2}, l.PoolingDimensions())
}

func TestGlobalPoolingBuilderErrors(t *testing.T) {
	for _, c := range []struct {
		name string
		b    *GlobalPoolingBuilder
		err  error
	}{
		{"pnorm", NewGlobalPoolingBuilder().PNorm(0), ErrInvalidPNorm},
		{"negative dim", NewGlobalPoolingBuilder().PoolingDimensions(-1), ErrInvalidDimensions},
		{"duplicate dim", NewGlobalPoolingBuilder().PoolingDimensions(2, 2), ErrInvalidDimensions},
		{"dropout", NewGlobalPoolingBuilder().Dropout(1), ErrInvalidDropout},
		{"pooling type", NewGlobalPoolingBuilder().PoolingType(MAXPOOLINGTYPE), ErrUnknownPoolingType},
		{"first error wins", NewGlobalPoolingBuilder().PNorm(-1).Dropout(2), ErrInvalidPNorm},
	} {
		_, err := c.b.Build()
		assert.True(t, errors.Is(err, c.err), "%s: %v", c.name, err)
	}
}

func TestOutputShape(t *testing.T) {
	for _, c := range []struct {
		dims     []int
		collapse bool
		in, out  []int
	}{
		{nil, true, []int{8, 16, 20}, []int{8, 16}},
		{nil, true, []int{8, 3, 32, 32}, []int{8, 3}},
		{nil, false, []int{8, 3, 32, 32}, []int{8, 3, 1, 1}},
		{nil, true, []int{8, 3, 4, 5, 6}, []int{8, 3}},
		{[]int{1}, true, []int{8, 16, 20}, []int{8, 20}},
		{[]int{3, 2}, false, []int{2, 3, 4, 5}, []int{2, 3, 1, 1}},
	} {
		l, err := NewGlobalPoolingBuilder().PoolingDimensions(c.dims...).CollapseDimensions(c.collapse).Build()
		require.NoError(t, err)
		out, err := l.OutputShape(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.out, out, "dims %v collapse %t in %v", c.dims, c.collapse, c.in)
	}

	l := DefaultGlobalPooling()
	_, err := l.OutputShape([]int{4, 4})
	assert.True(t, errors.Is(err, ErrInvalidDimensions))

	l, _ = NewGlobalPoolingBuilder().PoolingDimensions(4).Build()
	_, err = l.OutputShape([]int{1, 2, 3})
	assert.True(t, errors.Is(err, ErrInvalidDimensions))
}

func TestGlobalPoolingJSON(t *testing.T) {
	l, err := NewGlobalPoolingBuilder().PoolingType(Avg).PoolingDimensions(2).PNorm(4).Build()
	require.NoError(t, err)

	data, err := json.Marshal(l)
	require.NoError(t, err)
	assert.JSONEq(t, `{"poolingType":"AVG","poolingDimensions":[2],"collapseDimensions":true,"pnorm":4}`, string(data))

	var back GlobalPooling
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, cmp.Equal(l, back), cmp.Diff(l, back))

	var partial GlobalPooling
	require.NoError(t, json.Unmarshal([]byte(`{"poolingType":"SUM"}`), &partial))
	assert.Equal(t, Sum, partial.PoolingType())
	assert.True(t, partial.CollapseDimensions())
	assert.Equal(t, 2, partial.PNorm())

	var bad GlobalPooling
	err = json.Unmarshal([]byte(`{"pnorm":0}`), &bad)
	assert.True(t, errors.Is(err, ErrInvalidPNorm), "%v", err)
}
