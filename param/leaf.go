package param

import (
	"math"

	"github.com/pkg/errors"
)

// leaf holds the sample vector positions of a single-parameter leaf.
type leaf struct {
	indices []int
}

func (l *leaf) NumParameters() int    { return 1 }
func (l *leaf) NestedSpaces() []Space { return nil }
func (l *leaf) IsLeaf() bool          { return true }

// Indices returns a copy of the assigned indices.
func (l *leaf) Indices() []int {
	if l.indices == nil {
		return nil
	}
	retVal := make([]int, len(l.indices))
	copy(retVal, l.indices)
	return retVal
}

func (l *leaf) SetIndices(indices ...int) error { return l.setIndices(1, indices) }

func (l *leaf) setIndices(n int, indices []int) error {
	if len(indices) != n {
		return errors.Wrapf(ErrIndexCount, "expected %d, got %d", n, len(indices))
	}
	for _, i := range indices {
		if i < 0 {
			return errors.Wrapf(ErrNegativeIndex, "%d", i)
		}
	}
	l.indices = make([]int, n)
	copy(l.indices, indices)
	return nil
}

// sample reads the leaf's entry from the sample vector.
func (l *leaf) sample(values []float64) (float64, error) {
	if len(l.indices) == 0 {
		return 0, errors.WithStack(ErrNoIndex)
	}
	i := l.indices[0]
	if i >= len(values) {
		return 0, errors.WithStack(&IndexError{Index: i, Len: len(values)})
	}
	p := values[i]
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, errors.Wrapf(ErrValueOutOfRange, "values[%d] = %v", i, p)
	}
	return p, nil
}
