package param

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
)

// Fixed is a single-point space. It consumes no sample entries and always
// resolves to the literal it was built with.
type Fixed[T any] struct {
	value T
}

// NewFixed wraps a literal in a space.
func NewFixed[T any](value T) *Fixed[T] { return &Fixed[T]{value: value} }

// Value returns the literal. Slice literals are returned as copies.
func (f *Fixed[T]) Value(_ []float64) (T, error) { return cloneValue(f.value), nil }

func (f *Fixed[T]) NumParameters() int     { return 0 }
func (f *Fixed[T]) CollectLeaves() []Space { return []Space{f} }
func (f *Fixed[T]) NestedSpaces() []Space  { return nil }
func (f *Fixed[T]) IsLeaf() bool           { return true }
func (f *Fixed[T]) Indices() []int         { return nil }

// SetIndices only accepts an empty index set.
func (f *Fixed[T]) SetIndices(indices ...int) error {
	if len(indices) != 0 {
		return errors.Wrapf(ErrIndexCount, "fixed value takes no indices, got %d", len(indices))
	}
	return nil
}

func (f *Fixed[T]) String() string { return fmt.Sprintf("fixed(%v)", f.value) }

// cloneValue copies the slice types spaces are built over, so callers cannot
// mutate a space through a resolved value.
func cloneValue[T any](v T) T {
	switch s := any(v).(type) {
	case []int:
		return any(slices.Clone(s)).(T)
	case []float64:
		return any(slices.Clone(s)).(T)
	case []string:
		return any(slices.Clone(s)).(T)
	}
	return v
}
