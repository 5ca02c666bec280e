package param

import (
	"fmt"
	"math"
)

// Discrete picks one of a fixed set of values, each with equal probability.
type Discrete[T any] struct {
	leaf
	values []T
}

// NewDiscrete panics if no values are given.
func NewDiscrete[T any](values ...T) *Discrete[T] {
	if len(values) == 0 {
		panic("param: discrete space needs at least one value")
	}
	vs := make([]T, len(values))
	copy(vs, values)
	return &Discrete[T]{values: vs}
}

func (s *Discrete[T]) Value(values []float64) (T, error) {
	p, err := s.sample(values)
	if err != nil {
		var zero T
		return zero, err
	}
	n := len(s.values)
	i := int(math.Floor(p * float64(n)))
	if i >= n {
		i = n - 1
	}
	return cloneValue(s.values[i]), nil
}

func (s *Discrete[T]) CollectLeaves() []Space { return []Space{s} }

// Values returns a copy of the candidate values.
func (s *Discrete[T]) Values() []T {
	retVal := make([]T, len(s.values))
	copy(retVal, s.values)
	return retVal
}

func (s *Discrete[T]) String() string { return fmt.Sprintf("discrete%v", s.values) }
