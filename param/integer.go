package param

import (
	"fmt"
	"math"
)

// Integer is uniform over the inclusive range [min, max].
type Integer struct {
	leaf
	min, max int
}

// NewInteger panics if min > max.
func NewInteger(min, max int) *Integer {
	if min > max {
		panic(fmt.Sprintf("param: invalid integer range [%d, %d]", min, max))
	}
	return &Integer{min: min, max: max}
}

// Value returns the smallest k in [min, max] whose cumulative probability is
// at least the sampled value.
func (s *Integer) Value(values []float64) (int, error) {
	p, err := s.sample(values)
	if err != nil {
		return 0, err
	}
	if p == 0 {
		return s.min, nil
	}
	// the span is computed unsigned so that ranges wider than MaxInt wrap
	// correctly
	span := uint64(s.max) - uint64(s.min)
	off := math.Ceil(p*(float64(span)+1)) - 1
	if off >= float64(span) {
		return s.max, nil
	}
	return int(uint64(s.min) + uint64(off)), nil
}

func (s *Integer) CollectLeaves() []Space { return []Space{s} }

func (s *Integer) Min() int { return s.min }
func (s *Integer) Max() int { return s.max }

func (s *Integer) String() string { return fmt.Sprintf("integer[%d, %d]", s.min, s.max) }
