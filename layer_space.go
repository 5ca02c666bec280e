// Package arbiter declares searchable layer configurations for
// hyperparameter optimization.
//
// A layer space describes a range of configurations for one layer type. The
// search engine flattens it into leaves (see package param), samples a vector
// of values in [0, 1] per trial and resolves the space against that vector to
// get a concrete layer (see package layer).
package arbiter

import (
	"github.com/gorgonia/arbiter/param"
	"github.com/pkg/errors"
)

// LayerSpace holds the options every layer space carries regardless of the
// layer type.
type LayerSpace struct {
	Name    string                        // not searchable
	Dropout param.ParameterSpace[float64] // optional
}

func (s *LayerSpace) collectLeaves() []param.Space {
	var retVal []param.Space
	if s.Dropout != nil {
		retVal = append(retVal, s.Dropout.CollectLeaves()...)
	}
	return retVal
}

func (s *LayerSpace) nestedSpaces() []param.Space {
	var retVal []param.Space
	if s.Dropout != nil {
		retVal = append(retVal, s.Dropout)
	}
	return retVal
}

// optionsBuilder is the part of a layer builder that LayerSpace configures.
type optionsBuilder[B any] interface {
	Name(name string) B
	Dropout(p float64) B
}

// setLayerOptions resolves the shared options onto a layer builder.
func setLayerOptions[B optionsBuilder[B]](s *LayerSpace, b B, values []float64) error {
	if s.Name != "" {
		b.Name(s.Name)
	}
	return resolve(s.Dropout, values, "dropout", func(p float64) { b.Dropout(p) })
}

// resolve evaluates an optional sub-space and hands the value to set.
// Absent sub-spaces leave the builder's default in place.
func resolve[T any](s param.ParameterSpace[T], values []float64, name string, set func(T)) error {
	if s == nil {
		return nil
	}
	v, err := s.Value(values)
	if err != nil {
		return errors.Wrapf(err, "resolve %s", name)
	}
	set(v)
	return nil
}
