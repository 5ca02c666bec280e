package param

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	kindFixed      = "fixed"
	kindContinuous = "continuous"
	kindInteger    = "integer"
	kindBoolean    = "boolean"
	kindDiscrete   = "discrete"

	distUniform   = "uniform"
	distNormal    = "normal"
	distLogNormal = "lognormal"
)

// spaceJSON is the wire form shared by every leaf. Type selects the leaf.
type spaceJSON struct {
	Type         string          `json:"type"`
	Value        json.RawMessage `json:"value,omitempty"`
	Values       json.RawMessage `json:"values,omitempty"`
	Distribution string          `json:"distribution,omitempty"`
	Min          float64         `json:"min,omitempty"`
	Max          float64         `json:"max,omitempty"`
	Mu           float64         `json:"mu,omitempty"`
	Sigma        float64         `json:"sigma,omitempty"`
	Indices      []int           `json:"indices,omitempty"`
}

// MarshalSpace encodes a space as JSON.
func MarshalSpace(s Space) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil parameter space")
	}
	return json.Marshal(s)
}

func (f *Fixed[T]) MarshalJSON() ([]byte, error) {
	v, err := json.Marshal(f.value)
	if err != nil {
		return nil, errors.Wrap(err, "marshal fixed value")
	}
	return json.Marshal(spaceJSON{Type: kindFixed, Value: v})
}

func (c *Continuous) MarshalJSON() ([]byte, error) {
	w := spaceJSON{Type: kindContinuous, Indices: c.indices}
	switch d := c.dist.(type) {
	case distuv.Uniform:
		w.Distribution, w.Min, w.Max = distUniform, d.Min, d.Max
	case distuv.Normal:
		w.Distribution, w.Mu, w.Sigma = distNormal, d.Mu, d.Sigma
	case distuv.LogNormal:
		w.Distribution, w.Mu, w.Sigma = distLogNormal, d.Mu, d.Sigma
	default:
		return nil, errors.Wrapf(ErrUnsupported, "cannot marshal distribution %T", c.dist)
	}
	return json.Marshal(w)
}

func (s *Integer) MarshalJSON() ([]byte, error) {
	return json.Marshal(spaceJSON{Type: kindInteger, Min: float64(s.min), Max: float64(s.max), Indices: s.indices})
}

func (s *Boolean) MarshalJSON() ([]byte, error) {
	return json.Marshal(spaceJSON{Type: kindBoolean, Indices: s.indices})
}

func (s *Discrete[T]) MarshalJSON() ([]byte, error) {
	vs, err := json.Marshal(s.values)
	if err != nil {
		return nil, errors.Wrap(err, "marshal discrete values")
	}
	return json.Marshal(spaceJSON{Type: kindDiscrete, Values: vs, Indices: s.indices})
}

// UnmarshalSpace decodes a space produced by MarshalSpace. The decoded space
// must produce values of type T: continuous spaces produce float64, integer
// spaces int and boolean spaces bool, while fixed and discrete spaces decode
// their literals into T.
func UnmarshalSpace[T any](data []byte) (ParameterSpace[T], error) {
	var w spaceJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "unmarshal parameter space")
	}

	var s Space
	switch w.Type {
	case kindFixed:
		if isNull(w.Value) {
			return nil, errors.New("fixed space without a value")
		}
		v, err := unmarshalValue[T](w.Value)
		if err != nil {
			return nil, errors.Wrap(err, "unmarshal fixed value")
		}
		s = NewFixed(v)
	case kindDiscrete:
		var raw []json.RawMessage
		if err := json.Unmarshal(w.Values, &raw); err != nil {
			return nil, errors.Wrap(err, "unmarshal discrete values")
		}
		if len(raw) == 0 {
			return nil, errors.New("discrete space without values")
		}
		vs := make([]T, len(raw))
		for i, r := range raw {
			if isNull(r) {
				return nil, errors.Errorf("discrete value %d is null", i)
			}
			var err error
			if vs[i], err = unmarshalValue[T](r); err != nil {
				return nil, errors.Wrapf(err, "unmarshal discrete value %d", i)
			}
		}
		s = NewDiscrete(vs...)
	case kindContinuous:
		c, err := continuousFromJSON(w)
		if err != nil {
			return nil, err
		}
		s = c
	case kindInteger:
		lo, err := integerBound(w.Min)
		if err != nil {
			return nil, errors.Wrap(err, "integer min")
		}
		hi, err := integerBound(w.Max)
		if err != nil {
			return nil, errors.Wrap(err, "integer max")
		}
		if lo > hi {
			return nil, errors.Errorf("invalid integer range [%d, %d]", lo, hi)
		}
		s = NewInteger(lo, hi)
	case kindBoolean:
		s = NewBoolean()
	default:
		return nil, errors.Wrapf(ErrUnknownSpace, "%q", w.Type)
	}

	retVal, ok := s.(ParameterSpace[T])
	if !ok {
		var zero T
		return nil, errors.Wrapf(ErrTypeMismatch, "%s space cannot produce %T", w.Type, zero)
	}
	if len(w.Indices) > 0 {
		if err := retVal.SetIndices(w.Indices...); err != nil {
			return nil, err
		}
	}
	return retVal, nil
}

func continuousFromJSON(w spaceJSON) (*Continuous, error) {
	switch w.Distribution {
	case "", distUniform:
		if w.Min > w.Max {
			return nil, errors.Errorf("invalid continuous range [%v, %v]", w.Min, w.Max)
		}
		return NewContinuous(w.Min, w.Max), nil
	case distNormal:
		if w.Sigma <= 0 {
			return nil, errors.Errorf("normal distribution needs sigma > 0, got %v", w.Sigma)
		}
		return NewContinuousDist(distuv.Normal{Mu: w.Mu, Sigma: w.Sigma}), nil
	case distLogNormal:
		if w.Sigma <= 0 {
			return nil, errors.Errorf("lognormal distribution needs sigma > 0, got %v", w.Sigma)
		}
		return NewContinuousDist(distuv.LogNormal{Mu: w.Mu, Sigma: w.Sigma}), nil
	}
	return nil, errors.Wrapf(ErrUnknownSpace, "distribution %q", w.Distribution)
}

func isNull(data json.RawMessage) bool {
	return len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

func unmarshalValue[T any](data json.RawMessage) (v T, err error) {
	if err = json.Unmarshal(data, &v); err != nil {
		return v, errors.Wrapf(err, "into %T", v)
	}
	return v, nil
}

// maxExactInt is the largest magnitude a float64 bound holds without rounding.
const maxExactInt = 1 << 53

// integerBound converts a decoded bound, rejecting fractions and magnitudes
// that did not survive the trip through float64.
func integerBound(f float64) (int, error) {
	if f != math.Trunc(f) {
		return 0, errors.Errorf("%v is not an integer", f)
	}
	if math.Abs(f) > maxExactInt {
		return 0, errors.Errorf("%v is outside ±2^53", f)
	}
	return int(f), nil
}
