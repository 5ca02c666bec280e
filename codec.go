package arbiter

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/gorgonia/arbiter/layer"
	"github.com/gorgonia/arbiter/param"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is a text encoding of a space definition.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// FormatFromPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// globalPoolingSpaceJSON names its fields after the builder options.
type globalPoolingSpaceJSON struct {
	Name               string          `json:"name,omitempty"`
	Dropout            json.RawMessage `json:"dropout,omitempty"`
	PoolingDimensions  json.RawMessage `json:"poolingDimensions,omitempty"`
	CollapseDimensions json.RawMessage `json:"collapseDimensions,omitempty"`
	PoolingType        json.RawMessage `json:"poolingType,omitempty"`
	PNorm              json.RawMessage `json:"pNorm,omitempty"`
}

func (s *GlobalPoolingSpace) MarshalJSON() ([]byte, error) {
	w := globalPoolingSpaceJSON{Name: s.Name}
	for _, f := range []struct {
		dst   *json.RawMessage
		space param.Space
		name  string
	}{
		{&w.Dropout, optional(s.Dropout), "dropout"},
		{&w.PoolingDimensions, optional(s.poolingDimensions), "poolingDimensions"},
		{&w.CollapseDimensions, optional(s.collapseDimensions), "collapseDimensions"},
		{&w.PoolingType, optional(s.poolingType), "poolingType"},
		{&w.PNorm, optional(s.pNorm), "pNorm"},
	} {
		if f.space == nil {
			continue
		}
		data, err := param.MarshalSpace(f.space)
		if err != nil {
			return nil, errors.Wrapf(err, "marshal %s", f.name)
		}
		*f.dst = data
	}
	return json.Marshal(w)
}

func (s *GlobalPoolingSpace) UnmarshalJSON(data []byte) (err error) {
	var w globalPoolingSpaceJSON
	if err = json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(err, "unmarshal global pooling space")
	}

	var decoded GlobalPoolingSpace
	decoded.Name = w.Name
	if decoded.Dropout, err = unmarshalOptional[float64](w.Dropout, "dropout"); err != nil {
		return err
	}
	if decoded.poolingDimensions, err = unmarshalOptional[[]int](w.PoolingDimensions, "poolingDimensions"); err != nil {
		return err
	}
	if decoded.collapseDimensions, err = unmarshalOptional[bool](w.CollapseDimensions, "collapseDimensions"); err != nil {
		return err
	}
	if decoded.poolingType, err = unmarshalOptional[layer.PoolingType](w.PoolingType, "poolingType"); err != nil {
		return err
	}
	if decoded.pNorm, err = unmarshalOptional[int](w.PNorm, "pNorm"); err != nil {
		return err
	}
	decoded.init()
	*s = decoded
	return nil
}

// optional converts a possibly nil typed space into a possibly nil Space.
func optional[T any](s param.ParameterSpace[T]) param.Space {
	if s == nil {
		return nil
	}
	return s
}

func unmarshalOptional[T any](data json.RawMessage, name string) (param.ParameterSpace[T], error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	s, err := param.UnmarshalSpace[T](data)
	if err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s", name)
	}
	return s, nil
}

// Encode writes a space definition in the given format.
func Encode(s *GlobalPoolingSpace, f Format) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	switch f {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		var generic interface{}
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, errors.WithStack(err)
		}
		return yaml.Marshal(generic)
	}
	return nil, errors.Errorf("unknown format %d", int(f))
}

// Decode reads a space definition written by Encode or by hand.
func Decode(data []byte, f Format) (*GlobalPoolingSpace, error) {
	switch f {
	case FormatJSON:
	case FormatYAML:
		var generic interface{}
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, errors.Wrap(err, "parse yaml")
		}
		var err error
		if data, err = json.Marshal(generic); err != nil {
			return nil, errors.Wrap(err, "convert yaml to json")
		}
	default:
		return nil, errors.Errorf("unknown format %d", int(f))
	}

	s := new(GlobalPoolingSpace)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}
