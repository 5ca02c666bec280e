package arbiter

import (
	"fmt"

	"github.com/gorgonia/arbiter/layer"
	"github.com/gorgonia/arbiter/param"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const globalPoolingLabel = "global_pooling"

// GlobalPoolingSpace is the searchable space of global pooling layers.
//
// Every sub-space is optional. Absent sub-spaces resolve to the defaults of
// layer.DefaultGlobalPooling. A GlobalPoolingSpace is read-only once built and
// may be resolved concurrently after its leaves have been given indices.
type GlobalPoolingSpace struct {
	LayerSpace

	poolingDimensions  param.ParameterSpace[[]int]
	collapseDimensions param.ParameterSpace[bool]
	poolingType        param.ParameterSpace[layer.PoolingType]
	pNorm              param.ParameterSpace[int]

	numParameters int
}

func (s *GlobalPoolingSpace) PoolingDimensions() param.ParameterSpace[[]int] {
	return s.poolingDimensions
}

func (s *GlobalPoolingSpace) CollapseDimensions() param.ParameterSpace[bool] {
	return s.collapseDimensions
}

func (s *GlobalPoolingSpace) PoolingType() param.ParameterSpace[layer.PoolingType] {
	return s.poolingType
}

func (s *GlobalPoolingSpace) PNorm() param.ParameterSpace[int] { return s.pNorm }

// Value resolves the space against a sample vector.
//
// A vector shorter than the highest index a leaf was given fails with an
// error matching param.ErrIndexOutOfRange.
func (s *GlobalPoolingSpace) Value(values []float64) (layer.GlobalPooling, error) {
	l, err := s.value(values)
	if err != nil {
		resolveErrors.WithLabelValues(globalPoolingLabel).Inc()
		return layer.GlobalPooling{}, err
	}
	resolutions.WithLabelValues(globalPoolingLabel).Inc()
	return l, nil
}

func (s *GlobalPoolingSpace) value(values []float64) (layer.GlobalPooling, error) {
	b := layer.NewGlobalPoolingBuilder()
	if err := setLayerOptions(&s.LayerSpace, b, values); err != nil {
		return layer.GlobalPooling{}, err
	}
	if err := resolve(s.poolingDimensions, values, "poolingDimensions", func(dims []int) { b.PoolingDimensions(dims...) }); err != nil {
		return layer.GlobalPooling{}, err
	}
	if err := resolve(s.collapseDimensions, values, "collapseDimensions", func(c bool) { b.CollapseDimensions(c) }); err != nil {
		return layer.GlobalPooling{}, err
	}
	if err := resolve(s.poolingType, values, "poolingType", func(t layer.PoolingType) { b.PoolingType(t) }); err != nil {
		return layer.GlobalPooling{}, err
	}
	if err := resolve(s.pNorm, values, "pNorm", func(p int) { b.PNorm(p) }); err != nil {
		return layer.GlobalPooling{}, err
	}
	return b.Build()
}

// NumParameters returns the number of distinct leaves under the space.
func (s *GlobalPoolingSpace) NumParameters() int { return s.numParameters }

// CollectLeaves returns the leaves of the shared options, then of the pooling
// dimensions, collapse flag, pooling type and p-norm sub-spaces. A leaf shared
// between sub-spaces is listed once per occurrence.
func (s *GlobalPoolingSpace) CollectLeaves() []param.Space {
	retVal := s.LayerSpace.collectLeaves()
	for _, sub := range s.subspaces() {
		retVal = append(retVal, sub.CollectLeaves()...)
	}
	return retVal
}

// NestedSpaces returns the sub-spaces that are present, in CollectLeaves order.
func (s *GlobalPoolingSpace) NestedSpaces() []param.Space {
	return append(s.LayerSpace.nestedSpaces(), s.subspaces()...)
}

func (s *GlobalPoolingSpace) subspaces() []param.Space {
	var retVal []param.Space
	if s.poolingDimensions != nil {
		retVal = append(retVal, s.poolingDimensions)
	}
	if s.collapseDimensions != nil {
		retVal = append(retVal, s.collapseDimensions)
	}
	if s.poolingType != nil {
		retVal = append(retVal, s.poolingType)
	}
	if s.pNorm != nil {
		retVal = append(retVal, s.pNorm)
	}
	return retVal
}

func (s *GlobalPoolingSpace) IsLeaf() bool { return false }

// SetIndices always fails: only leaves can be bound to sample positions.
func (s *GlobalPoolingSpace) SetIndices(_ ...int) error {
	return errors.Wrap(param.ErrUnsupported, "cannot set indices for non-leaf parameter space")
}

func (s *GlobalPoolingSpace) String() string {
	if s.Name == "" {
		return "GlobalPoolingSpace"
	}
	return fmt.Sprintf("GlobalPoolingSpace(%q)", s.Name)
}

// init computes the cached leaf count.
func (s *GlobalPoolingSpace) init() {
	s.numParameters = param.CountUnique(s.CollectLeaves())
}

// GlobalPoolingSpaceBuilder assembles a GlobalPoolingSpace. Each option comes
// in two forms: a literal, which is wrapped in a fixed space, and a space.
type GlobalPoolingSpaceBuilder struct {
	s GlobalPoolingSpace
}

func NewGlobalPoolingSpace() *GlobalPoolingSpaceBuilder { return &GlobalPoolingSpaceBuilder{} }

func (b *GlobalPoolingSpaceBuilder) Name(name string) *GlobalPoolingSpaceBuilder {
	b.s.Name = name
	return b
}

func (b *GlobalPoolingSpaceBuilder) Dropout(p float64) *GlobalPoolingSpaceBuilder {
	return b.DropoutSpace(param.NewFixed(p))
}

func (b *GlobalPoolingSpaceBuilder) DropoutSpace(s param.ParameterSpace[float64]) *GlobalPoolingSpaceBuilder {
	b.s.Dropout = s
	return b
}

func (b *GlobalPoolingSpaceBuilder) PoolingDimensions(dims ...int) *GlobalPoolingSpaceBuilder {
	fixed := make([]int, len(dims))
	copy(fixed, dims)
	return b.PoolingDimensionsSpace(param.NewFixed(fixed))
}

func (b *GlobalPoolingSpaceBuilder) PoolingDimensionsSpace(s param.ParameterSpace[[]int]) *GlobalPoolingSpaceBuilder {
	b.s.poolingDimensions = s
	return b
}

func (b *GlobalPoolingSpaceBuilder) CollapseDimensions(collapse bool) *GlobalPoolingSpaceBuilder {
	return b.CollapseDimensionsSpace(param.NewFixed(collapse))
}

func (b *GlobalPoolingSpaceBuilder) CollapseDimensionsSpace(s param.ParameterSpace[bool]) *GlobalPoolingSpaceBuilder {
	b.s.collapseDimensions = s
	return b
}

func (b *GlobalPoolingSpaceBuilder) PoolingType(t layer.PoolingType) *GlobalPoolingSpaceBuilder {
	return b.PoolingTypeSpace(param.NewFixed(t))
}

func (b *GlobalPoolingSpaceBuilder) PoolingTypeSpace(s param.ParameterSpace[layer.PoolingType]) *GlobalPoolingSpaceBuilder {
	b.s.poolingType = s
	return b
}

func (b *GlobalPoolingSpaceBuilder) PNorm(p int) *GlobalPoolingSpaceBuilder {
	return b.PNormSpace(param.NewFixed(p))
}

func (b *GlobalPoolingSpaceBuilder) PNormSpace(s param.ParameterSpace[int]) *GlobalPoolingSpaceBuilder {
	b.s.pNorm = s
	return b
}

// Build returns a new space. The builder can be reused; spaces built from it
// share the sub-spaces set so far.
func (b *GlobalPoolingSpaceBuilder) Build() *GlobalPoolingSpace {
	retVal := b.s
	retVal.init()
	log.Debug().
		Str("layer", globalPoolingLabel).
		Str("name", retVal.Name).
		Int("numParameters", retVal.numParameters).
		Msg("built layer space")
	return &retVal
}
