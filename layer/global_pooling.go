// Package layer holds concrete layer configurations produced by resolving a
// layer space.
package layer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/pkg/errors"
)

// GlobalPooling configures a layer that pools over whole dimensions of its
// input, such as the time axis of a sequence or the spatial axes of an image.
//
// A GlobalPooling is immutable once built. The zero value is not valid; use
// a GlobalPoolingBuilder.
type GlobalPooling struct {
	name               string
	dropout            float64
	poolingType        PoolingType
	poolingDimensions  []int // nil: inferred from the input rank
	collapseDimensions bool
	pnorm              int
}

// DefaultGlobalPooling returns the configuration a builder starts from:
// MAX pooling over the inferred dimensions, collapsed, with a p-norm of 2.
func DefaultGlobalPooling() GlobalPooling {
	return GlobalPooling{
		poolingType:        Max,
		collapseDimensions: true,
		pnorm:              2,
	}
}

func (l GlobalPooling) Name() string             { return l.name }
func (l GlobalPooling) Dropout() float64         { return l.dropout }
func (l GlobalPooling) PoolingType() PoolingType { return l.poolingType }
func (l GlobalPooling) CollapseDimensions() bool { return l.collapseDimensions }
func (l GlobalPooling) PNorm() int               { return l.pnorm }

// PoolingDimensions returns a copy of the configured dimensions, or nil when
// they are inferred from the input.
func (l GlobalPooling) PoolingDimensions() []int {
	if l.poolingDimensions == nil {
		return nil
	}
	return slices.Clone(l.poolingDimensions)
}

// Equal reports whether two configurations are identical.
func (l GlobalPooling) Equal(other GlobalPooling) bool {
	return l.name == other.name &&
		l.dropout == other.dropout &&
		l.poolingType == other.poolingType &&
		slices.Equal(l.poolingDimensions, other.poolingDimensions) &&
		l.collapseDimensions == other.collapseDimensions &&
		l.pnorm == other.pnorm
}

func (l GlobalPooling) String() string {
	var buf bytes.Buffer
	buf.WriteString("GlobalPooling(")
	if l.name != "" {
		fmt.Fprintf(&buf, "%q, ", l.name)
	}
	fmt.Fprintf(&buf, "%v, dims=%v, collapse=%t, pnorm=%d", l.poolingType, l.poolingDimensions, l.collapseDimensions, l.pnorm)
	if l.dropout > 0 {
		fmt.Fprintf(&buf, ", dropout=%v", l.dropout)
	}
	buf.WriteByte(')')
	return buf.String()
}

// dimsFor returns the dimensions pooled for an input of the given rank.
// Without explicit dimensions, sequences (rank 3) pool over time, images
// (rank 4) over height and width and volumes (rank 5) over depth, height and
// width.
func (l GlobalPooling) dimsFor(rank int) ([]int, error) {
	if l.poolingDimensions == nil {
		switch rank {
		case 3:
			return []int{2}, nil
		case 4:
			return []int{2, 3}, nil
		case 5:
			return []int{2, 3, 4}, nil
		}
		return nil, errors.Wrapf(ErrInvalidDimensions, "cannot infer pooling dimensions for rank %d input", rank)
	}
	for _, d := range l.poolingDimensions {
		if d >= rank {
			return nil, errors.Wrapf(ErrInvalidDimensions, "dimension %d out of range for rank %d input", d, rank)
		}
	}
	return l.poolingDimensions, nil
}

// OutputShape returns the shape produced for an input of shape in. Pooled
// dimensions are removed when collapsing and kept with size 1 otherwise.
func (l GlobalPooling) OutputShape(in []int) ([]int, error) {
	dims, err := l.dimsFor(len(in))
	if err != nil {
		return nil, err
	}
	retVal := make([]int, 0, len(in))
	for i, size := range in {
		if !slices.Contains(dims, i) {
			retVal = append(retVal, size)
			continue
		}
		if !l.collapseDimensions {
			retVal = append(retVal, 1)
		}
	}
	return retVal, nil
}

type globalPoolingJSON struct {
	Name               string      `json:"name,omitempty"`
	Dropout            float64     `json:"dropout,omitempty"`
	PoolingType        PoolingType `json:"poolingType"`
	PoolingDimensions  []int       `json:"poolingDimensions,omitempty"`
	CollapseDimensions bool        `json:"collapseDimensions"`
	PNorm              int         `json:"pnorm"`
}

func (l GlobalPooling) MarshalJSON() ([]byte, error) {
	return json.Marshal(globalPoolingJSON{
		Name:               l.name,
		Dropout:            l.dropout,
		PoolingType:        l.poolingType,
		PoolingDimensions:  l.poolingDimensions,
		CollapseDimensions: l.collapseDimensions,
		PNorm:              l.pnorm,
	})
}

// UnmarshalJSON validates the decoded configuration the same way Build does.
// Missing fields take their default values.
func (l *GlobalPooling) UnmarshalJSON(data []byte) error {
	def := DefaultGlobalPooling()
	w := globalPoolingJSON{
		PoolingType:        def.poolingType,
		CollapseDimensions: def.collapseDimensions,
		PNorm:              def.pnorm,
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(err, "unmarshal global pooling layer")
	}
	b := NewGlobalPoolingBuilder().
		Name(w.Name).
		Dropout(w.Dropout).
		PoolingType(w.PoolingType).
		CollapseDimensions(w.CollapseDimensions).
		PNorm(w.PNorm)
	if w.PoolingDimensions != nil {
		b.PoolingDimensions(w.PoolingDimensions...)
	}
	built, err := b.Build()
	if err != nil {
		return err
	}
	*l = built
	return nil
}

// GlobalPoolingBuilder assembles a GlobalPooling. The first invalid argument
// is remembered and reported by Build; later calls are ignored.
type GlobalPoolingBuilder struct {
	l   GlobalPooling
	err error
}

// NewGlobalPoolingBuilder returns a builder seeded with DefaultGlobalPooling.
func NewGlobalPoolingBuilder() *GlobalPoolingBuilder {
	return &GlobalPoolingBuilder{l: DefaultGlobalPooling()}
}

func (b *GlobalPoolingBuilder) Name(name string) *GlobalPoolingBuilder {
	if b.err == nil {
		b.l.name = name
	}
	return b
}

// Dropout sets the probability of dropping an input activation. 0 disables dropout.
func (b *GlobalPoolingBuilder) Dropout(p float64) *GlobalPoolingBuilder {
	if b.err != nil {
		return b
	}
	if math.IsNaN(p) || p < 0 || p >= 1 {
		b.err = errors.Wrapf(ErrInvalidDropout, "got %v", p)
		return b
	}
	b.l.dropout = p
	return b
}

func (b *GlobalPoolingBuilder) PoolingType(t PoolingType) *GlobalPoolingBuilder {
	if b.err != nil {
		return b
	}
	if !t.IsValid() {
		b.err = errors.Wrapf(ErrUnknownPoolingType, "%d", int(t))
		return b
	}
	b.l.poolingType = t
	return b
}

// PoolingDimensions sets the dimensions to pool over. Dimensions must be
// non-negative and distinct. Calling it with no arguments restores inference
// from the input rank.
func (b *GlobalPoolingBuilder) PoolingDimensions(dims ...int) *GlobalPoolingBuilder {
	if b.err != nil {
		return b
	}
	if len(dims) == 0 {
		b.l.poolingDimensions = nil
		return b
	}
	for i, d := range dims {
		if d < 0 {
			b.err = errors.Wrapf(ErrInvalidDimensions, "negative dimension %d", d)
			return b
		}
		if slices.Contains(dims[:i], d) {
			b.err = errors.Wrapf(ErrInvalidDimensions, "duplicate dimension %d", d)
			return b
		}
	}
	b.l.poolingDimensions = slices.Clone(dims)
	return b
}

func (b *GlobalPoolingBuilder) CollapseDimensions(collapse bool) *GlobalPoolingBuilder {
	if b.err == nil {
		b.l.collapseDimensions = collapse
	}
	return b
}

func (b *GlobalPoolingBuilder) PNorm(p int) *GlobalPoolingBuilder {
	if b.err != nil {
		return b
	}
	if p < 1 {
		b.err = errors.Wrapf(ErrInvalidPNorm, "got %d", p)
		return b
	}
	b.l.pnorm = p
	return b
}

// Build returns the configuration, or the first error recorded.
func (b *GlobalPoolingBuilder) Build() (GlobalPooling, error) {
	if b.err != nil {
		return GlobalPooling{}, b.err
	}
	retVal := b.l
	retVal.poolingDimensions = slices.Clone(b.l.poolingDimensions)
	return retVal, nil
}
