package param

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnsupported is returned when an operation does not apply to a space,
	// such as assigning indices to a composite.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrNoIndex is returned when a leaf is resolved before it was given indices.
	ErrNoIndex = errors.New("parameter space index has not been set")

	// ErrIndexOutOfRange is returned when the sample vector is too short for a leaf.
	ErrIndexOutOfRange = errors.New("sample index out of range")

	// ErrValueOutOfRange is returned when a sampled value is not in [0, 1].
	ErrValueOutOfRange = errors.New("sample value out of range [0, 1]")

	ErrIndexCount    = errors.New("wrong number of indices")
	ErrNegativeIndex = errors.New("negative index")

	// ErrUnknownSpace is returned when decoding a space with an unrecognised type.
	ErrUnknownSpace = errors.New("unknown parameter space type")

	// ErrTypeMismatch is returned when a decoded space does not produce the requested type.
	ErrTypeMismatch = errors.New("parameter space type mismatch")
)

// IndexError reports a sample vector that is too short for the index a leaf
// was bound to. It matches ErrIndexOutOfRange under errors.Is.
type IndexError struct {
	Index int
	Len   int
}

func (err *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for sample vector of length %d", err.Index, err.Len)
}

func (err *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }
