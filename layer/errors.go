package layer

import "github.com/pkg/errors"

var (
	ErrUnknownPoolingType = errors.New("unknown pooling type")
	ErrInvalidPNorm       = errors.New("p-norm must be at least 1")
	ErrInvalidDimensions  = errors.New("invalid pooling dimensions")
	ErrInvalidDropout     = errors.New("dropout must be in [0, 1)")

	// ErrUnsupportedPooling is returned when pooling is applied with a type
	// that has no reduction, such as NONE.
	ErrUnsupportedPooling = errors.New("unsupported pooling type")
)
