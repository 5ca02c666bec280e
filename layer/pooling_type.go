package layer

import (
	"strings"

	"github.com/pkg/errors"
)

// PoolingType is the reduction a pooling layer applies.
type PoolingType int

const (
	Sum PoolingType = iota
	Avg
	Max
	PNorm
	None
	MAXPOOLINGTYPE
)

var poolingTypeNames = [...]string{"SUM", "AVG", "MAX", "PNORM", "NONE"}

func (p PoolingType) String() string {
	if !p.IsValid() {
		return "UNKNOWN"
	}
	return poolingTypeNames[p]
}

func (p PoolingType) IsValid() bool { return p >= Sum && p < MAXPOOLINGTYPE }

// ParsePoolingType accepts the names SUM, AVG, MAX, PNORM and NONE in any case.
func ParsePoolingType(s string) (PoolingType, error) {
	for i, name := range poolingTypeNames {
		if strings.EqualFold(s, name) {
			return PoolingType(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownPoolingType, "%q", s)
}

func (p PoolingType) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, errors.Wrapf(ErrUnknownPoolingType, "%d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *PoolingType) UnmarshalText(text []byte) error {
	v, err := ParsePoolingType(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
