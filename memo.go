package arbiter

import (
	"encoding/binary"
	"math"

	"github.com/gorgonia/arbiter/param"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Memo remembers the most recent resolutions of a space. Search strategies
// such as grid search revisit the same sample vector; resolving it again is
// skipped.
//
// Resolved values are shared between callers, so T must not be mutated after
// resolution. layer configurations satisfy this.
type Memo[T any] struct {
	param.ParameterSpace[T]
	cache *lru.Cache[string, T]
}

// NewMemo wraps space with a cache holding up to size resolutions.
func NewMemo[T any](space param.ParameterSpace[T], size int) (*Memo[T], error) {
	if space == nil {
		return nil, errors.New("nil parameter space")
	}
	cache, err := lru.NewWithEvict[string, T](size, func(key string, _ T) {
		log.Debug().Int("vectorLen", len(key)/8).Msg("memo evicted resolution")
	})
	if err != nil {
		return nil, errors.Wrap(err, "create memo cache")
	}
	return &Memo[T]{ParameterSpace: space, cache: cache}, nil
}

// Value resolves values, consulting the cache first. Failed resolutions are
// not cached.
func (m *Memo[T]) Value(values []float64) (T, error) {
	key := vectorKey(values)
	if v, ok := m.cache.Get(key); ok {
		memoHits.Inc()
		return v, nil
	}
	memoMisses.Inc()

	v, err := m.ParameterSpace.Value(values)
	if err != nil {
		return v, err
	}
	m.cache.Add(key, v)
	return v, nil
}

// Len returns the number of cached resolutions.
func (m *Memo[T]) Len() int { return m.cache.Len() }

// vectorKey encodes the exact bit pattern of a sample vector.
func vectorKey(values []float64) string {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	return string(buf)
}
