package store

import "github.com/pkg/errors"

// NewStore returns an uninitialized store for c. Call Init before use.
func NewStore(c Config) (Store, error) {
	if !c.IsValid() {
		return nil, errors.Errorf("invalid config for %q store", c.Kind)
	}
	switch c.Kind {
	case "", KindMemory:
		return NewMemoryStore(), nil
	case KindSQLite:
		return NewSQLiteStore(c.SQLitePath), nil
	case KindRedis:
		return NewRedisStore(c), nil
	}
	return nil, errors.Errorf("unsupported store backend: %s", c.Kind)
}

// CloseIfSupported closes stores holding connections.
func CloseIfSupported(s Store) error {
	closer, ok := s.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
