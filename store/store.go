// Package store persists named space definitions.
//
// Definitions are stored as versioned JSON records, so any backend can read
// what another wrote. Trials and their scores are not stored here.
package store

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gorgonia/arbiter"
	"github.com/pkg/errors"
)

var (
	ErrEmptyName       = errors.New("space name is empty")
	ErrNotInitialized  = errors.New("store is not initialized")
	ErrVersionMismatch = errors.New("record version mismatch")
)

// Store keeps space definitions by name. Saving under an existing name
// replaces the definition.
type Store interface {
	Init(ctx context.Context) error
	SaveSpace(ctx context.Context, name string, s *arbiter.GlobalPoolingSpace) error
	GetSpace(ctx context.Context, name string) (*arbiter.GlobalPoolingSpace, bool, error)
	ListSpaces(ctx context.Context) ([]string, error)
	DeleteSpace(ctx context.Context, name string) error
}

const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
	KindRedis  = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Kind       string
	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
	TTL           time.Duration // zero keeps redis keys forever
}

func DefaultConfig() Config {
	return Config{
		Kind:       KindMemory,
		SQLitePath: "arbiter.db",
		RedisAddr:  "localhost:6379",
		KeyPrefix:  "arbiter:space:",
	}
}

// IsValid reports whether the config names a known backend with the settings
// that backend needs. Redis needs a key prefix, as listing scans every key
// under it.
func (c Config) IsValid() bool {
	switch c.Kind {
	case "", KindMemory:
		return true
	case KindSQLite:
		return c.SQLitePath != ""
	case KindRedis:
		return c.RedisAddr != "" && c.KeyPrefix != "" && c.RedisDB >= 0 && c.TTL >= 0
	}
	return false
}

// ConfigFromEnv overrides c with ARBITER_STORE, ARBITER_DB, ARBITER_REDIS_ADDR
// and ARBITER_REDIS_DB where they are set.
func ConfigFromEnv(c Config) (Config, error) {
	if v := os.Getenv("ARBITER_STORE"); v != "" {
		c.Kind = v
	}
	if v := os.Getenv("ARBITER_DB"); v != "" {
		c.SQLitePath = v
	}
	if v := os.Getenv("ARBITER_REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("ARBITER_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return c, errors.Wrap(err, "parse ARBITER_REDIS_DB")
		}
		c.RedisDB = db
	}
	return c, nil
}
