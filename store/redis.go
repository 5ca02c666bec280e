package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorgonia/arbiter"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const scanBatch = 100

// RedisStore keeps one string key per space under a common prefix.
type RedisStore struct {
	opts   *redis.Options
	prefix string
	ttl    time.Duration

	mu     sync.RWMutex
	client *redis.Client
}

func NewRedisStore(c Config) *RedisStore {
	return &RedisStore{
		opts: &redis.Options{
			Addr:         c.RedisAddr,
			Password:     c.RedisPassword,
			DB:           c.RedisDB,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		},
		prefix: c.KeyPrefix,
		ttl:    c.TTL,
	}
}

func (s *RedisStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return nil
	}
	if s.opts.Addr == "" {
		return errors.New("redis address is required")
	}
	if s.prefix == "" {
		return errors.New("redis key prefix is required")
	}

	client := redis.NewClient(s.opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return errors.Wrapf(err, "ping redis at %s", s.opts.Addr)
	}

	log.Debug().Str("addr", s.opts.Addr).Str("prefix", s.prefix).Msg("redis store ready")
	s.client = client
	return nil
}

func (s *RedisStore) SaveSpace(ctx context.Context, name string, space *arbiter.GlobalPoolingSpace) error {
	payload, err := encodeRecord(name, space)
	if err != nil {
		return err
	}
	client, err := s.getClient()
	if err != nil {
		return err
	}
	return errors.Wrapf(client.Set(ctx, s.key(name), payload, s.ttl).Err(), "save space %q", name)
}

func (s *RedisStore) GetSpace(ctx context.Context, name string) (*arbiter.GlobalPoolingSpace, bool, error) {
	if name == "" {
		return nil, false, ErrEmptyName
	}
	client, err := s.getClient()
	if err != nil {
		return nil, false, err
	}

	payload, err := client.Get(ctx, s.key(name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "get space %q", name)
	}

	space, err := decodeRecord(payload)
	if err != nil {
		return nil, false, err
	}
	return space, true, nil
}

func (s *RedisStore) ListSpaces(ctx context.Context) ([]string, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	names := []string{}
	iter := client.Scan(ctx, 0, escapeGlob(s.prefix)+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "scan spaces")
	}
	sort.Strings(names)
	return names, nil
}

func (s *RedisStore) DeleteSpace(ctx context.Context, name string) error {
	if name == "" {
		return ErrEmptyName
	}
	client, err := s.getClient()
	if err != nil {
		return err
	}
	return errors.Wrapf(client.Del(ctx, s.key(name)).Err(), "delete space %q", name)
}

func (s *RedisStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

func (s *RedisStore) key(name string) string { return s.prefix + name }

func (s *RedisStore) getClient() (*redis.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.client == nil {
		return nil, ErrNotInitialized
	}
	return s.client, nil
}

// escapeGlob quotes the characters redis treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
