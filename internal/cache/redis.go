package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/logging"
)

const defaultKeyPrefix = "edda:"

// RedisStore implements Store backed by Redis. Entries expire through
// native Redis TTLs. Connection state is tracked locally so the middleware
// can skip a dead backend without paying a network round trip.
type RedisStore struct {
	client    *redis.Client
	prefix    string
	connected atomic.Bool
	ownClient bool
}

// RedisStoreConfig holds configuration for the Redis store.
type RedisStoreConfig struct {
	Addr      string // Redis address (e.g. "localhost:6379")
	Password  string // Redis password
	DB        int    // Redis database number
	KeyPrefix string // Key prefix for namespacing (default: "edda:")
}

// NewRedisStore creates a Redis-backed store and probes it once. An
// unreachable server is not an error: the store starts disconnected and
// Run brings it back once a ping succeeds.
func NewRedisStore(ctx context.Context, cfg RedisStoreConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	s := NewRedisStoreFromClient(client, cfg.KeyPrefix)
	s.ownClient = true
	s.probe(ctx)
	return s
}

// NewRedisStoreFromClient wraps an existing client. The caller owns the
// client lifecycle and the store starts out connected.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	s := &RedisStore{
		client: client,
		prefix: prefix,
	}
	s.connected.Store(true)
	return s
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.markDown(err)
		return nil, err
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		s.markDown(err)
		return err
	}
	return nil
}

// Connected reports the last observed connection state.
func (s *RedisStore) Connected() bool {
	return s.connected.Load()
}

// Ping verifies connectivity and updates the connection state.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.probe(ctx)
}

// Run probes the server every interval until ctx is done, flipping the
// connection state on transitions.
func (s *RedisStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, interval)
			s.probe(pctx)
			cancel()
		}
	}
}

// Close releases the client if the store created it.
func (s *RedisStore) Close() error {
	if !s.ownClient {
		return nil
	}
	return s.client.Close()
}

func (s *RedisStore) probe(ctx context.Context) error {
	err := s.client.Ping(ctx).Err()
	was := s.connected.Swap(err == nil)
	switch {
	case err != nil && was:
		logging.Op().Warn("redis cache store unavailable", "error", err)
	case err == nil && !was:
		logging.Op().Info("redis cache store connected")
	}
	return err
}

// markDown flips the store to disconnected on transport failures. Context
// expiry on our side says nothing about the server, so it is ignored.
func (s *RedisStore) markDown(err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	if s.connected.Swap(false) {
		logging.Op().Warn("redis cache store marked down", "error", err)
	}
}
