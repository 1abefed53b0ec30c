package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping: %v", err)
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

func TestRedisStore_SetAndGet(t *testing.T) {
	s := NewRedisStoreFromClient(newTestRedisClient(t), "edda:test:")
	ctx := context.Background()

	if err := s.Set(ctx, "cache:/api/clientes:user:1", []byte(`[{"id":1}]`), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, err := s.Get(ctx, "cache:/api/clientes:user:1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != `[{"id":1}]` {
		t.Fatalf("unexpected value %q", val)
	}
}

func TestRedisStore_Miss(t *testing.T) {
	s := NewRedisStoreFromClient(newTestRedisClient(t), "edda:test:")
	if _, err := s.Get(context.Background(), "absent"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStore_TTLEnforcedByServer(t *testing.T) {
	client := newTestRedisClient(t)
	s := NewRedisStoreFromClient(client, "edda:test:")
	ctx := context.Background()

	if err := s.Set(ctx, "ttl", []byte(`{}`), 30*time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	ttl, err := client.TTL(ctx, "edda:test:ttl").Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl <= 0 || ttl > 30*time.Second {
		t.Fatalf("unexpected server ttl %v", ttl)
	}
}

func TestRedisStore_UnreachableStartsDisconnected(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Port 1 is reserved and never runs Redis.
	s := NewRedisStore(ctx, RedisStoreConfig{Addr: "127.0.0.1:1"})
	defer s.Close()

	if s.Connected() {
		t.Fatal("expected unreachable store to report disconnected")
	}
}

func TestRedisStore_InterfaceCompliance(t *testing.T) {
	var _ Store = (*RedisStore)(nil)
	var _ Store = (*MemoryStore)(nil)
}
