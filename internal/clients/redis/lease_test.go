package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lore-backend/internal/platform/logger"
)

func exerciseLeaser(t *testing.T, l Leaser, key string) {
	t.Helper()
	ctx := context.Background()

	tok, ok, err := l.Acquire(ctx, key, time.Minute)
	if err != nil || !ok || tok == "" {
		t.Fatalf("Acquire: want ok got ok=%v tok=%q err=%v", ok, tok, err)
	}
	if _, ok, err := l.Acquire(ctx, key, time.Minute); err != nil || ok {
		t.Fatalf("Acquire while held: want ok=false got ok=%v err=%v", ok, err)
	}
	if err := l.Release(ctx, key, "someone-else"); err != nil {
		t.Fatalf("Release foreign token: %v", err)
	}
	if _, ok, _ := l.Acquire(ctx, key, time.Minute); ok {
		t.Fatalf("foreign release must not free the lease")
	}
	if err := l.Release(ctx, key, tok); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, ok, err := l.Acquire(ctx, key, time.Minute); err != nil || !ok {
		t.Fatalf("Acquire after release: want ok got ok=%v err=%v", ok, err)
	}
}

func TestMemoryLeaser(t *testing.T) {
	exerciseLeaser(t, NewMemoryLeaser(), "recap:user_1:2026-10-15")
}

func TestMemoryLeaserExpires(t *testing.T) {
	m := NewMemoryLeaser()
	now := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	if _, ok, _ := m.Acquire(context.Background(), "k", time.Minute); !ok {
		t.Fatalf("Acquire: want ok")
	}
	now = now.Add(2 * time.Minute)
	if _, ok, _ := m.Acquire(context.Background(), "k", time.Minute); !ok {
		t.Fatalf("Acquire after ttl: want ok")
	}
}

func TestRedisLeaser(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	log, _ := logger.New("test")
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	l := newRedisLeaser(log, rdb, "lore:test:lease:")
	t.Cleanup(func() { _ = l.Close() })

	key := "recap:" + time.Now().Format(time.RFC3339Nano)
	exerciseLeaser(t, l, key)
}
