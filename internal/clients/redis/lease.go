package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/lore-backend/internal/platform/envutil"
	"github.com/yungbote/lore-backend/internal/platform/logger"
)

// Leaser hands out short exclusive claims on string keys.
type Leaser interface {
	// Acquire returns a token when the key was free; ok=false means someone else holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	// Release drops the lease only when token still owns it.
	Release(ctx context.Context, key, token string) error
	Close() error
}

var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLeaser struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

// NewLeaser connects to REDIS_ADDR. Callers treat a nil Leaser as "no leasing".
func NewLeaser(log *logger.Logger) (Leaser, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", ""),
		DB:          envutil.Int("REDIS_DB", 0),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisLeaser(log, rdb, envutil.String("REDIS_LEASE_PREFIX", "lore:lease:")), nil
}

func newRedisLeaser(log *logger.Logger, rdb *goredis.Client, prefix string) *redisLeaser {
	return &redisLeaser{
		log:    log.With("service", "RedisLeaser"),
		rdb:    rdb,
		prefix: prefix,
	}
}

func (l *redisLeaser) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.prefix+key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *redisLeaser) Release(ctx context.Context, key, token string) error {
	if token == "" {
		return nil
	}
	if err := releaseScript.Run(ctx, l.rdb, []string{l.prefix + key}, token).Err(); err != nil && err != goredis.Nil {
		return fmt.Errorf("redis release %s: %w", key, err)
	}
	return nil
}

func (l *redisLeaser) Close() error {
	return l.rdb.Close()
}

type memoryLease struct {
	token   string
	expires time.Time
}

// MemoryLeaser is an in-process Leaser for tests and single-worker setups.
type MemoryLeaser struct {
	mu     sync.Mutex
	now    func() time.Time
	leases map[string]memoryLease
}

func NewMemoryLeaser() *MemoryLeaser {
	return &MemoryLeaser{now: time.Now, leases: map[string]memoryLease{}}
}

func (m *MemoryLeaser) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if cur, ok := m.leases[key]; ok && now.Before(cur.expires) {
		return "", false, nil
	}
	token := uuid.NewString()
	m.leases[key] = memoryLease{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (m *MemoryLeaser) Release(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.leases[key]; ok && cur.token == token {
		delete(m.leases, key)
	}
	return nil
}

func (m *MemoryLeaser) Close() error { return nil }
