package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
	"github.com/kinfolkhq/kinfolk-backend/internal/platform/logger"
)

// Pool is the durable, TTL-bound, per-category inventory of unconsumed
// content. Take must be atomic: no two concurrent callers may receive the
// same entry.
type Pool interface {
	Insert(ctx context.Context, category types.ContentCategory, items []string) error
	Take(ctx context.Context, category types.ContentCategory) (string, bool)
	Size(ctx context.Context, category types.ContentCategory) int
}

// RedisPool backs a Pool with one Redis list per category. Take is a single
// LPOP, which is what makes concurrent issuance safe; Insert refreshes the
// partition TTL. Store outages degrade to empty/zero so the engine falls
// through to its next tier instead of failing the caller.
type RedisPool struct {
	log   *logger.Logger
	rdb   *goredis.Client
	class types.ContentClass
	ttl   time.Duration
}

func NewRedisPool(baseLog *logger.Logger, rdb *goredis.Client, class types.ContentClass, ttl time.Duration) *RedisPool {
	return &RedisPool{
		log:   baseLog.With("service", "RedisPool", "class", string(class)),
		rdb:   rdb,
		class: class,
		ttl:   ttl,
	}
}

func (p *RedisPool) key(category types.ContentCategory) string {
	return fmt.Sprintf("content:pool:%s:%s", p.class, category)
}

func (p *RedisPool) Insert(ctx context.Context, category types.ContentCategory, items []string) error {
	if len(items) == 0 {
		return nil
	}
	vals := make([]interface{}, len(items))
	for i, it := range items {
		vals[i] = it
	}

	key := p.key(category)
	pipe := p.rdb.TxPipeline()
	pipe.RPush(ctx, key, vals...)
	pipe.Expire(ctx, key, p.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pool insert %s: %w", key, err)
	}
	return nil
}

func (p *RedisPool) Take(ctx context.Context, category types.ContentCategory) (string, bool) {
	val, err := p.rdb.LPop(ctx, p.key(category)).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			p.log.Warn("pool take degraded to empty", "category", string(category), "error", err)
		}
		return "", false
	}
	return val, true
}

func (p *RedisPool) Size(ctx context.Context, category types.ContentCategory) int {
	n, err := p.rdb.LLen(ctx, p.key(category)).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			p.log.Warn("pool size degraded to zero", "category", string(category), "error", err)
		}
		return 0
	}
	return int(n)
}
