package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Redis struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedis(rdb *redis.Client, prefix string, limit int, window time.Duration) *Redis {
	return &Redis{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// Allow increments the key's counter and starts its expiry on the first hit
// of a window. INCR and EXPIRE NX run in one MULTI so a crash between them
// cannot leave a counter without a TTL.
func (r *Redis) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := r.prefix + key

	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, r.window)
	ttl := pipe.PTTL(ctx, k)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	if incr.Val() <= int64(r.limit) {
		return true, 0, nil
	}

	retry := ttl.Val()
	if retry < 0 {
		retry = r.window
	}
	return false, retry, nil
}
