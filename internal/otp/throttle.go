package otp

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisThrottle allows one code per key per cooldown window.
type RedisThrottle struct {
	rdb      *redis.Client
	cooldown time.Duration
}

func NewRedisThrottle(rdb *redis.Client, cooldown time.Duration) *RedisThrottle {
	return &RedisThrottle{rdb: rdb, cooldown: cooldown}
}

// Allow claims the window for key. It returns false while an earlier claim is live.
func (t *RedisThrottle) Allow(ctx context.Context, key string) (bool, error) {
	if t.cooldown <= 0 {
		return true, nil
	}
	return t.rdb.SetNX(ctx, "throttle:"+key, time.Now().Unix(), t.cooldown).Result()
}
