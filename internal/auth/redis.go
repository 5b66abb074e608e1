package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDenylist backs session revocation with Redis. Entries carry a TTL
// so the denylist never outgrows the set of still-live sessions.
type RedisDenylist struct {
    redis *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
    return &RedisDenylist{redis: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
    return d.redis.Set(ctx, "session:revoked:"+jti, "1", ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
    n, err := d.redis.Exists(ctx, "session:revoked:"+jti).Result()
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// RedisConsumedStore tracks used verification tokens.
type RedisConsumedStore struct {
    redis *redis.Client
}

func NewRedisConsumedStore(client *redis.Client) *RedisConsumedStore {
    return &RedisConsumedStore{redis: client}
}

func (s *RedisConsumedStore) MarkConsumed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
    return s.redis.SetNX(ctx, "token:consumed:"+key, "1", ttl).Result()
}
