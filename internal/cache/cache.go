package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/creser-psicologia/creser-api/internal/config"
)

// Cache wraps the optional redis backend used for token revocation and the
// contact-form throttle. A nil *Cache is valid and disables both.
type Cache struct {
	rdb *redis.Client
}

func New(cfg *config.Config) *Cache {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, token revocation and throttling disabled")
		return nil
	}

	return &Cache{rdb: rdb}
}

// RevokeToken denylists a bearer token until its natural expiry.
func (c *Cache) RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, "revoked:"+token, "1", ttl).Err()
}

func (c *Cache) IsTokenRevoked(ctx context.Context, token string) bool {
	if c == nil {
		return false
	}
	n, err := c.rdb.Exists(ctx, "revoked:"+token).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// AllowContact rate-limits public contact submissions per client IP.
func (c *Cache) AllowContact(ctx context.Context, ip string, limit int, window time.Duration) bool {
	if c == nil {
		return true
	}

	key := "contact:" + ip
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if n == 1 {
		c.rdb.Expire(ctx, key, window)
	}
	return n <= int64(limit)
}
