package redisdb

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const opTimeout = 3 * time.Second

// Cache adapts a go-redis client to the key/value contract the services
// consume. GETDEL and GETEX keep token redemption and session renewal
// atomic in a single round trip.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

func (c *Cache) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// GetAndExtendTTL fetches the value and pushes its expiry out to ttl in
// one atomic GETEX. A miss is ("", false, nil).
func (c *Cache) GetAndExtendTTL(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	v, err := c.rdb.GetEx(ctx, key, ttl).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// GetAndDelete consumes the value atomically via GETDEL, so two concurrent
// callers can never both receive it.
func (c *Cache) GetAndDelete(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	v, err := c.rdb.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return c.rdb.Del(ctx, key).Err()
}
