// Package redis keeps the logout revocation list in Redis so that several
// site instances agree on which sessions have ended.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "booking:revoked:"

type Revocations struct {
	rdb goredis.UniversalClient
}

func NewRevocations(rdb goredis.UniversalClient) *Revocations {
	return &Revocations{rdb: rdb}
}

// Dial connects and pings addr.
func Dial(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (r *Revocations) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	if ttl < time.Second {
		ttl = time.Second
	}
	if err := r.rdb.Set(ctx, keyPrefix+id, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke: %w", err)
	}
	return nil
}

func (r *Revocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.rdb.Exists(ctx, keyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("redis lookup: %w", err)
	}
	return n > 0, nil
}
