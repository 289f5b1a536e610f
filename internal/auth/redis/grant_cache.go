package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/facility-management/internal/auth"
	goredis "github.com/go-redis/redis/v8"
)

const keyPrefix = "facility:grants:"

// GrantCache stores each user's explicit grants as a JSON array with a TTL.
type GrantCache struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

func NewGrantCache(client goredis.UniversalClient, ttl time.Duration) *GrantCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &GrantCache{client: client, ttl: ttl}
}

func key(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

func (c *GrantCache) Get(ctx context.Context, userID int64) ([]auth.Code, bool, error) {
	raw, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var codes []auth.Code
	if err := json.Unmarshal(raw, &codes); err != nil {
		return nil, false, fmt.Errorf("decode cached grants: %w", err)
	}
	return codes, true, nil
}

func (c *GrantCache) Set(ctx context.Context, userID int64, codes []auth.Code) error {
	if codes == nil {
		codes = []auth.Code{}
	}
	raw, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(userID), raw, c.ttl).Err()
}

func (c *GrantCache) Invalidate(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, key(userID)).Err()
}

// NewClient opens a go-redis client and verifies connectivity.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}
