package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// GetJSON loads key into dest. Returns false on miss, unreachable Redis, or
// a corrupt entry (which it deletes so the next read repopulates).
func GetJSON(ctx context.Context, key string, dest any) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		client.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores value under key with a TTL. Failures are swallowed; the
// cache is an accelerator, not a source of truth.
func SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Aside implements the cache-aside pattern: try the cache, fall back to
// load (which fills dest), then populate the cache on the way out. Load
// errors are returned unchanged and never cached.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	if GetJSON(ctx, key, dest) {
		return nil
	}
	if err := load(); err != nil {
		return err
	}
	SetJSON(ctx, key, dest, ttl)
	return nil
}

// Healthy reports whether Redis is reachable. Used by the readiness probe.
func Healthy(ctx context.Context) error {
	if client == nil {
		return errors.New("redis not configured")
	}
	return client.Ping(ctx).Err()
}
