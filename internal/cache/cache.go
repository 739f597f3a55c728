// Package cache is the JSON key-value layer backing short-lived state,
// currently the CV profile tokens. Values disappear on TTL; callers must
// treat a miss and an expired entry the same way.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// GetJSON reports hit=false for both missing and expired keys.
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
