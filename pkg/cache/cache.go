// Package cache provides the key-value caches used for calendar and quote lookups.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache operations interface.
// Values are stored as JSON; Get decodes into dest.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Key joins parts into a colon separated cache key.
func Key(parts ...interface{}) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, ":")
}

// GetOrLoad returns the cached value for key, calling load on a miss and
// storing its result. Cache failures never fail the call; only load errors do.
func GetOrLoad[T any](ctx context.Context, c Service, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, bool, error) {
	var v T
	if c != nil {
		if err := c.Get(ctx, key, &v); err == nil {
			return v, true, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, false, err
	}
	if c != nil && ttl > 0 {
		_ = c.Set(ctx, key, v, ttl)
	}
	return v, false, nil
}
