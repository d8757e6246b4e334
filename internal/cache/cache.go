package cache

import (
	"context"
	"time"
)

// Cache holds short-lived JSON snapshots of interview sessions so read
// paths skip Mongo. Writers invalidate with Del after every mutation; a
// miss is never an error.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
