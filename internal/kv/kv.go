// Package kv defines the key-value store contract the content core is built
// on. The contract mirrors the subset of Redis commands the site uses: plain
// values with an optional TTL, lists addressed by inclusive (possibly
// negative) indices, prefix scans and existence checks.
//
// Backends live in sub-packages: memstore (in-process), redisstore (Redis)
// and sqlstore (PostgreSQL or SQLite). Missing keys are reported as
// common.ErrNotFound; every other backend failure wraps common.ErrStore.
package kv

import (
	"context"
	"time"
)

type Store interface {
	// Get returns the value stored at key or common.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value at key. A zero ttl means the key never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the given keys, values and lists alike. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// LPush prepends values to the list at key, one after another, so the
	// last value ends up at index 0.
	LPush(ctx context.Context, key string, values ...string) error
	// LRange returns the elements between start and stop inclusive.
	// Negative indices count from the end of the list.
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// LTrim keeps only the elements between start and stop inclusive.
	LTrim(ctx context.Context, key string, start, stop int64) error

	// Scan returns every live key starting with prefix, sorted.
	Scan(ctx context.Context, prefix string) ([]string, error)

	Ping(ctx context.Context) error
	Close() error
}

// ExpiredPurger is implemented by backends that do not evict expired keys on
// their own.
type ExpiredPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// NormalizeRange converts inclusive Redis-style indices into a half-open
// [lo, hi) window over a list of length n. ok is false when the window is
// empty.
func NormalizeRange(start, stop, n int64) (lo, hi int64, ok bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return 0, 0, false
	}
	return start, stop + 1, true
}
