// Package redisstore implements kv.Store on top of Redis (or any server
// speaking the Redis protocol, such as Upstash or Valkey).
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/dmitrijs2005/yardcms/internal/kv"
	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint passed to SCAN.
const scanBatch = 100

type Options struct {
	Addr     string
	Password string
	DB       int
	// Timeout bounds dialing and every read/write on the connection.
	Timeout time.Duration
}

type Store struct {
	rdb redis.UniversalClient
}

var _ kv.Store = (*Store)(nil)

// New connects to Redis. The connection is verified lazily; call Ping to
// fail fast.
func New(opts Options) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.Timeout,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
	})
	return &Store{rdb: rdb}
}

// NewFromClient wraps an existing client.
func NewFromClient(rdb redis.UniversalClient) *Store {
	return &Store{rdb: rdb}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("redis %s: %w: %w", op, common.ErrStore, err)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, storeErr("get", err)
	}
	return b, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return storeErr("set", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return storeErr("del", err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, storeErr("exists", err)
	}
	return n > 0, nil
}

func (s *Store) LPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	if err := s.rdb.LPush(ctx, key, args...).Err(); err != nil {
		return storeErr("lpush", err)
	}
	return nil
}

func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	vals, err := s.rdb.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, storeErr("lrange", err)
	}
	return vals, nil
}

func (s *Store) LTrim(ctx context.Context, key string, start, stop int64) error {
	if err := s.rdb.LTrim(ctx, key, start, stop).Err(); err != nil {
		return storeErr("ltrim", err)
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	iter := s.rdb.Scan(ctx, 0, escapeGlob(prefix)+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, storeErr("scan", err)
	}
	// SCAN may return a key more than once.
	slices.Sort(keys)
	return slices.Compact(keys), nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globReplacer.Replace(s)
}
