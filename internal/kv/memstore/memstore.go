// Package memstore is an in-process kv.Store used for development runs and
// tests. Keys share one namespace, as in Redis: a key holds either a value
// or a list.
package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/dmitrijs2005/yardcms/internal/kv"
)

type item struct {
	value   []byte
	list    []string
	isList  bool
	expires time.Time
}

func (it *item) expired(now time.Time) bool {
	return !it.expires.IsZero() && !now.Before(it.expires)
}

type Store struct {
	mu    sync.Mutex
	items map[string]*item
	now   func() time.Time
}

var _ kv.Store = (*Store)(nil)

func New() *Store {
	return &Store{items: make(map[string]*item), now: time.Now}
}

// NewWithClock returns a Store that reads the current time from now, so TTL
// behaviour can be tested without sleeping.
func NewWithClock(now func() time.Time) *Store {
	s := New()
	s.now = now
	return s
}

// lookup returns the live item at key, dropping it if it has expired.
// The caller must hold s.mu.
func (s *Store) lookup(key string) (*item, bool) {
	it, ok := s.items[key]
	if !ok {
		return nil, false
	}
	if it.expired(s.now()) {
		delete(s.items, key)
		return nil, false
	}
	return it, true
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.lookup(key)
	if !ok || it.isList {
		return nil, common.ErrNotFound
	}
	return slices.Clone(it.value), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := &item{value: slices.Clone(value)}
	if ttl > 0 {
		it.expires = s.now().Add(ttl)
	}
	s.items[key] = it
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.lookup(key)
	return ok, nil
}

func (s *Store) LPush(ctx context.Context, key string, values ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.lookup(key)
	if !ok || !it.isList {
		it = &item{isList: true}
		s.items[key] = it
	}
	for _, v := range values {
		it.list = slices.Insert(it.list, 0, v)
	}
	return nil
}

func (s *Store) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.lookup(key)
	if !ok || !it.isList {
		return []string{}, nil
	}
	lo, hi, ok := kv.NormalizeRange(start, stop, int64(len(it.list)))
	if !ok {
		return []string{}, nil
	}
	return slices.Clone(it.list[lo:hi]), nil
}

func (s *Store) LTrim(ctx context.Context, key string, start, stop int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.lookup(key)
	if !ok || !it.isList {
		return nil
	}
	lo, hi, ok := kv.NormalizeRange(start, stop, int64(len(it.list)))
	if !ok {
		delete(s.items, key)
		return nil
	}
	it.list = slices.Clone(it.list[lo:hi])
	return nil
}

func (s *Store) Scan(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0)
	for k := range s.items {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if _, ok := s.lookup(k); ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }
