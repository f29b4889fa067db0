package content

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/kv"
	"github.com/dmitrijs2005/yardcms/internal/kv/memstore"
	"github.com/dmitrijs2005/yardcms/internal/logging"
)

// stepClock returns a strictly increasing time on every call so snapshot
// timestamps never collide.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// peek returns the current time without stepping.
func (c *stepClock) peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

var errInjected = errors.New("injected failure")

// flakyStore fails writes to keys with the given prefix and counts every
// mutating call.
type flakyStore struct {
	kv.Store
	failSetPrefix string
	failPush      bool
	failGet       bool

	mu     sync.Mutex
	writes int
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errInjected
	}
	return f.Store.Get(ctx, key)
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	f.count()
	if f.failSetPrefix != "" && strings.HasPrefix(key, f.failSetPrefix) {
		return errInjected
	}
	return f.Store.Set(ctx, key, value, ttl)
}

func (f *flakyStore) LPush(ctx context.Context, key string, values ...string) error {
	f.count()
	if f.failPush {
		return errInjected
	}
	return f.Store.LPush(ctx, key, values...)
}

func (f *flakyStore) Delete(ctx context.Context, keys ...string) error {
	f.count()
	return f.Store.Delete(ctx, keys...)
}

func (f *flakyStore) LTrim(ctx context.Context, key string, start, stop int64) error {
	f.count()
	return f.Store.LTrim(ctx, key, start, stop)
}

func (f *flakyStore) count() {
	f.mu.Lock()
	f.writes++
	f.mu.Unlock()
}

func (f *flakyStore) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

type fixture struct {
	store   *memstore.Store
	clock   *stepClock
	repo    *Repository
	history *History
	svc     *Service
}

func newFixture(t *testing.T, opts ...ServiceOption) *fixture {
	t.Helper()
	clock := newStepClock()
	store := memstore.NewWithClock(clock.peek)
	repo := NewRepository(store)
	history := NewHistory(store, WithClock(clock.Now))
	return &fixture{
		store:   store,
		clock:   clock,
		repo:    repo,
		history: history,
		svc:     NewService(repo, history, logging.Nop{}, opts...),
	}
}

func page(title string) *PageContent {
	return &PageContent{Title: title}
}

func gallery(urls ...string) *[]GalleryImage {
	g := make([]GalleryImage, 0, len(urls))
	for _, u := range urls {
		g = append(g, GalleryImage{URL: u})
	}
	return &g
}

func update(title string, urls ...string) UpdateRequest {
	return UpdateRequest{PageContent: page(title), GalleryImages: gallery(urls...)}
}
