// Package kvtest holds the behavioural test suite every kv.Store backend
// must pass.
package kvtest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/dmitrijs2005/yardcms/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Harness creates a fresh, empty store for every sub-test. Advance moves the
// store's clock forward; it is used for TTL checks.
type Harness struct {
	New     func(t *testing.T) kv.Store
	Advance func(t *testing.T, d time.Duration)
}

func Run(t *testing.T, h Harness) {
	t.Run("get missing", func(t *testing.T) {
		s := h.New(t)
		_, err := s.Get(context.Background(), "pageContent")
		require.True(t, errors.Is(err, common.ErrNotFound), "got %v", err)
	})

	t.Run("set get overwrite", func(t *testing.T) {
		s := h.New(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "pageContent", []byte(`{"title":"A"}`), 0))
		require.NoError(t, s.Set(ctx, "pageContent", []byte(`{"title":"B"}`), 0))

		got, err := s.Get(ctx, "pageContent")
		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"B"}`, string(got))
	})

	t.Run("ttl expiry", func(t *testing.T) {
		s := h.New(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "history:x", []byte(`{}`), time.Hour))
		ok, err := s.Exists(ctx, "history:x")
		require.NoError(t, err)
		assert.True(t, ok)

		h.Advance(t, 2*time.Hour)

		_, err = s.Get(ctx, "history:x")
		assert.True(t, errors.Is(err, common.ErrNotFound), "got %v", err)
		ok, err = s.Exists(ctx, "history:x")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete values and lists", func(t *testing.T) {
		s := h.New(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "a", []byte("1"), 0))
		require.NoError(t, s.LPush(ctx, "l", "x"))
		require.NoError(t, s.Delete(ctx, "a", "l", "missing"))

		for _, k := range []string{"a", "l"} {
			ok, err := s.Exists(ctx, k)
			require.NoError(t, err)
			assert.False(t, ok, k)
		}
	})

	t.Run("lpush order and lrange", func(t *testing.T) {
		s := h.New(t)
		ctx := context.Background()

		require.NoError(t, s.LPush(ctx, "content_history", "history:1"))
		require.NoError(t, s.LPush(ctx, "content_history", "history:2"))
		require.NoError(t, s.LPush(ctx, "content_history", "history:3", "history:4"))

		got, err := s.LRange(ctx, "content_history", 0, -1)
		require.NoError(t, err)
		assert.Equal(t, []string{"history:4", "history:3", "history:2", "history:1"}, got)

		got, err = s.LRange(ctx, "content_history", 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"history:3", "history:2"}, got)

		got, err = s.LRange(ctx, "content_history", 10, -1)
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = s.LRange(ctx, "missing", 0, -1)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("concurrent lpush keeps every value", func(t *testing.T) {
		s := h.New(t)
		ctx := context.Background()
		const writers = 20

		var g errgroup.Group
		want := make([]string, 0, writers)
		for i := range writers {
			v := fmt.Sprintf("history:%02d", i)
			want = append(want, v)
			g.Go(func() error {
				if err := s.LPush(ctx, "content_history", v); err != nil {
					return err
				}
				return s.LTrim(ctx, "content_history", 0, writers-1)
			})
		}
		require.NoError(t, g.Wait())

		got, err := s.LRange(ctx, "content_history", 0, -1)
		require.NoError(t, err)
		sort.Strings(got)
		assert.Equal(t, want, got)
	})

	t.Run("ltrim keeps head", func(t *testing.T) {
		s := h.New(t)
		ctx := context.Background()

		for _, v := range []string{"a", "b", "c", "d", "e"} {
			require.NoError(t, s.LPush(ctx, "l", v))
		}
		require.NoError(t, s.LTrim(ctx, "l", 0, 2))

		got, err := s.LRange(ctx, "l", 0, -1)
		require.NoError(t, err)
		assert.Equal(t, []string{"e", "d", "c"}, got)

		require.NoError(t, s.LPush(ctx, "l", "f"))
		got, err = s.LRange(ctx, "l", 0, -1)
		require.NoError(t, err)
		assert.Equal(t, []string{"f", "e", "d", "c"}, got)

		require.NoError(t, s.LTrim(ctx, "missing", 0, 9))
	})

	t.Run("scan by prefix", func(t *testing.T) {
		s := h.New(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "history:2024-01-02T00:00:00.000Z", []byte("{}"), 0))
		require.NoError(t, s.Set(ctx, "history:2024-01-01T00:00:00.000Z", []byte("{}"), 0))
		require.NoError(t, s.Set(ctx, "pageContent", []byte("{}"), 0))
		require.NoError(t, s.LPush(ctx, "content_history", "history:2024-01-01T00:00:00.000Z"))

		got, err := s.Scan(ctx, "history:")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"history:2024-01-01T00:00:00.000Z",
			"history:2024-01-02T00:00:00.000Z",
		}, got)

		got, err = s.Scan(ctx, "nothing:")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ping", func(t *testing.T) {
		s := h.New(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}
