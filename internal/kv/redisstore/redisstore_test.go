package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/dmitrijs2005/yardcms/internal/kv"
	"github.com/dmitrijs2005/yardcms/internal/kv/kvtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := New(Options{Addr: mr.Addr(), Timeout: time.Second})
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestStore_Contract(t *testing.T) {
	var mr *miniredis.Miniredis
	kvtest.Run(t, kvtest.Harness{
		New: func(t *testing.T) kv.Store {
			var s *Store
			s, mr = newTestStore(t)
			return s
		},
		Advance: func(t *testing.T, d time.Duration) { mr.FastForward(d) },
	})
}

func TestStore_SetWritesTTL(t *testing.T) {
	s, mr := newTestStore(t)

	require.NoError(t, s.Set(context.Background(), "history:x", []byte("{}"), 30*24*time.Hour))

	assert.Equal(t, 30*24*time.Hour, mr.TTL("history:x"))
}

func TestStore_ServerDown(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()

	_, err := s.Get(context.Background(), "pageContent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrStore), "got %v", err)
	assert.False(t, errors.Is(err, common.ErrNotFound))

	assert.True(t, errors.Is(s.Ping(context.Background()), common.ErrStore))
}

func TestStore_ScanEscapesGlob(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a*b:1", []byte("1"), 0))
	require.NoError(t, s.Set(ctx, "axb:2", []byte("2"), 0))

	got, err := s.Scan(ctx, "a*b:")
	require.NoError(t, err)
	assert.Equal(t, []string{"a*b:1"}, got)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `history:`, escapeGlob("history:"))
	assert.Equal(t, `a\*b\?\[c\]`, escapeGlob("a*b?[c]"))
}
