package kvopen

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/yardcms/internal/kv/memstore"
	"github.com/dmitrijs2005/yardcms/internal/kv/redisstore"
	"github.com/dmitrijs2005/yardcms/internal/kv/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := Open(ctx, Config{Driver: DriverMemory})
		require.NoError(t, err)
		assert.IsType(t, &memstore.Store{}, s)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		s, err := Open(ctx, Config{Driver: DriverRedis, RedisAddr: mr.Addr(), Timeout: time.Second})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &redisstore.Store{}, s)
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := Open(ctx, Config{Driver: DriverRedis, RedisAddr: addr, Timeout: 200 * time.Millisecond})
		assert.Error(t, err)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := Open(ctx, Config{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "site.db")})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &sqlstore.Store{}, s)
	})

	t.Run("sql without dsn", func(t *testing.T) {
		_, err := Open(ctx, Config{Driver: DriverPostgres})
		assert.ErrorContains(t, err, "requires a DSN")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Open(ctx, Config{Driver: "etcd"})
		assert.ErrorContains(t, err, `unknown store driver "etcd"`)
	})
}
