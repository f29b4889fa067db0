// Package kvopen builds a kv.Store from configuration.
package kvopen

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/kv"
	"github.com/dmitrijs2005/yardcms/internal/kv/memstore"
	"github.com/dmitrijs2005/yardcms/internal/kv/redisstore"
	"github.com/dmitrijs2005/yardcms/internal/kv/sqlstore"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string
	// DSN is used by the postgres and sqlite drivers.
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Timeout       time.Duration
}

// Open connects to the configured backend and verifies it answers a ping.
func Open(ctx context.Context, cfg Config) (kv.Store, error) {
	switch cfg.Driver {
	case DriverMemory:
		return memstore.New(), nil

	case DriverRedis:
		s := redisstore.New(redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Timeout:  cfg.Timeout,
		})
		if err := pingWithTimeout(ctx, s, cfg.Timeout); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil

	case DriverPostgres, DriverSQLite:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("%s store requires a DSN", cfg.Driver)
		}
		s, err := sqlstore.Open(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func pingWithTimeout(ctx context.Context, s kv.Store, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.Ping(ctx)
}
