// Package config handles configuration for the yardcms server: defaults,
// an optional JSON file, YARDCMS_* environment variables and command-line
// flags, applied in that order.
package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/kv/kvopen"
)

// Config holds runtime settings for the yardcms server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - StoreDriver: memory, redis, postgres or sqlite.
//   - DatabaseDSN: DSN for the postgres (pgx) and sqlite drivers.
//   - RedisAddr / RedisPassword / RedisDB: redis connection.
//   - StoreTimeout: deadline for the initial store ping.
//   - SecretKey: HMAC secret for signing session JWTs (HS256). Do not use test defaults in prod.
//   - SessionValidityDuration: lifetime of a login session.
//   - CookieSecure / CookieDomain: session cookie attributes.
//   - DefaultContentFile: YAML or JSON content served until the first update.
//   - Sanitize: strip unsafe HTML from rich-text fields on update.
//   - PruneHistory: delete snapshots as they drop off the history index.
//   - StrictHistory: fail an update when its snapshot cannot be written.
//   - LogLevel: debug, info, warn or error.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint: backup export target.
type Config struct {
	EndpointAddrHTTP        string
	StoreDriver             string
	DatabaseDSN             string
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int
	StoreTimeout            time.Duration
	SecretKey               string
	SessionValidityDuration time.Duration
	CookieSecure            bool
	CookieDomain            string
	DefaultContentFile      string
	Sanitize                bool
	PruneHistory            bool
	StrictHistory           bool
	LogLevel                string
	S3RootUser              string
	S3RootPassword          string
	S3Bucket                string
	S3Region                string
	S3BaseEndpoint          string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.StoreDriver = kvopen.DriverMemory
	c.DatabaseDSN = ""
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPassword = ""
	c.RedisDB = 0
	c.StoreTimeout = 5 * time.Second
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 24 * time.Hour
	c.CookieSecure = false
	c.CookieDomain = ""
	c.DefaultContentFile = ""
	c.Sanitize = true
	c.PruneHistory = true
	c.StrictHistory = false
	c.LogLevel = "info"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "yardcms-backups"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// StoreConfig returns the subset of settings needed to open the store.
func (c *Config) StoreConfig() kvopen.Config {
	return kvopen.Config{
		Driver:        c.StoreDriver,
		DSN:           c.DatabaseDSN,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		Timeout:       c.StoreTimeout,
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.EndpointAddrHTTP == "" {
		return fmt.Errorf("config: empty HTTP address")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("config: empty secret key")
	}
	if c.SessionValidityDuration <= 0 {
		return fmt.Errorf("config: session validity must be positive, got %s", c.SessionValidityDuration)
	}
	switch c.StoreDriver {
	case kvopen.DriverMemory, kvopen.DriverRedis:
	case kvopen.DriverPostgres, kvopen.DriverSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("config: store driver %q needs a database DSN", c.StoreDriver)
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.StoreDriver)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line
// flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile builds a Config from defaults, the JSON file at path (skipped when
// empty) and the environment. Command-line flags are left to the caller.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if path != "" {
		if err := loadJSONFile(cfg, path); err != nil {
			return nil, err
		}
	}
	parseEnv(cfg)
	return cfg, nil
}
