package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		expected  func() *Config
		name      string
		args      []string
		expectErr bool
	}{
		{name: "all flags", args: []string{
			"-a", "127.0.0.1:9090", "-t", "postgres", "-d", "postgres://db", "-r", "redis:6379", "-s", "secret",
			"-v", "30", "-f", "site.yaml", "-l", "debug",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		}, expected: func() *Config {
			c := base()
			c.EndpointAddrHTTP = "127.0.0.1:9090"
			c.StoreDriver = "postgres"
			c.DatabaseDSN = "postgres://db"
			c.RedisAddr = "redis:6379"
			c.SecretKey = "secret"
			c.SessionValidityDuration = 30 * time.Minute
			c.DefaultContentFile = "site.yaml"
			c.LogLevel = "debug"
			c.S3RootUser = "user"
			c.S3RootPassword = "password"
			c.S3Bucket = "bucket"
			c.S3Region = "us-west-1"
			c.S3BaseEndpoint = "http://endpoint"
			return c
		}},
		{name: "foreign flags ignored", args: []string{"-c", "cfg.json", "-x", "1", "-a", ":1"}, expected: func() *Config {
			c := base()
			c.EndpointAddrHTTP = ":1"
			return c
		}},
		{name: "no -v keeps sub-minute validity", args: []string{}, expected: base},
		{name: "bad int", args: []string{"-v", "ten"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := base()
			err := parseFlagArgs(config, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected(), config))
		})
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("YARDCMS_HTTP_ADDR", ":9999")
	t.Setenv("YARDCMS_STORE_DRIVER", "sqlite")
	t.Setenv("YARDCMS_REDIS_DB", "4")
	t.Setenv("YARDCMS_SESSION_VALIDITY", "45m")
	t.Setenv("YARDCMS_COOKIE_SECURE", "true")
	t.Setenv("YARDCMS_PRUNE_HISTORY", "false")
	t.Setenv("YARDCMS_STORE_TIMEOUT", "not-a-duration")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	want := &Config{}
	want.LoadDefaults()
	want.EndpointAddrHTTP = ":9999"
	want.StoreDriver = "sqlite"
	want.RedisDB = 4
	want.SessionValidityDuration = 45 * time.Minute
	want.CookieSecure = true
	want.PruneHistory = false

	assert.Empty(t, cmp.Diff(want, c))
}
