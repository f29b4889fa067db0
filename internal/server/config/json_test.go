package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":        "www.example:9000",
		"store_driver":              "sqlite",
		"database_dsn":              "yard.db",
		"redis_db":                  3,
		"store_timeout":             "2s",
		"secret_key":                "my_secret_key",
		"session_validity_duration": "90m",
		"cookie_secure":             true,
		"sanitize":                  false,
		"strict_history":            true,
		"default_content_file":      "defaults.yaml",
		"s3_root_user":              "user",
		"s3_root_password":          "password",
		"s3_bucket":                 "bucket",
		"s3_region":                 "region",
		"s3_base_endpoint":          "base_endpoint",
	})
	pathShort := writeTempJSON(t, dir, "short.json", map[string]any{
		"endpoint_addr_http":        ":1",
		"session_validity_duration": int64(time.Minute),
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg))

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "sqlite", cfg.StoreDriver)
		assert.Equal(t, "yard.db", cfg.DatabaseDSN)
		assert.Equal(t, 3, cfg.RedisDB)
		assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 90*time.Minute, cfg.SessionValidityDuration)
		assert.True(t, cfg.CookieSecure)
		assert.False(t, cfg.Sanitize)
		assert.True(t, cfg.StrictHistory)
		assert.Equal(t, "defaults.yaml", cfg.DefaultContentFile)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)

		// keys absent from the file keep their defaults
		assert.True(t, cfg.PruneHistory)
		assert.Equal(t, "127.0.0.1:6379", cfg.RedisAddr)
	})

	t.Run("short flag and nanosecond durations", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", pathShort}

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg))

		assert.Equal(t, ":1", cfg.EndpointAddrHTTP)
		assert.Equal(t, time.Minute, cfg.SessionValidityDuration)
		assert.Equal(t, "secretKey", cfg.SecretKey)
	})

	t.Run("no flag loads nothing", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		require.NoError(t, parseJson(cfg))
		assert.Equal(t, &Config{}, cfg)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-c", bad}

		assert.Error(t, parseJson(&Config{}))
	})
}
