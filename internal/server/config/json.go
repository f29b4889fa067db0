package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/yardcms/internal/flagx"
	"github.com/dmitrijs2005/yardcms/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Pointer fields
// tell an absent key from a zero value, so a file only overrides what it
// names. Durations accept "90s" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP        *string         `json:"endpoint_addr_http"`
	StoreDriver             *string         `json:"store_driver"`
	DatabaseDSN             *string         `json:"database_dsn"`
	RedisAddr               *string         `json:"redis_addr"`
	RedisPassword           *string         `json:"redis_password"`
	RedisDB                 *int            `json:"redis_db"`
	StoreTimeout            *timex.Duration `json:"store_timeout"`
	SecretKey               *string         `json:"secret_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration"`
	CookieSecure            *bool           `json:"cookie_secure"`
	CookieDomain            *string         `json:"cookie_domain"`
	DefaultContentFile      *string         `json:"default_content_file"`
	Sanitize                *bool           `json:"sanitize"`
	PruneHistory            *bool           `json:"prune_history"`
	StrictHistory           *bool           `json:"strict_history"`
	LogLevel                *string         `json:"log_level"`
	S3RootUser              *string         `json:"s3_root_user"`
	S3RootPassword          *string         `json:"s3_root_password"`
	S3Bucket                *string         `json:"s3_bucket"`
	S3Region                *string         `json:"s3_region"`
	S3BaseEndpoint          *string         `json:"s3_base_endpoint"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// parseJson overlays the file named by -c / -config onto config. Without
// the flag nothing is loaded.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return nil
	}
	return loadJSONFile(config, jsonConfigFile)
}

func loadJSONFile(config *Config, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	set(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	set(&config.StoreDriver, c.StoreDriver)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.RedisAddr, c.RedisAddr)
	set(&config.RedisPassword, c.RedisPassword)
	set(&config.RedisDB, c.RedisDB)
	if c.StoreTimeout != nil {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	set(&config.SecretKey, c.SecretKey)
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	set(&config.CookieSecure, c.CookieSecure)
	set(&config.CookieDomain, c.CookieDomain)
	set(&config.DefaultContentFile, c.DefaultContentFile)
	set(&config.Sanitize, c.Sanitize)
	set(&config.PruneHistory, c.PruneHistory)
	set(&config.StrictHistory, c.StrictHistory)
	set(&config.LogLevel, c.LogLevel)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	return nil
}
