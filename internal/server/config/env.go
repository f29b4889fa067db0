package config

import "github.com/dmitrijs2005/yardcms/internal/flagx"

const envPrefix = "YARDCMS_"

// parseEnv overlays YARDCMS_* environment variables onto config. Unset,
// empty and unparsable variables leave the current value alone.
func parseEnv(config *Config) {
	flagx.EnvString(&config.EndpointAddrHTTP, envPrefix+"HTTP_ADDR")
	flagx.EnvString(&config.StoreDriver, envPrefix+"STORE_DRIVER")
	flagx.EnvString(&config.DatabaseDSN, envPrefix+"DATABASE_DSN")
	flagx.EnvString(&config.RedisAddr, envPrefix+"REDIS_ADDR")
	flagx.EnvString(&config.RedisPassword, envPrefix+"REDIS_PASSWORD")
	flagx.EnvInt(&config.RedisDB, envPrefix+"REDIS_DB")
	flagx.EnvDuration(&config.StoreTimeout, envPrefix+"STORE_TIMEOUT")
	flagx.EnvString(&config.SecretKey, envPrefix+"SECRET_KEY")
	flagx.EnvDuration(&config.SessionValidityDuration, envPrefix+"SESSION_VALIDITY")
	flagx.EnvBool(&config.CookieSecure, envPrefix+"COOKIE_SECURE")
	flagx.EnvString(&config.CookieDomain, envPrefix+"COOKIE_DOMAIN")
	flagx.EnvString(&config.DefaultContentFile, envPrefix+"DEFAULT_CONTENT_FILE")
	flagx.EnvBool(&config.Sanitize, envPrefix+"SANITIZE")
	flagx.EnvBool(&config.PruneHistory, envPrefix+"PRUNE_HISTORY")
	flagx.EnvBool(&config.StrictHistory, envPrefix+"STRICT_HISTORY")
	flagx.EnvString(&config.LogLevel, envPrefix+"LOG_LEVEL")
	flagx.EnvString(&config.S3RootUser, envPrefix+"S3_ROOT_USER")
	flagx.EnvString(&config.S3RootPassword, envPrefix+"S3_ROOT_PASSWORD")
	flagx.EnvString(&config.S3Bucket, envPrefix+"S3_BUCKET")
	flagx.EnvString(&config.S3Region, envPrefix+"S3_REGION")
	flagx.EnvString(&config.S3BaseEndpoint, envPrefix+"S3_BASE_ENDPOINT")
}
