package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/flagx"
)

// flagNames are the short flags the server owns; everything else on the
// command line is ignored here.
var flagNames = []string{"-a", "-t", "-d", "-r", "-s", "-v", "-f", "-l", "-u", "-p", "-b", "-g", "-e"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-t string   store driver: memory, redis, postgres, sqlite
//	-d string   database DSN for postgres / sqlite
//	-r string   redis address
//	-s string   JWT HMAC secret key
//	-v int      session validity, minutes
//	-f string   default content file (YAML or JSON)
//	-l string   log level
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Duration flags are accepted as integers in minutes.
func parseFlags(config *Config) error {
	return parseFlagArgs(config, os.Args[1:])
}

func parseFlagArgs(config *Config, argv []string) error {
	args := flagx.FilterArgs(argv, flagNames)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.StoreDriver, "t", config.StoreDriver, "store driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("v", int(config.SessionValidityDuration.Minutes()), "session validity (in minutes)")

	fs.StringVar(&config.DefaultContentFile, "f", config.DefaultContentFile, "default content file")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "v" {
			config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
		}
	})
	return nil
}
