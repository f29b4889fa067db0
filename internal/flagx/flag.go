// Package flagx contains small helpers for layered configuration: picking
// out the command-line flags a component owns and reading typed values from
// the environment.
package flagx

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// FilterArgs returns the subset of args made of allowedFlags and their values.
//
// Supported forms are "-c conf.json" and "--config=conf.json". A token that
// starts with "-" is never taken as a value, so "-c -x" keeps only "-c".
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFileFlag returns the value of -c / -config from os.Args, or "" when
// neither is present. Other flags are ignored so the caller can parse them
// separately.
func ConfigFileFlag() string {
	var path string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(args)

	return path
}

// EnvString sets *dst to the value of the environment variable key when it is
// set and non-empty.
func EnvString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// EnvInt is EnvString for integers. Unparsable values are ignored.
func EnvInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

// EnvBool is EnvString for booleans ("1", "true", "false", ...).
func EnvBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*dst = b
		}
	}
}

// EnvDuration is EnvString for durations in time.ParseDuration format.
func EnvDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			*dst = d
		}
	}
}
