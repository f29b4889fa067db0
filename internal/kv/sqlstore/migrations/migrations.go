// Package migrations embeds the goose migrations for the SQL key-value
// backend, one directory per dialect.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
