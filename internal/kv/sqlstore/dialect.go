package sqlstore

import (
	"fmt"
	"regexp"
)

// Dialect captures what differs between the supported SQL engines. Queries
// are written with PostgreSQL placeholders ($1, $2, ...) and each placeholder
// is used exactly once, so rebinding to "?" keeps argument order intact.
type Dialect struct {
	Name          string
	DriverName    string
	GooseDialect  string
	MigrationsDir string
	questionMarks bool
	singleWriter  bool
}

var (
	Postgres = Dialect{
		Name:          "postgres",
		DriverName:    "pgx",
		GooseDialect:  "postgres",
		MigrationsDir: "postgres",
	}
	SQLite = Dialect{
		Name:          "sqlite",
		DriverName:    "sqlite",
		GooseDialect:  "sqlite3",
		MigrationsDir: "sqlite",
		questionMarks: true,
		singleWriter:  true,
	}
)

// DialectFor resolves a store driver name from configuration.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case "postgres", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported sql dialect %q", name)
	}
}

var placeholderRe = regexp.MustCompile(`\$\d+`)

func (d Dialect) rebind(query string) string {
	if !d.questionMarks {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?")
}
