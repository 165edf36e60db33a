package dialect

import (
	"fmt"
	"strings"
)

// Dialect names.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Normalize maps driver names and aliases to a dialect name.
// For example, "sqlite3" and "pgx" are mapped to SQLite and Postgres.
func Normalize(name string) (string, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); {
	case n == MySQL:
		return MySQL, nil
	case strings.HasPrefix(n, SQLite):
		return SQLite, nil
	case n == Postgres, n == "postgresql", n == "pgx", n == "pq":
		return Postgres, nil
	default:
		return "", fmt.Errorf("dialect: unsupported dialect %q", name)
	}
}

// DriverName returns the database/sql driver name registered for the dialect.
func DriverName(d string) string {
	switch d {
	case SQLite:
		return "sqlite"
	case Postgres:
		return "postgres"
	default:
		return d
	}
}
