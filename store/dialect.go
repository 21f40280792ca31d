package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var (
	SQLite     = SQLiteDialect{}
	MySQL      = MySQLDialect{}
	PostgreSQL = PostgreSQLDialect{}
)

// Dialect abstracts database-specific SQL features.
//
// Main differences handled:
//   - Placeholder format: MySQL/SQLite use ?, PostgreSQL uses $1, $2
//   - Generated identity retrieval: LastInsertId vs INSERT ... RETURNING
type Dialect interface {
	// Name returns the database/sql driver name.
	// Used for logging, metrics collection, and driver selection.
	Name() string

	// PlaceholderFormat returns the placeholder format used by the database.
	PlaceholderFormat() sq.PlaceholderFormat

	// Returning reports whether generated keys must be read back with
	// INSERT ... RETURNING because the driver does not implement LastInsertId.
	Returning() bool
}

// DialectFor resolves a dialect from a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql":
		return PostgreSQL, nil
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
}

// MySQLDialect implements MySQL database dialect.
type MySQLDialect struct{}

func (MySQLDialect) Name() string                            { return "mysql" }
func (MySQLDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Question }
func (MySQLDialect) Returning() bool                         { return false }

// PostgreSQLDialect implements PostgreSQL database dialect.
//
// lib/pq does not support LastInsertId, so inserts append a RETURNING clause
// for the primary key.
type PostgreSQLDialect struct{}

func (PostgreSQLDialect) Name() string                            { return "postgres" }
func (PostgreSQLDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Dollar }
func (PostgreSQLDialect) Returning() bool                         { return true }

// SQLiteDialect implements SQLite database dialect.
// Commonly used in testing and development environments.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string                            { return "sqlite3" }
func (SQLiteDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Question }
func (SQLiteDialect) Returning() bool                         { return false }
