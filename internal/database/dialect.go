package database

// Dialect abstracts the database-specific SQL needed by the store.
// Each backend (SQLite, PostgreSQL) implements this interface.
type Dialect interface {
	// DriverName returns the database/sql driver name
	// (e.g. "sqlite", "pgx").
	DriverName() string

	// DSN returns the data source name for opening a connection.
	// For SQLite this is the file path; for PostgreSQL a connection
	// string.
	DSN(pathOrConnStr string) string

	// Placeholder returns the parameter placeholder for the given
	// 1-based index. SQLite: "?" (ignoring index); PostgreSQL: "$1".
	Placeholder(index int) string

	// CreateTableSQL returns the DDL for the logon_events table.
	CreateTableSQL() string

	// CreateIndexSQL returns DDL to create an index on a column.
	CreateIndexSQL(indexName, column string) string

	// InsertRecordSQL returns the parameterized INSERT statement
	// for a single logon record.
	InsertRecordSQL() string

	// LowerEquals returns a case-insensitive equality fragment for
	// a column against the given 1-based parameter index.
	LowerEquals(column string, paramIdx int) string
}
