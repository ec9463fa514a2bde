package database

import "fmt"

// PostgresDialect implements the Dialect interface for PostgreSQL.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string { return "pgx" }

func (d *PostgresDialect) DSN(connStr string) string { return connStr }

func (d *PostgresDialect) Placeholder(index int) string { return fmt.Sprintf("$%d", index) }

func (d *PostgresDialect) CreateTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS logon_events (
		collection_id TEXT, collected_at TEXT,
		data_source_host TEXT, event_time TEXT,
		user_domain TEXT, username TEXT,
		logon_type INT, logon_type_label TEXT,
		source_ip TEXT, computer_name TEXT
	)`
}

func (d *PostgresDialect) CreateIndexSQL(indexName, column string) string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON logon_events (%s)", indexName, column)
}

func (d *PostgresDialect) InsertRecordSQL() string {
	return `INSERT INTO logon_events
		(collection_id, collected_at, data_source_host, event_time,
		 user_domain, username, logon_type, logon_type_label,
		 source_ip, computer_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
}

func (d *PostgresDialect) LowerEquals(column string, paramIdx int) string {
	return fmt.Sprintf("LOWER(%s) = LOWER($%d)", column, paramIdx)
}
