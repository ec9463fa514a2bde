package database

import "fmt"

// SQLiteDialect implements the Dialect interface for SQLite databases.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string { return "sqlite" }

func (d *SQLiteDialect) DSN(path string) string { return path }

func (d *SQLiteDialect) Placeholder(index int) string { return "?" }

func (d *SQLiteDialect) CreateTableSQL() string {
	return `CREATE TABLE IF NOT EXISTS logon_events (
		collection_id TEXT, collected_at TEXT,
		data_source_host TEXT, event_time TEXT,
		user_domain TEXT, username TEXT,
		logon_type INT, logon_type_label TEXT,
		source_ip TEXT, computer_name TEXT
	)`
}

func (d *SQLiteDialect) CreateIndexSQL(indexName, column string) string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON logon_events (%s)", indexName, column)
}

func (d *SQLiteDialect) InsertRecordSQL() string {
	return `INSERT INTO logon_events
		(collection_id, collected_at, data_source_host, event_time,
		 user_domain, username, logon_type, logon_type_label,
		 source_ip, computer_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
}

func (d *SQLiteDialect) LowerEquals(column string, paramIdx int) string {
	return fmt.Sprintf("LOWER(%s) = LOWER(?)", column)
}
