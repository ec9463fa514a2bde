// Package database persists collected logon records into a triage
// database, either a local SQLite file or a PostgreSQL server.
package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cdtdelta/logonaudit/internal/model"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// timeLayout is how event and collection timestamps are stored:
// RFC3339 in UTC with a fixed-width fraction, so lexical ordering
// matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// indexedColumns are the columns indexed when creating a new database.
var indexedColumns = []string{"username", "event_time", "source_ip", "collection_id"}

// sqlStore carries the connection and dialect shared by both backends.
type sqlStore struct {
	path    string
	conn    *sql.DB
	dialect Dialect
}

// SQLiteStore manages a SQLite logon database. It implements Store.
type SQLiteStore struct{ sqlStore }

// PostgresStore manages a PostgreSQL logon database. It implements Store.
type PostgresStore struct{ sqlStore }

// OpenSQLite opens an existing SQLite logon database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	s, err := open(&SQLiteDialect{}, path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{*s}, nil
}

// CreateSQLite creates a new SQLite logon database with the full schema.
// Opening an existing file is fine; the schema statements are idempotent.
func CreateSQLite(path string) (*SQLiteStore, error) {
	s, err := create(&SQLiteDialect{}, path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{*s}, nil
}

// OpenPostgres opens an existing PostgreSQL logon database.
func OpenPostgres(connStr string) (*PostgresStore, error) {
	s, err := open(&PostgresDialect{}, connStr)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{*s}, nil
}

// CreatePostgres creates the logon schema in an existing PostgreSQL
// database reachable through connStr.
func CreatePostgres(connStr string) (*PostgresStore, error) {
	s, err := create(&PostgresDialect{}, connStr)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{*s}, nil
}

func open(d Dialect, pathOrConnStr string) (*sqlStore, error) {
	conn, err := sql.Open(d.DriverName(), d.DSN(pathOrConnStr))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return &sqlStore{path: pathOrConnStr, conn: conn, dialect: d}, nil
}

func create(d Dialect, pathOrConnStr string) (*sqlStore, error) {
	s, err := open(d, pathOrConnStr)
	if err != nil {
		return nil, err
	}
	if err := s.createSchema(); err != nil {
		s.conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// createSchema builds the logon_events table and its indexes.
func (s *sqlStore) createSchema() error {
	if _, err := s.conn.Exec(s.dialect.CreateTableSQL()); err != nil {
		return err
	}
	for _, col := range indexedColumns {
		name := "logon_events_" + col + "_idx"
		if _, err := s.conn.Exec(s.dialect.CreateIndexSQL(name, col)); err != nil {
			return fmt.Errorf("creating index on %s: %w", col, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *sqlStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Path returns the file path or connection string of the database.
func (s *sqlStore) Path() string {
	return s.path
}

// InsertRecords writes a batch of records inside one transaction.
// Returns the number of rows written.
func (s *sqlStore) InsertRecords(collectionID string, records []*model.LogonRecord, onProgress func(int)) (int, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(s.dialect.InsertRecordSQL())
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	collectedAt := time.Now().UTC().Format(timeLayout)
	count := 0
	for _, r := range records {
		_, err := stmt.Exec(
			collectionID,
			collectedAt,
			r.DataSourceHost,
			r.Timestamp.UTC().Format(timeLayout),
			r.UserDomain,
			r.Username,
			int(r.LogonType),
			r.LogonType.String(),
			r.SourceIPAddress,
			r.ComputerName,
		)
		if err != nil {
			return count, fmt.Errorf("inserting record %d: %w", count, err)
		}
		count++
		if onProgress != nil {
			onProgress(count)
		}
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("committing insert: %w", err)
	}
	return count, nil
}

// CountRecords returns the total number of stored records.
func (s *sqlStore) CountRecords() (int64, error) {
	var n int64
	err := s.conn.QueryRow("SELECT COUNT(*) FROM logon_events").Scan(&n)
	return n, err
}

// QueryRecords returns stored records matching the optional username
// and time window, ordered by event time.
func (s *sqlStore) QueryRecords(username string, from, to time.Time) ([]*model.LogonRecord, error) {
	var conds []string
	var args []interface{}
	idx := 1

	if username != "" {
		conds = append(conds, s.dialect.LowerEquals("username", idx))
		args = append(args, username)
		idx++
	}
	if !from.IsZero() {
		conds = append(conds, "event_time >= "+s.dialect.Placeholder(idx))
		args = append(args, from.UTC().Format(timeLayout))
		idx++
	}
	if !to.IsZero() {
		conds = append(conds, "event_time <= "+s.dialect.Placeholder(idx))
		args = append(args, to.UTC().Format(timeLayout))
		idx++
	}

	q := `SELECT data_source_host, event_time, user_domain, username,
		logon_type, source_ip, computer_name FROM logon_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY event_time"

	rows, err := s.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []*model.LogonRecord
	for rows.Next() {
		var r model.LogonRecord
		var eventTime string
		var logonType int
		if err := rows.Scan(
			&r.DataSourceHost, &eventTime, &r.UserDomain, &r.Username,
			&logonType, &r.SourceIPAddress, &r.ComputerName,
		); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		t, err := time.Parse(timeLayout, eventTime)
		if err != nil {
			return nil, fmt.Errorf("parsing stored event time %q: %w", eventTime, err)
		}
		r.Timestamp = t
		r.LogonType = model.LogonType(logonType)
		records = append(records, &r)
	}
	return records, rows.Err()
}

// DistinctUsernames returns every stored username and its record count.
func (s *sqlStore) DistinctUsernames() (map[string]int64, error) {
	return s.groupCount("username")
}

// Collections returns the known collection ids and their record counts.
func (s *sqlStore) Collections() (map[string]int64, error) {
	return s.groupCount("collection_id")
}

func (s *sqlStore) groupCount(column string) (map[string]int64, error) {
	rows, err := s.conn.Query(
		"SELECT " + column + ", COUNT(*) FROM logon_events GROUP BY " + column)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}
