package database

import (
	"time"

	"github.com/cdtdelta/logonaudit/internal/model"
)

// Store defines the interface for persisting collected logon records.
// The CLI depends on this interface, not on a concrete backend.
type Store interface {
	// InsertRecords writes one collection run's records under the
	// given collection id. An onProgress callback, if non-nil, is
	// called with the running count after every row.
	InsertRecords(collectionID string, records []*model.LogonRecord, onProgress func(int)) (int, error)

	// CountRecords returns the total number of stored records.
	CountRecords() (int64, error)

	// QueryRecords returns stored records, optionally narrowed by
	// username (exact, case-insensitive) and a time window. Zero
	// times disable the corresponding bound. Results are ordered by
	// event time.
	QueryRecords(username string, from, to time.Time) ([]*model.LogonRecord, error)

	// DistinctUsernames returns every stored username with its
	// record count.
	DistinctUsernames() (map[string]int64, error)

	// Collections returns the known collection ids with their
	// record counts.
	Collections() (map[string]int64, error)

	// Lifecycle
	Close() error
	Path() string
}
