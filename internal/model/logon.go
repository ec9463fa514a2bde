package model

import (
	"fmt"
	"time"
)

// Fields is the ordered list of column names in the logon_events table.
// Used for query building, CSV export, and index management.
var Fields = []string{
	"data_source_host", "event_time", "user_domain", "username",
	"logon_type", "logon_type_label", "source_ip", "computer_name",
}

// LogonType is the numeric logon-type code of a 4624 event.
// Known codes carry a human-readable label; anything else renders
// as Unknown(<code>) instead of failing.
type LogonType uint16

const (
	LogonInteractive       LogonType = 2
	LogonNetwork           LogonType = 3
	LogonBatch             LogonType = 4
	LogonService           LogonType = 5
	LogonUnlock            LogonType = 7
	LogonNetworkClearText  LogonType = 8
	LogonNewCredentials    LogonType = 9
	LogonRemoteInteractive LogonType = 10
	LogonCachedInteractive LogonType = 11
)

// logonTypeLabels maps known logon-type codes to their display labels.
var logonTypeLabels = map[LogonType]string{
	LogonInteractive:       "Interactive",
	LogonNetwork:           "Network",
	LogonBatch:             "Batch",
	LogonService:           "Service",
	LogonUnlock:            "Unlock",
	LogonNetworkClearText:  "NetworkClearText",
	LogonNewCredentials:    "NewCredentials",
	LogonRemoteInteractive: "RemoteInteractive",
	LogonCachedInteractive: "CachedInteractive",
}

// Known reports whether the code has a defined label.
func (t LogonType) Known() bool {
	_, ok := logonTypeLabels[t]
	return ok
}

// String returns the label for known codes, or "Unknown(<code>)".
func (t LogonType) String() string {
	if label, ok := logonTypeLabels[t]; ok {
		return label
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// Label returns the label for known codes and the empty string otherwise.
// Used where the output format reserves an empty cell for unmapped codes.
func (t LogonType) Label() string {
	return logonTypeLabels[t]
}

// LogonRecord is one normalized successful-logon event.
// Records are immutable once built; the collector appends them in
// the order the source delivered the underlying events.
type LogonRecord struct {
	DataSourceHost  string    `json:"data_source_host" db:"data_source_host"`
	Timestamp       time.Time `json:"event_time" db:"event_time"`
	UserDomain      string    `json:"user_domain" db:"user_domain"`
	Username        string    `json:"username" db:"username"`
	LogonType       LogonType `json:"logon_type" db:"logon_type"`
	SourceIPAddress string    `json:"source_ip" db:"source_ip"`
	ComputerName    string    `json:"computer_name" db:"computer_name"`
}
