// Package query builds event-log query filters and their XPath form.
package query

import (
	"fmt"
	"strings"
	"time"
)

// SecurityLog is the channel all logon queries run against.
const SecurityLog = "Security"

// Filter describes one event-log query: a channel, an event
// identifier, and an optional time window. The zero Start means
// "from the beginning of the log".
//
// Start is not validated against End; an inverted window is passed
// through unchanged and simply matches nothing.
type Filter struct {
	LogName string
	EventID int
	Start   time.Time
	End     time.Time
}

// NewLogonFilter builds the filter for successful-logon queries.
// End defaults to the time of the call when zero, captured once so
// that every consumer of the filter sees the same bound.
func NewLogonFilter(start, end time.Time) *Filter {
	if end.IsZero() {
		end = time.Now()
	}
	return &Filter{
		LogName: SecurityLog,
		EventID: 4624,
		Start:   start,
		End:     end,
	}
}

// Matches reports whether an event with the given ID and creation
// time satisfies the filter. Used by sources that evaluate the
// filter in-process rather than pushing it down to the host log.
func (f *Filter) Matches(eventID int, created time.Time) bool {
	if eventID != f.EventID {
		return false
	}
	if !f.Start.IsZero() && created.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && created.After(f.End) {
		return false
	}
	return true
}

// XPath returns the structured query string for the host event-log
// API, e.g.:
//
//	*[System[(EventID=4624) and TimeCreated[@SystemTime>='...' and @SystemTime<='...']]]
func (f *Filter) XPath() string {
	conds := []string{fmt.Sprintf("(EventID=%d)", f.EventID)}

	var bounds []string
	if !f.Start.IsZero() {
		bounds = append(bounds, fmt.Sprintf("@SystemTime>='%s'", f.Start.UTC().Format(systemTimeFormat)))
	}
	if !f.End.IsZero() {
		bounds = append(bounds, fmt.Sprintf("@SystemTime<='%s'", f.End.UTC().Format(systemTimeFormat)))
	}
	if len(bounds) > 0 {
		conds = append(conds, "TimeCreated["+strings.Join(bounds, " and ")+"]")
	}

	return "*[System[" + strings.Join(conds, " and ") + "]]"
}

// systemTimeFormat is the timestamp layout the event-log XPath
// engine accepts for @SystemTime comparisons.
const systemTimeFormat = "2006-01-02T15:04:05.000Z"
