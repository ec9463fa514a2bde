// Package source provides event source adapters: a live query against
// a host's event log and an offline reader for exported XML dumps.
package source

import (
	"context"
	"errors"

	"github.com/cdtdelta/logonaudit/internal/query"
	"github.com/cdtdelta/logonaudit/internal/winevent"
)

// ErrUnsupported is returned by the live source on platforms without
// a host event-log API.
var ErrUnsupported = errors.New("live event log queries are only supported on windows")

// Source fetches raw events matching a filter from some event store.
// The call is synchronous and unbounded: no retries, no paging, and
// it may block for a long time on a busy log. A failure to reach the
// store is returned as-is with no partial results.
type Source interface {
	Events(ctx context.Context, host string, f *query.Filter) ([]*winevent.Event, error)
}

// NewLive returns the live event-log source for this platform.
func NewLive() Source {
	return newLiveSource()
}
