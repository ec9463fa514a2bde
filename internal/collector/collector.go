// Package collector runs the logon collection pipeline: build a query
// filter, fetch matching events, apply the username filter, and
// project each survivor into a normalized LogonRecord.
package collector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cdtdelta/logonaudit/internal/filter"
	"github.com/cdtdelta/logonaudit/internal/model"
	"github.com/cdtdelta/logonaudit/internal/query"
	"github.com/cdtdelta/logonaudit/internal/source"
	"github.com/cdtdelta/logonaudit/internal/winevent"
)

// Options are the invocation parameters of one collection run.
type Options struct {
	// Host the query is issued against; also recorded on every
	// output record as its data source.
	Host string
	// Start and End bound the query window. A zero End defaults to
	// the time the filter is built.
	Start time.Time
	End   time.Time
	// TargetUsername keeps only events for one account. Takes
	// precedence over ExcludeComputerAccounts.
	TargetUsername string
	// ExcludeComputerAccounts drops machine and service accounts.
	ExcludeComputerAccounts bool
}

// Collector fetches and normalizes logon events from one source.
type Collector struct {
	src source.Source
	log *zap.Logger
}

// New creates a Collector. A nil logger disables tracing.
func New(src source.Source, log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{src: src, log: log}
}

// Collect runs the pipeline once and returns the records in the
// order the source delivered the underlying events. Zero matching
// events is a successful run with an empty result; any source or
// projection failure aborts the run with no partial results.
func (c *Collector) Collect(ctx context.Context, opts Options) ([]*model.LogonRecord, error) {
	qf := query.NewLogonFilter(opts.Start, opts.End)
	c.log.Debug("built query filter",
		zap.String("log", qf.LogName),
		zap.Int("event_id", qf.EventID),
		zap.Time("start", qf.Start),
		zap.Time("end", qf.End),
	)

	c.log.Debug("querying event log", zap.String("host", opts.Host))
	raw, err := c.src.Events(ctx, opts.Host, qf)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", opts.Host, err)
	}
	c.log.Debug("fetched events", zap.Int("count", len(raw)))

	logons := make([]*winevent.LogonEvent, 0, len(raw))
	for _, ev := range raw {
		le, err := ev.LogonEvent()
		if err != nil {
			return nil, err
		}
		logons = append(logons, le)
	}

	uf := filter.New(opts.TargetUsername, opts.ExcludeComputerAccounts)
	c.log.Debug("filtering events", zap.Int("mode", int(uf.Mode())))
	kept := uf.Apply(logons)
	c.log.Debug("filtered events", zap.Int("kept", len(kept)), zap.Int("dropped", len(logons)-len(kept)))

	records := make([]*model.LogonRecord, 0, len(kept))
	for _, le := range kept {
		records = append(records, project(opts.Host, le))
	}
	c.log.Debug("collection complete", zap.Int("records", len(records)))

	return records, nil
}

// project maps one logon event into the output record. The data
// source host comes from the invocation, not from the event.
func project(host string, le *winevent.LogonEvent) *model.LogonRecord {
	return &model.LogonRecord{
		DataSourceHost:  host,
		Timestamp:       le.TimeCreated,
		UserDomain:      le.TargetDomainName,
		Username:        le.TargetUserName,
		LogonType:       model.LogonType(le.LogonType),
		SourceIPAddress: le.IPAddress,
		ComputerName:    le.WorkstationName,
	}
}
