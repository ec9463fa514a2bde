// Command logonaudit queries a host's Security event log for
// successful logons (event 4624) and emits one normalized record per
// event, optionally exporting the batch to a triage database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cdtdelta/logonaudit/internal/collector"
	"github.com/cdtdelta/logonaudit/internal/database"
	"github.com/cdtdelta/logonaudit/internal/model"
	"github.com/cdtdelta/logonaudit/internal/source"
)

var args struct {
	Host                    string `arg:"env:LOGONAUDIT_HOST" help:"host to query (default: local host name)"`
	Start                   string `help:"window start, e.g. 2025-06-01 or 2025-06-01T10:00:00Z"`
	End                     string `help:"window end (default: now)"`
	User                    string `arg:"--user" help:"keep only events for this username"`
	ExcludeComputerAccounts bool   `arg:"--exclude-computer-accounts" help:"drop machine and service accounts"`
	Input                   string `arg:"env:LOGONAUDIT_INPUT" help:"read an exported event XML dump instead of the live log"`
	Format                  string `default:"table" help:"output format: table, csv, json"`
	DB                      string `arg:"env:LOGONAUDIT_DB" help:"export records to this database (sqlite path or postgres conn string)"`
	DBDriver                string `arg:"--db-driver,env:LOGONAUDIT_DB_DRIVER" default:"sqlite" help:"database driver: sqlite, postgres"`
	Verbose                 bool   `arg:"-v,--verbose" help:"trace each pipeline stage"`
}

func main() {
	arg.MustParse(&args)

	log := zap.NewNop()
	if args.Verbose {
		var err error
		log, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Sync()
		fmt.Fprintf(os.Stderr, "logonaudit: %v\n", err)
		os.Exit(1)
	}
}

func run(log *zap.Logger) error {
	host := args.Host
	if host == "" {
		var err error
		host, err = os.Hostname()
		if err != nil {
			return fmt.Errorf("resolving local host name: %w", err)
		}
	}

	start, err := parseTimeArg(args.Start)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}
	end, err := parseTimeArg(args.End)
	if err != nil {
		return fmt.Errorf("invalid --end: %w", err)
	}

	var src source.Source
	if args.Input != "" {
		src = source.NewFile(args.Input)
	} else {
		src = source.NewLive()
	}

	c := collector.New(src, log)
	records, err := c.Collect(context.Background(), collector.Options{
		Host:                    host,
		Start:                   start,
		End:                     end,
		TargetUsername:          args.User,
		ExcludeComputerAccounts: args.ExcludeComputerAccounts,
	})
	if err != nil {
		return err
	}

	if args.DB != "" {
		if err := export(log, records); err != nil {
			return err
		}
	}

	return render(os.Stdout, args.Format, records)
}

// export writes the batch to the configured database under a fresh
// collection id.
func export(log *zap.Logger, records []*model.LogonRecord) error {
	db, err := database.CreateStore(args.DBDriver, args.DB)
	if err != nil {
		return fmt.Errorf("opening export database: %w", err)
	}
	defer db.Close()

	collectionID := uuid.NewString()
	n, err := db.InsertRecords(collectionID, records, nil)
	if err != nil {
		return fmt.Errorf("exporting records: %w", err)
	}
	log.Info("exported records",
		zap.String("collection_id", collectionID),
		zap.Int("count", n),
		zap.String("db", args.DB),
	)
	return nil
}

// timeLayouts are the accepted forms for --start/--end, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimeArg(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
