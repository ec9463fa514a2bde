package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/cdtdelta/logonaudit/internal/model"
)

// render writes the collected batch in the requested format.
func render(w io.Writer, format string, records []*model.LogonRecord) error {
	switch format {
	case "table":
		return renderTable(w, records)
	case "csv":
		return renderCSV(w, records)
	case "json":
		return renderJSON(w, records)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func renderTable(w io.Writer, records []*model.LogonRecord) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tDOMAIN\tUSERNAME\tLOGON TYPE\tSOURCE IP\tCOMPUTER")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Timestamp.Format(time.RFC3339),
			r.UserDomain,
			r.Username,
			r.LogonType,
			r.SourceIPAddress,
			r.ComputerName,
		)
	}
	return tw.Flush()
}

func renderCSV(w io.Writer, records []*model.LogonRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Fields); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.DataSourceHost,
			r.Timestamp.Format(time.RFC3339),
			r.UserDomain,
			r.Username,
			strconv.Itoa(int(r.LogonType)),
			r.LogonType.Label(),
			r.SourceIPAddress,
			r.ComputerName,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderJSON(w io.Writer, records []*model.LogonRecord) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
