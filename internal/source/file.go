package source

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cdtdelta/logonaudit/internal/query"
	"github.com/cdtdelta/logonaudit/internal/winevent"
)

// FileSource reads events from an exported event XML dump: either a
// single <Events> document (wevtutil output) or a bare sequence of
// <Event> elements. The filter's event-ID and time bounds are
// evaluated in-process since there is no query engine to push them to.
type FileSource struct {
	path string
}

// NewFile creates a source backed by an XML dump file.
func NewFile(path string) *FileSource {
	return &FileSource{path: path}
}

// Events reads every <Event> element from the dump and returns the
// ones matching the filter, in file order.
func (s *FileSource) Events(ctx context.Context, host string, f *query.Filter) ([]*winevent.Event, error) {
	fh, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening event dump: %w", err)
	}
	defer fh.Close()

	events, err := decodeEvents(ctx, fh, f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return events, nil
}

func decodeEvents(ctx context.Context, r io.Reader, f *query.Filter) ([]*winevent.Event, error) {
	dec := xml.NewDecoder(r)
	var events []*winevent.Event

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Event" {
			continue
		}

		var ev winevent.Event
		if err := dec.DecodeElement(&ev, &start); err != nil {
			return nil, fmt.Errorf("decoding event: %w", err)
		}
		if f == nil || f.Matches(ev.System.EventID, ev.System.TimeCreated.SystemTime) {
			events = append(events, &ev)
		}
	}
}
