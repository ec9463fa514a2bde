package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cdtdelta/logonaudit/internal/query"
)

func eventXML(eventID int, systemTime, user string) string {
	return fmt.Sprintf(`<Event xmlns='http://schemas.microsoft.com/win/2004/08/events/event'>
  <System>
    <Provider Name='Microsoft-Windows-Security-Auditing'/>
    <EventID>%d</EventID>
    <TimeCreated SystemTime='%s'/>
    <EventRecordID>1</EventRecordID>
    <Channel>Security</Channel>
    <Computer>WIN-PC</Computer>
  </System>
  <EventData>
    <Data Name='TargetUserName'>%s</Data>
    <Data Name='TargetDomainName'>CORP</Data>
    <Data Name='LogonType'>2</Data>
    <Data Name='WorkstationName'>WIN-PC</Data>
    <Data Name='IpAddress'>127.0.0.1</Data>
  </EventData>
</Event>`, eventID, systemTime, user)
}

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.xml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing dump: %v", err)
	}
	return path
}

func TestFileSourceWrappedDocument(t *testing.T) {
	dump := "<Events>\n" +
		eventXML(4624, "2025-06-01T10:00:00.000Z", "jdoe") + "\n" +
		eventXML(4624, "2025-06-01T11:00:00.000Z", "asmith") + "\n" +
		"</Events>\n"
	path := writeDump(t, dump)

	f := query.NewLogonFilter(time.Time{}, time.Time{})
	events, err := NewFile(path).Events(context.Background(), "WIN-PC", f)
	if err != nil {
		t.Fatalf("Events() failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if got := events[0].FindEventData("TargetUserName").Value; got != "jdoe" {
		t.Errorf("first event user = %q, want jdoe (order preserved)", got)
	}
}

func TestFileSourceBareSequence(t *testing.T) {
	dump := eventXML(4624, "2025-06-01T10:00:00.000Z", "jdoe") + "\n" +
		eventXML(4624, "2025-06-01T11:00:00.000Z", "asmith")
	path := writeDump(t, dump)

	events, err := NewFile(path).Events(context.Background(), "WIN-PC", nil)
	if err != nil {
		t.Fatalf("Events() failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}
}

func TestFileSourceFiltersEventID(t *testing.T) {
	dump := "<Events>" +
		eventXML(4624, "2025-06-01T10:00:00.000Z", "jdoe") +
		eventXML(4625, "2025-06-01T10:05:00.000Z", "jdoe") +
		eventXML(4634, "2025-06-01T10:10:00.000Z", "jdoe") +
		"</Events>"
	path := writeDump(t, dump)

	f := query.NewLogonFilter(time.Time{}, time.Time{})
	events, err := NewFile(path).Events(context.Background(), "WIN-PC", f)
	if err != nil {
		t.Fatalf("Events() failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("got %d events, want 1 (only the 4624)", len(events))
	}
}

func TestFileSourceFiltersTimeWindow(t *testing.T) {
	dump := "<Events>" +
		eventXML(4624, "2025-06-01T09:00:00.000Z", "early") +
		eventXML(4624, "2025-06-01T12:00:00.000Z", "inside") +
		eventXML(4624, "2025-06-01T18:00:00.000Z", "late") +
		"</Events>"
	path := writeDump(t, dump)

	f := query.NewLogonFilter(
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
	)
	events, err := NewFile(path).Events(context.Background(), "WIN-PC", f)
	if err != nil {
		t.Fatalf("Events() failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if got := events[0].FindEventData("TargetUserName").Value; got != "inside" {
		t.Errorf("kept %q, want the event inside the window", got)
	}
}

func TestFileSourceEmptyDump(t *testing.T) {
	path := writeDump(t, "<Events></Events>")

	events, err := NewFile(path).Events(context.Background(), "WIN-PC", nil)
	if err != nil {
		t.Fatalf("Events() failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "nope.xml"))
	if _, err := s.Events(context.Background(), "WIN-PC", nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileSourceTruncatedXML(t *testing.T) {
	path := writeDump(t, "<Events><Event><System><EventID>4624")
	if _, err := NewFile(path).Events(context.Background(), "WIN-PC", nil); err == nil {
		t.Error("expected error for truncated XML")
	}
}

func TestFileSourceCancelledContext(t *testing.T) {
	path := writeDump(t, "<Events>"+eventXML(4624, "2025-06-01T10:00:00.000Z", "jdoe")+"</Events>")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFile(path).Events(ctx, "WIN-PC", nil); err == nil {
		t.Error("expected error from cancelled context")
	}
}
