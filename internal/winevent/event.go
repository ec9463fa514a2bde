// Package winevent models rendered Windows event XML and projects
// 4624 security events into typed logon records.
package winevent

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// LogonEventID is the Security-channel event identifier for a
// successful account logon.
const LogonEventID = 4624

// ErrSchemaMismatch is returned when an event that passed the ID
// filter does not carry the EventData fields a 4624 record is
// expected to have. Callers can detect it with errors.Is.
var ErrSchemaMismatch = errors.New("event data does not match the 4624 schema")

// Event represents a Windows event rendered as XML.
type Event struct {
	XMLName   xml.Name    `xml:"Event"`
	System    System      `xml:"System"`
	EventData []EventData `xml:"EventData>Data"`
}

// EventData represents a `Data` element found in `EventData` of an
// event. The Name attribute may be absent when the renderer emitted
// a bare positional value.
type EventData struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:",chardata"`
}

// System represents the `System` element of an event.
type System struct {
	Provider struct {
		Name string `xml:"Name,attr"`
		Guid string `xml:"Guid,attr"`
	} `xml:"Provider"`
	EventID     int `xml:"EventID"`
	Version     int `xml:"Version"`
	Level       int `xml:"Level"`
	Task        int `xml:"Task"`
	TimeCreated struct {
		SystemTime time.Time `xml:"SystemTime,attr"`
	} `xml:"TimeCreated"`
	EventRecordID string `xml:"EventRecordID"`
	Channel       string `xml:"Channel"`
	Computer      string `xml:"Computer"`
}

// FindEventData returns the first EventData entry with a matching
// Name, or nil if none exists.
func (e *Event) FindEventData(name string) *EventData {
	for i := range e.EventData {
		if e.EventData[i].Name == name {
			return &e.EventData[i]
		}
	}
	return nil
}

// Positional layout of the 4624 EventData array, used as a fallback
// when the renderer emitted unnamed Data values.
const (
	idxTargetUserName   = 5
	idxTargetDomainName = 6
	idxLogonType        = 8
	idxWorkstationName  = 11
	idxIPAddress        = 18
)

// LogonEvent is the named-field projection of a 4624 event.
type LogonEvent struct {
	TimeCreated      time.Time
	TargetUserName   string
	TargetDomainName string
	LogonType        uint16
	WorkstationName  string
	IPAddress        string
	Computer         string
}

// LogonEvent projects the event's data into a LogonEvent. Fields are
// resolved by Data Name first, falling back to the fixed 4624
// positional layout for renderers that omit names. A missing username
// or unparseable logon type yields ErrSchemaMismatch.
func (e *Event) LogonEvent() (*LogonEvent, error) {
	user, okUser := e.field("TargetUserName", idxTargetUserName)
	domain, _ := e.field("TargetDomainName", idxTargetDomainName)
	logonType, okType := e.field("LogonType", idxLogonType)
	workstation, _ := e.field("WorkstationName", idxWorkstationName)
	ip, _ := e.field("IpAddress", idxIPAddress)

	if !okUser {
		return nil, fmt.Errorf("record %s: no TargetUserName: %w", e.System.EventRecordID, ErrSchemaMismatch)
	}
	if !okType {
		return nil, fmt.Errorf("record %s: no LogonType: %w", e.System.EventRecordID, ErrSchemaMismatch)
	}

	code, err := strconv.ParseUint(logonType, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("record %s: logon type %q: %w", e.System.EventRecordID, logonType, ErrSchemaMismatch)
	}

	return &LogonEvent{
		TimeCreated:      e.System.TimeCreated.SystemTime,
		TargetUserName:   user,
		TargetDomainName: domain,
		LogonType:        uint16(code),
		WorkstationName:  workstation,
		IPAddress:        ip,
		Computer:         e.System.Computer,
	}, nil
}

// field resolves an EventData value by name, then by position.
// The second return value reports whether the field was present.
func (e *Event) field(name string, idx int) (string, bool) {
	if d := e.FindEventData(name); d != nil {
		return d.Value, true
	}
	// Positional fallback only applies when no entry carries a name;
	// a named rendering that lacks the field is a real absence.
	for i := range e.EventData {
		if e.EventData[i].Name != "" {
			return "", false
		}
	}
	if idx < len(e.EventData) {
		return e.EventData[idx].Value, true
	}
	return "", false
}
