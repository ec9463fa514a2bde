// Package filter narrows a fetched batch of logon events by username.
package filter

import (
	"strings"

	"github.com/cdtdelta/logonaudit/internal/winevent"
)

// systemAccounts are the well-known machine/service account names
// dropped in exclude-computer-accounts mode, alongside any name
// containing a "$" (the computer-account naming convention).
var systemAccounts = map[string]bool{
	"DWM-1":           true,
	"LOCAL SERVICE":   true,
	"NETWORK SERVICE": true,
	"SYSTEM":          true,
}

// Mode selects which of the mutually exclusive filters applies.
type Mode int

const (
	// ModeNone passes every event through.
	ModeNone Mode = iota
	// ModeTargetUser keeps only events for one username.
	ModeTargetUser
	// ModeExcludeComputerAccounts drops machine and service accounts.
	ModeExcludeComputerAccounts
)

// Filter is one configured username predicate.
type Filter struct {
	mode       Mode
	targetUser string
}

// New chooses the filter mode by precedence: a target username wins
// over exclude-computer-accounts; with neither, no filtering happens.
func New(targetUser string, excludeComputerAccounts bool) *Filter {
	switch {
	case targetUser != "":
		return &Filter{mode: ModeTargetUser, targetUser: targetUser}
	case excludeComputerAccounts:
		return &Filter{mode: ModeExcludeComputerAccounts}
	default:
		return &Filter{mode: ModeNone}
	}
}

// Mode returns the active filter mode.
func (f *Filter) Mode() Mode { return f.mode }

// Keep reports whether the event survives the filter.
// The target-username comparison is case-insensitive, matching how
// the host compares account names.
func (f *Filter) Keep(e *winevent.LogonEvent) bool {
	switch f.mode {
	case ModeTargetUser:
		return strings.EqualFold(e.TargetUserName, f.targetUser)
	case ModeExcludeComputerAccounts:
		if strings.Contains(e.TargetUserName, "$") {
			return false
		}
		return !systemAccounts[e.TargetUserName]
	default:
		return true
	}
}

// Apply returns the events that survive the filter, preserving order.
func (f *Filter) Apply(events []*winevent.LogonEvent) []*winevent.LogonEvent {
	if f.mode == ModeNone {
		return events
	}
	kept := make([]*winevent.LogonEvent, 0, len(events))
	for _, e := range events {
		if f.Keep(e) {
			kept = append(kept, e)
		}
	}
	return kept
}
