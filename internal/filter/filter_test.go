package filter

import (
	"testing"

	"github.com/cdtdelta/logonaudit/internal/winevent"
)

func events(usernames ...string) []*winevent.LogonEvent {
	out := make([]*winevent.LogonEvent, len(usernames))
	for i, u := range usernames {
		out[i] = &winevent.LogonEvent{TargetUserName: u}
	}
	return out
}

func usernames(events []*winevent.LogonEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.TargetUserName
	}
	return out
}

func TestModePrecedence(t *testing.T) {
	// A target username wins over exclude-computer-accounts
	f := New("jdoe", true)
	if f.Mode() != ModeTargetUser {
		t.Errorf("Mode() = %v, want ModeTargetUser", f.Mode())
	}

	f = New("", true)
	if f.Mode() != ModeExcludeComputerAccounts {
		t.Errorf("Mode() = %v, want ModeExcludeComputerAccounts", f.Mode())
	}

	f = New("", false)
	if f.Mode() != ModeNone {
		t.Errorf("Mode() = %v, want ModeNone", f.Mode())
	}
}

func TestTargetUserFilter(t *testing.T) {
	f := New("jdoe", false)
	got := f.Apply(events("jdoe", "jdoe", "admin"))

	if len(got) != 2 {
		t.Fatalf("kept %d events, want 2", len(got))
	}
	for _, e := range got {
		if e.TargetUserName != "jdoe" {
			t.Errorf("kept unexpected user %q", e.TargetUserName)
		}
	}
}

func TestTargetUserCaseInsensitive(t *testing.T) {
	f := New("JDoe", false)
	got := f.Apply(events("jdoe", "JDOE", "jdoette"))

	if len(got) != 2 {
		t.Errorf("kept %d events, want 2", len(got))
	}
}

func TestExcludeComputerAccounts(t *testing.T) {
	cases := []struct {
		username string
		keep     bool
	}{
		{"jdoe", true},
		{"WORKSTATION1$", false},
		{"mid$dollar", false},
		{"SYSTEM", false},
		{"DWM-1", false},
		{"LOCAL SERVICE", false},
		{"NETWORK SERVICE", false},
		{"system", true}, // exclusion list match is exact
	}

	f := New("", true)
	for _, c := range cases {
		e := &winevent.LogonEvent{TargetUserName: c.username}
		if got := f.Keep(e); got != c.keep {
			t.Errorf("Keep(%q) = %v, want %v", c.username, got, c.keep)
		}
	}
}

func TestExcludeModeOrdering(t *testing.T) {
	f := New("", true)
	got := f.Apply(events("jdoe", "WIN-PC$", "SYSTEM", "asmith"))

	want := []string{"jdoe", "asmith"}
	gotNames := usernames(got)
	if len(gotNames) != len(want) {
		t.Fatalf("kept %v, want %v", gotNames, want)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Errorf("kept %v, want %v", gotNames, want)
			break
		}
	}
}

func TestNoFilterPassesThrough(t *testing.T) {
	in := events("jdoe", "WIN-PC$", "SYSTEM")
	f := New("", false)
	got := f.Apply(in)

	if len(got) != len(in) {
		t.Fatalf("kept %d events, want %d", len(got), len(in))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Error("pass-through should preserve the input order and identity")
			break
		}
	}
}
