package domain

import "testing"

func TestUploadsPlaylistID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"UCt7_srJeiw55kTcK7M9ID6g", "UUt7_srJeiw55kTcK7M9ID6g"},
		{"U", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := (Channel{ID: tc.id}).UploadsPlaylistID(); got != tc.want {
			t.Fatalf("UploadsPlaylistID(%q) = %q, want %q", tc.id, got, tc.want)
		}
	}
}

func TestPreferences(t *testing.T) {
	prefs := HideChannels("UC1", "")

	if prefs.For("UC1").Display {
		t.Fatalf("UC1 should be hidden")
	}
	if !prefs.For("UC1").Notify {
		t.Fatalf("hiding a channel should not mute it")
	}
	if got := prefs.For("UC2"); got != DefaultMemberPreference() {
		t.Fatalf("For(UC2) = %+v, want default", got)
	}
	if len(prefs) != 1 {
		t.Fatalf("empty ids should be ignored: %v", prefs)
	}
}

func TestDefaultRosterIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, ch := range DefaultRoster() {
		if seen[ch.ID] {
			t.Fatalf("duplicate roster id %s", ch.ID)
		}
		seen[ch.ID] = true
	}
}
