package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origCommit, origDate := Commit, Date
	defer func() { Commit, Date = origCommit, origDate }()

	Commit, Date = "unknown", "unknown"
	if got := String(); !strings.HasPrefix(got, "dynpal version "+Version) {
		t.Errorf("String() = %q", got)
	}

	Commit, Date = "abc", "2026-01-01T00:00:00Z"
	if got := String(); !strings.Contains(got, "commit: abc,") {
		t.Errorf("String() with short commit = %q", got)
	}

	Commit = "0123456789abcdef"
	if got := String(); !strings.Contains(got, "commit: 01234567,") {
		t.Errorf("String() with long commit = %q", got)
	}
}
