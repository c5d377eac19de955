package buildinfo

import "testing"

func TestSummary(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	defer func() { Version, Commit, Date = oldVersion, oldCommit, oldDate }()

	Version, Commit, Date = "1.2.3", "0123456789abcdef", "2026-03-01"
	if got := Summary(); got != "1.2.3 (commit=0123456, date=2026-03-01)" {
		t.Fatalf("unexpected summary: %q", got)
	}
	Commit, Date = "", ""
	if got := Summary(); got != "1.2.3" {
		t.Fatalf("unexpected summary: %q", got)
	}
}
