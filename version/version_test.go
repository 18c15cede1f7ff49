package version

import "testing"

func TestGetFullVersion(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	}()

	Version, GitCommit, BuildDate = "dev", "unknown", "unknown"
	if got := GetFullVersion(); got != "dev" {
		t.Errorf("expected bare version without build info, got %q", got)
	}

	Version, GitCommit, BuildDate = "1.2.0", "abc1234", "2026-08-30"
	want := "1.2.0 (commit abc1234, built 2026-08-30)"
	if got := GetFullVersion(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
