package version

import "testing"

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build metadata should be initialized")
	}
}

func TestString(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })

	Version = "v1.2.3"
	GitCommit = "unknown"
	if got := String(); got != "v1.2.3" {
		t.Errorf("String() = %q, want v1.2.3", got)
	}

	GitCommit = "abc123"
	if got := String(); got != "v1.2.3 (abc123)" {
		t.Errorf("String() = %q, want %q", got, "v1.2.3 (abc123)")
	}
}
