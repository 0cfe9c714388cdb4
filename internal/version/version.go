package version

// Version is the hapsite binary version, set at build time:
// go build -ldflags "-X github.com/humanagencyprotocol/hapsite/internal/version.Version=v0.3.0".
//
// It is unrelated to the content Version read from the package manifest.
var Version = "dev"

// Build metadata, also populated via ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the binary version with its commit for --version output.
func String() string {
	if GitCommit == "unknown" || GitCommit == "" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}
