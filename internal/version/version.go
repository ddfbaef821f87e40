// Package version carries build metadata injected with -ldflags.
package version

import "fmt"

var (
	// Version is the release tag, set by the build.
	Version = "v0.1.0-dev"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the build metadata on one line.
func String() string {
	return fmt.Sprintf("lamesync %s (commit %s, built %s)", Version, Commit, Date)
}
