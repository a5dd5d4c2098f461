// Package version holds build-time version information, injected via
// -ldflags at release time.
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a human-readable version string.
func Info() string {
	return fmt.Sprintf("voxd %s (commit %s, built %s)", Version, Commit, Date)
}
