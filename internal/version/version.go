// Package version carries build metadata injected with -ldflags, e.g.
//
//	-X github.com/banshee-data/plycloud/internal/version.Version=v0.3.0
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata on one line.
func String() string {
	return fmt.Sprintf("plycloud %s (commit %s, built %s)", Version, GitSHA, BuildTime)
}
