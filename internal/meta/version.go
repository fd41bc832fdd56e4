// Package meta holds the build information of Cloud-Pulse.
package meta

import (
	"fmt"
)

var (
	// Version is the semantic version of Cloud-Pulse.
	// This value is injected at build time via ldflags.
	Version = "HEAD"

	// Commit is the git commit hash.
	// This value is injected at build time via ldflags.
	Commit = "UNKNOWN"
)

// UserAgent is the User-Agent header for the requests to the status endpoints.
func UserAgent() string {
	return fmt.Sprintf("cloudpulse/%s status check", Version)
}
