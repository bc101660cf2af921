// Package version provides build-time version information.
package version

import "fmt"

// Set at build time with
//
//	-ldflags "-X knitpattern/internal/version.Version=... -X ..."
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the build information for a -version flag.
func String(program string) string {
	return fmt.Sprintf("%s %s (built %s, commit %s)", program, Version, BuildTime, GitCommit)
}
