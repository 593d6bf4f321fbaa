// Package version reports the filter-fallback build, stamped via
// -ldflags "-X bennypowers.dev/filterfallback/internal/version.Version=..."
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GitDirty  = ""
)

// readBuildInfo is swapped out by tests
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the stamped version, the module version when installed
// with go install, or "dev"
func GetVersion() string {
	if Version != "dev" {
		if GitDirty == "dirty" {
			return Version + "-dirty"
		}
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// GetFullVersion appends the short commit and build time when known
func GetFullVersion() string {
	v := GetVersion()
	if GitCommit == "unknown" {
		return v
	}
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if BuildTime == "unknown" {
		return fmt.Sprintf("%s (commit %s)", v, commit)
	}
	return fmt.Sprintf("%s (commit %s, built %s)", v, commit, BuildTime)
}
