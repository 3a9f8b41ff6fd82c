// Package version provides version information for the yolk CLI.
//
// Usage:
//
//	version.GetVersionString()
package version

import (
	"fmt"
	"runtime"
)

// Version, Commit and BuildTime are set with -ldflags during release builds.
var (
	Version   = "v0.1.0-dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info is the machine-readable version report.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the version report for this binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetVersionString returns the version string in the format:
// yolk version v0.1.0 (commit 4a9b2c1, built 2025-10-31T12:10:00Z)
func GetVersionString() string {
	return fmt.Sprintf("yolk version %s (commit %s, built %s)", Version, Commit, BuildTime)
}

// GetFullVersionInfo returns the version string plus the Go toolchain and platform.
func GetFullVersionInfo() string {
	info := Get()
	return fmt.Sprintf("%s\ngo version %s (%s)", GetVersionString(), info.GoVersion, info.Platform)
}
