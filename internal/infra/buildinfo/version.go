// Package buildinfo exposes build-time version information for devserve.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/devserve/internal/infra/buildinfo.Version=v0.3.0" ./cmd/devserve
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// Build-time variables (set via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info contains build information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information. When no commit was injected the VCS
// revision recorded by the Go toolchain is used instead.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	if info.Commit == "unknown" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && s.Value != "" {
					info.Commit = s.Value
				}
			}
		}
	}

	return info
}

// String returns a formatted version string.
func String() string {
	info := Get()
	return info.Version + " (commit: " + info.Commit + ", built: " + info.BuildTime + ", " + info.GoVersion + ")"
}
