// Package version reports build information for the habit binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time via ldflags:
//
//	-X github.com/rnwolfe/habit/internal/version.Version=v0.3.0
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the machine-readable form printed by `habit version --json`.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

// Get returns the current build info.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
}

// Full returns "version (commit) date".
func Full() string {
	return fmt.Sprintf("%s (%s) %s", Version, Commit, Date)
}

// Short returns just the version.
func Short() string {
	return Version
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		backfill(info)
	}
}

// backfill fills Version, Commit and Date from module build info for
// `go install` builds. Values set through ldflags win.
func backfill(info *debug.BuildInfo) {
	if info == nil {
		return
	}
	// Untagged builds report "(devel)"; keep "dev" for those.
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
	for _, s := range info.Settings {
		if s.Value == "" {
			continue
		}
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = s.Value[:min(7, len(s.Value))]
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
}
