// Package version reports build metadata for the backloop binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Commit and BuildTime are set with -ldflags "-X". When unset, the VCS
// stamp embedded by the go command is used.
var (
	Commit    = ""
	BuildTime = ""
)

// Info is the resolved build metadata.
type Info struct {
	Commit    string
	BuildTime string
	Modified  bool
}

// Current resolves build metadata from ldflags, falling back to the
// embedded build info.
func Current() Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(Commit, BuildTime, bi)
}

func resolve(commit, buildTime string, bi *debug.BuildInfo) Info {
	info := Info{Commit: commit, BuildTime: buildTime}
	if bi != nil {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.BuildTime == "" {
		info.BuildTime = "unknown"
	}
	return info
}

// String formats the metadata as printed by `backloop version`.
func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("backloop dev (commit: %s, built: %s)", commit, i.BuildTime)
}

// String returns the current version string.
func String() string {
	return Current().String()
}
