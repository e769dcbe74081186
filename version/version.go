// Package version reports the build version of nmwifi.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X nmwifi/version.Version=v0.3.0 -X nmwifi/version.Commit=abc1234"
//
// Left empty, they are filled from the module build info.
var (
	Version = ""
	Commit  = ""
)

func init() {
	info, _ := debug.ReadBuildInfo()
	Version, Commit = resolve(Version, Commit, info)
}

// resolve fills in whatever ldflags left empty. A version installed with
// go install comes from the module version; a local build gets dev-<date>
// from the VCS time.
func resolve(version, commit string, info *debug.BuildInfo) (string, string) {
	var vcsRevision, vcsModified, vcsTime string
	if info != nil {
		if version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				vcsRevision = setting.Value
			case "vcs.modified":
				vcsModified = setting.Value
			case "vcs.time":
				vcsTime = setting.Value
			}
		}
	}

	if commit == "" && vcsRevision != "" {
		commit = vcsRevision
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if vcsModified == "true" {
			commit += "-dirty"
		}
	}

	if version == "" && vcsTime != "" {
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			version = "dev-" + t.Format("20060102")
		}
	}

	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	return version, commit
}

// Full returns the version with its commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
