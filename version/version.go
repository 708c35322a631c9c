package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at build time using -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

const shortCommit = 7

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty"`
}

// Get returns the build information, filling unset values from the
// module build info.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	if len(info.GitCommit) > shortCommit {
		info.GitCommit = info.GitCommit[:shortCommit]
	}
	return info
}

// String renders "1.0.0 (abc1234-dirty, built 2024-01-15T10:30:00Z)".
func (i Info) String() string {
	var meta []string
	if i.GitCommit != "" {
		c := i.GitCommit
		if i.Dirty {
			c += "-dirty"
		}
		meta = append(meta, c)
	}
	if i.BuildTime != "" {
		meta = append(meta, "built "+i.BuildTime)
	}
	if len(meta) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(meta, ", "))
}

// UserAgent returns the User-Agent sent by the okreq CLI.
func UserAgent() string {
	return "okreq/" + Version
}
