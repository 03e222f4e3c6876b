package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time using -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info represents version information.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"git_commit,omitempty"`
	BuildTime string    `json:"build_time,omitempty"`
	GoVersion string    `json:"go_version"`
	BuildDate time.Time `json:"-"`
	IsRelease bool      `json:"is_release"`
	IsDirty   bool      `json:"is_dirty"`
}

// GetVersionInfo merges the stamped variables with the embedded build info.
// Stamped values win.
func GetVersionInfo() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: shortCommit(GitCommit),
		BuildTime: BuildTime,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = buildInfo.GoVersion
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = shortCommit(setting.Value)
				}
			case "vcs.modified":
				info.IsDirty = setting.Value == "true"
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = setting.Value
				}
			}
		}
	}

	if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
		info.BuildDate = t
	}
	return info
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}

// Short returns "<version>[-<commit>][-dirty]".
func (i *Info) Short() string {
	s := i.Version
	if i.GitCommit != "" {
		s += "-" + i.GitCommit
		if i.IsDirty {
			s += "-dirty"
		}
	}
	return s
}

// String returns the multi-line form printed by the version command.
func (i *Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "version:    %s\n", i.Version)
	if i.GitCommit != "" {
		fmt.Fprintf(&b, "commit:     %s\n", i.GitCommit)
	}
	if !i.BuildDate.IsZero() {
		fmt.Fprintf(&b, "built:      %s\n", i.BuildDate.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "go:         %s\n", i.GoVersion)
	return b.String()
}

// UserAgent is sent by the watch client, e.g. "streamhub/1.2.0-abc1234".
func UserAgent() string {
	return "streamhub/" + GetVersionInfo().Short()
}
