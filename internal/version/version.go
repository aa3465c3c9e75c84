package version

import (
	"runtime/debug"
	"strings"
)

// Set at build time via ldflags, for example
// -X github.com/rnwolfe/triage/internal/version.Version=v0.4.0
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Short returns the bare version.
func Short() string {
	return Version
}

// Full returns the version followed by whatever commit and build date are
// known, e.g. "v0.4.0 (3f9a2c1, 2026-01-02)".
func Full() string {
	var extra []string
	if Commit != "" {
		extra = append(extra, Commit)
	}
	if Date != "" {
		extra = append(extra, Date)
	}
	if len(extra) == 0 {
		return Version
	}
	return Version + " (" + strings.Join(extra, ", ") + ")"
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(info)
	}
}

// fromBuildInfo fills the values ldflags left unset so `go install` builds
// still report something useful.
func fromBuildInfo(info *debug.BuildInfo) {
	if info == nil {
		return
	}

	// "(devel)" is what untagged builds report.
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	var rev, when string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.time":
			when = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if Commit == "" && rev != "" {
		if len(rev) > 7 {
			rev = rev[:7]
		}
		if dirty {
			rev += "-dirty"
		}
		Commit = rev
	}
	if Date == "" && when != "" {
		if len(when) > 10 {
			when = when[:10]
		}
		Date = when
	}
}
