// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X github.com/rsify/jay/pkg/buildinfo.Var=value" to "go build".
package buildinfo

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rsify/jay/pkg/prog"
)

// Version identifies the version of jay. On development commits, it
// identifies the next release.
const Version = "0.1.0"

// VersionSuffix is appended to Version to build the full version string. It
// is derived from the build information of the binary when empty.
var VersionSuffix = ""

// Program is the buildinfo subprogram, run with -version.
var Program prog.Program = program{}

type program struct{}

func (program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	if !f.Version {
		return prog.ErrNotSuitable
	}
	fmt.Fprintln(fds[1], FullVersion())
	return nil
}

// FullVersion returns the version with its suffix.
func FullVersion() string {
	info, _ := debug.ReadBuildInfo()
	return Version + suffix(VersionSuffix, info)
}

func suffix(override string, info *debug.BuildInfo) string {
	if override != "" {
		return override
	}
	if info == nil {
		return "-dev.unknown"
	}
	var revision string
	modified := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if revision == "" {
		return "-dev.unknown"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if modified {
		return "-dev." + revision + "-dirty"
	}
	return "-dev." + revision
}
