// Package version provides version information for the mdagg CLI.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are populated at build time using -ldflags.
// Example:
// go build -ldflags "-X 'github.com/ddieppa/mdagg/pkg/version.Version=1.2.3' -X 'github.com/ddieppa/mdagg/pkg/version.Commit=abcdefg'"
var (
	Version   = "dev"     // Semantic version of the application
	Commit    = "none"    // Git commit hash
	BuildTime = "unknown" // Build timestamp
)

// Info contains comprehensive version information.
type Info struct {
	Version   string `yaml:"version"`
	GitCommit string `yaml:"commit"`
	BuildTime string `yaml:"buildTime"`
	GoVersion string `yaml:"goVersion"`
	Platform  string `yaml:"platform"`
}

// Get returns the current version information. Values not set through -ldflags are
// taken from the module build info when the binary was built with `go install`.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	return info
}

func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "none" {
				info.GitCommit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = s.Value
			}
		}
	}
}

// String returns the version information in a standard, single-line format.
// Example Output:
// mdagg version 1.2.3 (commit: abcdefg) built at 2024-04-27T15:04:05Z with go1.25.0 on linux/amd64
func (i Info) String() string {
	return fmt.Sprintf(
		"mdagg version %s (commit: %s) built at %s with %s on %s",
		i.Version,
		i.GitCommit,
		i.BuildTime,
		i.GoVersion,
		i.Platform,
	)
}
