package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/ddieppa/mdagg", Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2024-04-27T15:04:05Z"},
		},
	}

	info := Info{Version: "dev", GitCommit: "none", BuildTime: "unknown"}
	fillFromBuildInfo(&info, bi)
	assert.Equal(t, Info{Version: "v0.4.0", GitCommit: "abc123", BuildTime: "2024-04-27T15:04:05Z"}, info)

	pinned := Info{Version: "1.0.0", GitCommit: "fffffff", BuildTime: "yesterday"}
	fillFromBuildInfo(&pinned, bi)
	assert.Equal(t, Info{Version: "1.0.0", GitCommit: "fffffff", BuildTime: "yesterday"}, pinned)

	devel := Info{Version: "dev"}
	fillFromBuildInfo(&devel, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "dev", devel.Version)
}

func TestInfoString(t *testing.T) {
	i := Info{Version: "1.2.3", GitCommit: "abc", BuildTime: "now", GoVersion: "go1.25.0", Platform: "linux/amd64"}
	assert.Equal(t, "mdagg version 1.2.3 (commit: abc) built at now with go1.25.0 on linux/amd64", i.String())
}
