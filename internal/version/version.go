package version

import (
	"fmt"

	"github.com/aatumaykin/cqbot/internal/constants"
)

var (
	Version   = constants.DefaultVersion
	BuildTime = constants.DefaultBuildTime
	GitCommit = constants.DefaultGitCommit
	GoVersion = constants.DefaultGoVersion
)

func SetInfo(v, bt, gc, gv string) {
	if v != "" {
		Version = v
	}
	if bt != "" {
		BuildTime = bt
	}
	if gc != "" {
		GitCommit = gc
	}
	if gv != "" {
		GoVersion = gv
	}
}

// String renders the build information on one line.
func String() string {
	return fmt.Sprintf("cqbot %s (commit %s, built %s, %s)", Version, GitCommit, BuildTime, GoVersion)
}
