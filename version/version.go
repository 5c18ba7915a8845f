package version

import "fmt"

// values are set at build time via ldflags
var (
	Version     = "dev"
	GitCommit   = "unknown"
	BuildDate   = "unknown"
	FullVersion = fmt.Sprintf("%s (%s) %s", Version, GitCommit, BuildDate)
)
