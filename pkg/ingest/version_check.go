package ingest

import (
	"strings"

	"golang.org/x/mod/semver"
)

const DefaultMinStationVersion string = "v0.3.0"

// CheckStationVersion reports whether a station client version satisfies the
// required minimum. A missing "v" prefix is tolerated.
func CheckStationVersion(toCheck, required string) bool {
	if !strings.HasPrefix(toCheck, "v") {
		toCheck = "v" + toCheck
	}
	if !strings.HasPrefix(required, "v") {
		required = "v" + required
	}
	return semver.Compare(toCheck, required) >= 0
}
