package nats

import "fmt"

const (
	// SubjectStationTiming is the request/reply subject timing stations
	// send their impulses to.
	SubjectStationTiming = "rsm.station.timing"

	liveTimingPrefix = "rsm.live.timing"
	raceStatusPrefix = "rsm.race.status"
)

func LiveTimingSubject(timingPointID int) string {
	return fmt.Sprintf("%s.%d", liveTimingPrefix, timingPointID)
}

func RaceStatusSubject(eventID int) string {
	return fmt.Sprintf("%s.%d", raceStatusPrefix, eventID)
}

// RaceStatusWildcard matches the status subjects of all events.
func RaceStatusWildcard() string {
	return raceStatusPrefix + ".*"
}
