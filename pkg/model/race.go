package model

import "time"

type RaceStatus string

const (
	RaceNotStarted  RaceStatus = "not_started"
	RaceNonOfficial RaceStatus = "non_official"
	RaceOfficial    RaceStatus = "official"
	RaceInProgress  RaceStatus = "in_progress"
	RaceDelayed     RaceStatus = "delayed"
	RaceCancelled   RaceStatus = "cancelled"
	RaceFinished    RaceStatus = "finished"
)

var raceStatuses = map[RaceStatus]struct{}{
	RaceNotStarted: {}, RaceNonOfficial: {}, RaceOfficial: {},
	RaceInProgress: {}, RaceDelayed: {}, RaceCancelled: {}, RaceFinished: {},
}

func (s RaceStatus) Valid() bool {
	_, ok := raceStatuses[s]
	return ok
}

type (
	RacePhase struct {
		ID         int
		EventID    int
		Name       string
		OrderIndex int
	}

	Race struct {
		ID        int
		PhaseID   int
		Name      string
		// sequential, unique within a phase
		RaceNumber int
		LaneCount  int
		DistanceM  int
		StartTime  *time.Time
		Status     RaceStatus
	}

	// RaceCrew is a crew's entry in one specific race.
	RaceCrew struct {
		ID     int
		RaceID int
		CrewID int
		Lane   int
	}
)
