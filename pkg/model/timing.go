package model

import "time"

type TimingStatus string

const (
	TimingPending  TimingStatus = "pending"
	TimingAssigned TimingStatus = "assigned"
	TimingHidden   TimingStatus = "hidden"
)

type (
	// Timing is a raw timestamped detection from a timing station.
	// It is not yet attributed to a crew.
	Timing struct {
		ID            int
		TimingPointID int
		Timestamp     time.Time
		ManualEntry   bool
		EnteredBy     string
		Status        TimingStatus
	}

	// TimingAssignment binds one timing to one crew. Created and edited by
	// an operator, decoupled in time from the timing itself.
	TimingAssignment struct {
		ID       int
		TimingID int
		CrewID   int
	}
)
