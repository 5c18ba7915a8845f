package model

import (
	"strings"
	"time"
)

type (
	Event struct {
		ID        int
		Name      string
		StartDate time.Time
		EndDate   time.Time
	}

	// TimingPoint is an ordered checkpoint along the course.
	// Within an event the order index values are distinct.
	TimingPoint struct {
		ID         int
		EventID    int
		Label      string
		OrderIndex int
		DistanceM  int
		// sha256 hash of the rotating station access token
		TokenHash string
	}
)

// StartPoint returns the timing point with the smallest order index.
// The label is irrelevant for the start detection.
func StartPoint(points []*TimingPoint) *TimingPoint {
	var ret *TimingPoint
	for _, p := range points {
		if ret == nil || p.OrderIndex < ret.OrderIndex {
			ret = p
		}
	}
	return ret
}

// FinishPoint returns the point labeled "Finish" or "Arrivée"
// (case-insensitive) or, failing that, the point with the largest order index.
func FinishPoint(points []*TimingPoint) *TimingPoint {
	var ret *TimingPoint
	for _, p := range points {
		label := strings.ToLower(strings.TrimSpace(p.Label))
		if label == "finish" || label == "arrivée" || label == "arrivee" {
			return p
		}
		if ret == nil || p.OrderIndex > ret.OrderIndex {
			ret = p
		}
	}
	return ret
}
