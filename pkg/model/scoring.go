package model

import "github.com/shopspring/decimal"

type BoatType string

const (
	BoatIndividual BoatType = "individual"
	BoatRelay      BoatType = "relay"
)

// Bracket is the participant-count bucket a point table row set belongs to.
type Bracket string

const (
	Bracket1To3   Bracket = "1_3_participants"
	Bracket4To6   Bracket = "4_6_participants"
	Bracket7To12  Bracket = "7_12_participants"
	Bracket13Plus Bracket = "13_plus_participants"
)

// BracketFor maps a participant count onto its bracket.
func BracketFor(count int) Bracket {
	switch {
	case count <= 3:
		return Bracket1To3
	case count <= 6:
		return Bracket4To6
	case count <= 12:
		return Bracket7To12
	default:
		return Bracket13Plus
	}
}

type (
	// PointsRow maps a finishing place to its point values per boat type.
	PointsRow struct {
		Place      int
		Individual decimal.Decimal
		Relay      decimal.Decimal
	}

	// PointTable holds the configured rows per bracket, ordered by place.
	PointTable map[Bracket][]PointsRow

	// ScoringTemplate is a named, typed point table configuration.
	ScoringTemplate struct {
		ID    int
		Name  string
		Type  string
		Table PointTable
	}
)

// Points returns the configured value for (bracket, place, boat type).
// The 13+ bracket reuses its last row for any place beyond the configured
// rows; every other bracket yields nil past its last row.
func (t PointTable) Points(bracket Bracket, place int, boat BoatType) *decimal.Decimal {
	rows, ok := t[bracket]
	if !ok || len(rows) == 0 || place < 1 {
		return nil
	}
	var row *PointsRow
	for i := range rows {
		if rows[i].Place == place {
			row = &rows[i]
			break
		}
	}
	if row == nil {
		if bracket == Bracket13Plus && place > rows[len(rows)-1].Place {
			row = &rows[len(rows)-1]
		} else {
			return nil
		}
	}
	val := row.Individual
	if boat == BoatRelay {
		val = row.Relay
	}
	return &val
}

type (
	// ClubRanking is a club's accumulated standing within an event.
	// One row per (event, club, ranking type); TotalPoints is an accumulator
	// adjusted by net deltas on each scoring recompute.
	ClubRanking struct {
		ID          int
		EventID     int
		ClubName    string
		RankingType string
		TotalPoints decimal.Decimal
		Rank        int
	}

	// RankingPoint is one scored crew-in-race posting.
	RankingPoint struct {
		ID               int
		ClubRankingID    int
		RaceID           int
		CrewID           int
		Place            int
		Points           *decimal.Decimal
		PointsType       string
		ParticipantCount int
	}
)
