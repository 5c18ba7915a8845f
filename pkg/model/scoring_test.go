package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBracketFor(t *testing.T) {
	tests := []struct {
		count int
		want  Bracket
	}{
		{1, Bracket1To3},
		{3, Bracket1To3},
		{4, Bracket4To6},
		{6, Bracket4To6},
		{7, Bracket7To12},
		{12, Bracket7To12},
		{13, Bracket13Plus},
		{40, Bracket13Plus},
	}
	for _, tt := range tests {
		if got := BracketFor(tt.count); got != tt.want {
			t.Errorf("BracketFor(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func sampleTable() PointTable {
	rows := func(vals ...float64) []PointsRow {
		ret := make([]PointsRow, len(vals))
		for i, v := range vals {
			ret[i] = PointsRow{
				Place:      i + 1,
				Individual: decimal.NewFromFloat(v),
				Relay:      decimal.NewFromFloat(v * 1.5),
			}
		}
		return ret
	}
	return PointTable{
		Bracket1To3:   rows(10, 8, 6),
		Bracket7To12:  rows(20, 17, 14, 12, 10, 8, 7, 6, 5, 4, 3, 2),
		Bracket13Plus: rows(25, 21, 18, 15, 13, 11, 9, 8, 7, 6, 5, 4),
	}
}

func TestPointTablePoints(t *testing.T) {
	table := sampleTable()
	tests := []struct {
		name    string
		bracket Bracket
		place   int
		boat    BoatType
		want    string
		wantNil bool
	}{
		{
			name: "individual lookup", bracket: Bracket7To12,
			place: 3, boat: BoatIndividual, want: "14",
		},
		{
			name: "relay uses its own column", bracket: Bracket1To3,
			place: 1, boat: BoatRelay, want: "15",
		},
		{
			name: "beyond last row yields nil", bracket: Bracket7To12,
			place: 15, boat: BoatIndividual, wantNil: true,
		},
		{
			name: "13 plus reuses last row", bracket: Bracket13Plus,
			place: 25, boat: BoatIndividual, want: "4",
		},
		{
			name: "unconfigured bracket yields nil", bracket: Bracket4To6,
			place: 1, boat: BoatIndividual, wantNil: true,
		},
		{
			name: "place zero yields nil", bracket: Bracket1To3,
			place: 0, boat: BoatIndividual, wantNil: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Points(tt.bracket, tt.place, tt.boat)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Points() = %v, want nil", got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("Points() = %v, want %s", got, tt.want)
			}
		})
	}
}
