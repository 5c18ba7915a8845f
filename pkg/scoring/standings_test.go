package scoring

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
)

func TestAssignRanks(t *testing.T) {
	tests := []struct {
		name   string
		points []float64
		want   []int
	}{
		{name: "distinct totals", points: []float64{42, 30, 12}, want: []int{1, 2, 3}},
		{name: "tie shares rank, next skips", points: []float64{10, 10, 8}, want: []int{1, 1, 3}},
		{name: "tie in the middle", points: []float64{20, 15, 15, 15, 9}, want: []int{1, 2, 2, 2, 5}},
		{name: "single club", points: []float64{7.5}, want: []int{1}},
		{name: "empty", points: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			standings := make([]*model.ClubRanking, len(tt.points))
			for i, p := range tt.points {
				standings[i] = &model.ClubRanking{
					TotalPoints: decimal.NewFromFloat(p),
				}
			}
			AssignRanks(standings)
			for i, s := range standings {
				if s.Rank != tt.want[i] {
					t.Errorf("standings[%d].Rank = %d, want %d", i, s.Rank, tt.want[i])
				}
			}
		})
	}
}
