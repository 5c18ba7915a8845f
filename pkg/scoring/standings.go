package scoring

import "github.com/openregatta/regatta-service-manager-go/pkg/model"

// AssignRanks writes ranks onto standings already sorted by total points
// descending. A club's rank is 1 plus the number of clubs strictly ahead, so
// equal totals share a rank and the next distinct total takes its 1-based
// list position. Totals [10, 10, 8] rank as [1, 1, 3].
func AssignRanks(standings []*model.ClubRanking) {
	for i, s := range standings {
		if i > 0 && s.TotalPoints.Equal(standings[i-1].TotalPoints) {
			s.Rank = standings[i-1].Rank
			continue
		}
		s.Rank = i + 1
	}
}
