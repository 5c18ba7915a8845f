//nolint:whitespace // can't make both editor and linter happy
package ranking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
)

// numeric columns travel as strings to keep decimal exact

var selector = `select id, event_id, club_name, ranking_type, total_points::text,
	rank from club_ranking`

// GetOrCreateClubRanking returns the accumulator row for
// (event, club, ranking type), creating it with zero points when missing.
func GetOrCreateClubRanking(
	ctx context.Context,
	conn repository.Querier,
	eventID int,
	clubName, rankingType string,
) (*model.ClubRanking, error) {
	row := conn.QueryRow(ctx, `
	insert into club_ranking (event_id, club_name, ranking_type)
	values ($1,$2,$3)
	on conflict (event_id, club_name, ranking_type) do update
		set club_name=excluded.club_name
	returning id, event_id, club_name, ranking_type, total_points::text, rank
		`, eventID, clubName, rankingType)
	return readClubRanking(row)
}

// AdjustTotal applies a net delta to the club's total points.
func AdjustTotal(
	ctx context.Context,
	conn repository.Querier,
	clubRankingID int,
	delta decimal.Decimal,
) error {
	cmdTag, err := conn.Exec(ctx,
		"update club_ranking set total_points = total_points + $1::numeric where id=$2",
		delta.String(), clubRankingID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return repository.ErrNoData
	}
	return nil
}

// LoadClubRankings returns the standings for an event and ranking type,
// ordered by total points descending.
func LoadClubRankings(
	ctx context.Context,
	conn repository.Querier,
	eventID int,
	rankingType string,
) ([]*model.ClubRanking, error) {
	rows, err := conn.Query(ctx, fmt.Sprintf(
		`%s where event_id=$1 and ranking_type=$2
		order by total_points desc, club_name asc`, selector),
		eventID, rankingType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.ClubRanking, 0)
	for rows.Next() {
		item, err := readClubRanking(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func UpdateRank(
	ctx context.Context,
	conn repository.Querier,
	clubRankingID, rank int,
) error {
	_, err := conn.Exec(ctx,
		"update club_ranking set rank=$1 where id=$2", rank, clubRankingID)
	return err
}

// PreviousTotalsByRanking returns, per club_ranking id, the sum of points
// currently posted for the given race. Used to compute net deltas before a
// recompute replaces the postings.
func PreviousTotalsByRanking(
	ctx context.Context,
	conn repository.Querier,
	raceID int,
) (map[int]decimal.Decimal, error) {
	rows, err := conn.Query(ctx, `
	select club_ranking_id, coalesce(sum(points),0)::text from ranking_point
	where race_id=$1 group by club_ranking_id
		`, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make(map[int]decimal.Decimal)
	for rows.Next() {
		var id int
		var sum string
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, err
		}
		val, err := decimal.NewFromString(sum)
		if err != nil {
			return nil, err
		}
		ret[id] = val
	}
	return ret, nil
}

// DeleteByRace removes all point postings of a race, returns rows deleted.
func DeleteByRace(ctx context.Context, conn repository.Querier, raceID int) (
	int, error,
) {
	cmdTag, err := conn.Exec(ctx,
		"delete from ranking_point where race_id=$1", raceID)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func InsertRankingPoint(
	ctx context.Context,
	conn repository.Querier,
	rp *model.RankingPoint,
) error {
	var points *string
	if rp.Points != nil {
		s := rp.Points.String()
		points = &s
	}
	row := conn.QueryRow(ctx, `
	insert into ranking_point (club_ranking_id, race_id, crew_id, place, points,
		points_type, participant_count)
	values ($1,$2,$3,$4,$5::numeric,$6,$7)
	returning id
		`,
		rp.ClubRankingID, rp.RaceID, rp.CrewID, rp.Place, points,
		rp.PointsType, rp.ParticipantCount,
	)
	return row.Scan(&rp.ID)
}

// LoadByRace returns the point postings of a race ordered by place.
func LoadByRace(ctx context.Context, conn repository.Querier, raceID int) (
	[]*model.RankingPoint, error,
) {
	rows, err := conn.Query(ctx, `
	select id, club_ranking_id, race_id, crew_id, place, points::text,
		points_type, participant_count
	from ranking_point where race_id=$1 order by place asc, crew_id asc
		`, raceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.RankingPoint, 0)
	for rows.Next() {
		var item model.RankingPoint
		var points *string
		if err := rows.Scan(
			&item.ID, &item.ClubRankingID, &item.RaceID, &item.CrewID,
			&item.Place, &points, &item.PointsType, &item.ParticipantCount,
		); err != nil {
			return nil, err
		}
		if points != nil {
			val, err := decimal.NewFromString(*points)
			if err != nil {
				return nil, err
			}
			item.Points = &val
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

func readClubRanking(row pgx.Row) (*model.ClubRanking, error) {
	var item model.ClubRanking
	var total string
	if err := row.Scan(
		&item.ID, &item.EventID, &item.ClubName, &item.RankingType,
		&total, &item.Rank,
	); err != nil {
		return nil, err
	}
	var err error
	item.TotalPoints, err = decimal.NewFromString(total)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
