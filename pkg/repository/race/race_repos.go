//nolint:whitespace // can't make both editor and linter happy
package race

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
)

var selector = `select id, phase_id, name, race_number, lane_count, distance_m,
	start_time, status from race`

func Create(ctx context.Context, conn repository.Querier, r *model.Race) error {
	if r.Status == "" {
		r.Status = model.RaceNotStarted
	}
	row := conn.QueryRow(ctx, `
	insert into race (phase_id, name, race_number, lane_count, distance_m,
		start_time, status)
	values ($1,$2,$3,$4,$5,$6,$7)
	returning id
		`,
		r.PhaseID, r.Name, r.RaceNumber, r.LaneCount, r.DistanceM,
		r.StartTime, r.Status,
	)
	return row.Scan(&r.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Race, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	return readData(row)
}

// LoadByPhase returns the phase's races ordered by race number.
func LoadByPhase(ctx context.Context, conn repository.Querier, phaseID int) (
	[]*model.Race, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where phase_id=$1 order by race_number asc", selector),
		phaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return readAll(rows)
}

func LoadByEvent(ctx context.Context, conn repository.Querier, eventID int) (
	[]*model.Race, error,
) {
	rows, err := conn.Query(ctx, fmt.Sprintf(
		`%s where phase_id in (select id from race_phase where event_id=$1)
		order by race_number asc`, selector),
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return readAll(rows)
}

// MaxRaceNumber returns the highest race number used in the phase so far.
func MaxRaceNumber(ctx context.Context, conn repository.Querier, phaseID int) (
	int, error,
) {
	row := conn.QueryRow(ctx,
		"select coalesce(max(race_number),0) from race where phase_id=$1", phaseID)
	var ret int
	if err := row.Scan(&ret); err != nil {
		return 0, err
	}
	return ret, nil
}

// UpdateStatus sets the race status and returns the previous value.
func UpdateStatus(
	ctx context.Context,
	conn repository.Querier,
	id int,
	status model.RaceStatus,
) (model.RaceStatus, error) {
	row := conn.QueryRow(ctx, `
	update race r set status=$1
	from (select id, status from race where id=$2 for update) prev
	where r.id = prev.id
	returning prev.status
		`, status, id)
	var prev model.RaceStatus
	if err := row.Scan(&prev); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNoData
		}
		return "", err
	}
	return prev, nil
}

func CreateRaceCrew(ctx context.Context, conn repository.Querier, rc *model.RaceCrew) error {
	row := conn.QueryRow(ctx, `
	insert into race_crew (race_id, crew_id, lane) values ($1,$2,$3)
	returning id
		`, rc.RaceID, rc.CrewID, rc.Lane)
	return row.Scan(&rc.ID)
}

// LoadCrewEntries returns the race_crew rows for a set of races in one query.
func LoadCrewEntries(ctx context.Context, conn repository.Querier, raceIDs []int) (
	[]*model.RaceCrew, error,
) {
	rows, err := conn.Query(ctx, `
	select id, race_id, crew_id, lane from race_crew
	where race_id = any($1) order by race_id, lane
		`, raceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.RaceCrew, 0)
	for rows.Next() {
		var item model.RaceCrew
		if err := rows.Scan(&item.ID, &item.RaceID, &item.CrewID, &item.Lane); err != nil {
			return nil, err
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from race where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readAll(rows pgx.Rows) ([]*model.Race, error) {
	ret := make([]*model.Race, 0)
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func readData(row pgx.Row) (*model.Race, error) {
	var item model.Race
	if err := row.Scan(
		&item.ID, &item.PhaseID, &item.Name, &item.RaceNumber,
		&item.LaneCount, &item.DistanceM, &item.StartTime, &item.Status,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
