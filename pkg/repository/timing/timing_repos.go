//nolint:whitespace // can't make both editor and linter happy
package timing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
)

var selector = `select id, timing_point_id, ts, manual_entry, entered_by, status
	from timing`

func Create(ctx context.Context, conn repository.Querier, t *model.Timing) error {
	if t.Status == "" {
		t.Status = model.TimingPending
	}
	row := conn.QueryRow(ctx, `
	insert into timing (timing_point_id, ts, manual_entry, entered_by, status)
	values ($1,$2,$3,$4,$5)
	returning id
		`,
		t.TimingPointID, t.Timestamp, t.ManualEntry, t.EnteredBy, t.Status,
	)
	return row.Scan(&t.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Timing, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	return readData(row)
}

// LoadByPoint returns all timings at a timing point ordered by timestamp.
func LoadByPoint(ctx context.Context, conn repository.Querier, pointID int) (
	[]*model.Timing, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where timing_point_id=$1 order by ts asc", selector),
		pointID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return readAll(rows)
}

func UpdateStatus(
	ctx context.Context,
	conn repository.Querier,
	id int,
	status model.TimingStatus,
) error {
	cmdTag, err := conn.Exec(ctx,
		"update timing set status=$1 where id=$2", status, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return repository.ErrNoData
	}
	return nil
}

// UpsertAssignment binds a timing to a crew. Re-assigning an already
// assigned timing just rewrites the crew link.
func UpsertAssignment(
	ctx context.Context,
	conn repository.Querier,
	timingID, crewID int,
) (*model.TimingAssignment, error) {
	row := conn.QueryRow(ctx, `
	insert into timing_assignment (timing_id, crew_id) values ($1,$2)
	on conflict (timing_id) do update set crew_id=excluded.crew_id
	returning id
		`, timingID, crewID)
	ret := &model.TimingAssignment{TimingID: timingID, CrewID: crewID}
	if err := row.Scan(&ret.ID); err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx,
		"update timing set status=$1 where id=$2 and status=$3",
		model.TimingAssigned, timingID, model.TimingPending); err != nil {
		return nil, err
	}
	return ret, nil
}

// LoadAssignmentsForTimings returns timing id -> crew id for a batch of
// timings. Unassigned timings are simply absent from the result.
func LoadAssignmentsForTimings(
	ctx context.Context,
	conn repository.Querier,
	timingIDs []int,
) (map[int]int, error) {
	rows, err := conn.Query(ctx,
		"select timing_id, crew_id from timing_assignment where timing_id = any($1)",
		timingIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make(map[int]int)
	for rows.Next() {
		var timingID, crewID int
		if err := rows.Scan(&timingID, &crewID); err != nil {
			return nil, err
		}
		ret[timingID] = crewID
	}
	return ret, nil
}

func LoadAssignment(ctx context.Context, conn repository.Querier, timingID int) (
	*model.TimingAssignment, error,
) {
	row := conn.QueryRow(ctx,
		"select id, timing_id, crew_id from timing_assignment where timing_id=$1",
		timingID)
	var item model.TimingAssignment
	if err := row.Scan(&item.ID, &item.TimingID, &item.CrewID); err != nil {
		return nil, err
	}
	return &item, nil
}

// LoadLatestAssignedAt returns the most recent visible timing assigned to the
// crew at the given timing point.
func LoadLatestAssignedAt(
	ctx context.Context,
	conn repository.Querier,
	pointID, crewID int,
) (*model.Timing, error) {
	row := conn.QueryRow(ctx, fmt.Sprintf(
		`%s t
		join timing_assignment ta on ta.timing_id = t.id
		where t.timing_point_id=$1 and ta.crew_id=$2 and t.status != $3
		order by t.ts desc limit 1`,
		assignedSelector), pointID, crewID, model.TimingHidden)
	return readData(row)
}

var assignedSelector = `select t.id, t.timing_point_id, t.ts, t.manual_entry,
	t.entered_by, t.status from timing`

// LoadLatestForCrewsAt returns, per crew, the most recent visible timing
// assigned at the given timing point. One query for the whole crew set;
// downstream consumers must not issue per-crew lookups.
func LoadLatestForCrewsAt(
	ctx context.Context,
	conn repository.Querier,
	pointID int,
	crewIDs []int,
) (map[int]*model.Timing, error) {
	rows, err := conn.Query(ctx,
		`select distinct on (ta.crew_id) ta.crew_id,
			t.id, t.timing_point_id, t.ts, t.manual_entry, t.entered_by, t.status
		from timing t
		join timing_assignment ta on ta.timing_id = t.id
		where t.timing_point_id=$1 and ta.crew_id = any($2) and t.status != $3
		order by ta.crew_id, t.ts desc`,
		pointID, crewIDs, model.TimingHidden)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make(map[int]*model.Timing)
	for rows.Next() {
		var crewID int
		var item model.Timing
		if err := rows.Scan(&crewID,
			&item.ID, &item.TimingPointID, &item.Timestamp,
			&item.ManualEntry, &item.EnteredBy, &item.Status,
		); err != nil {
			return nil, err
		}
		ret[crewID] = &item
	}
	return ret, nil
}

func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from timing where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readAll(rows pgx.Rows) ([]*model.Timing, error) {
	ret := make([]*model.Timing, 0)
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func readData(row pgx.Row) (*model.Timing, error) {
	var item model.Timing
	if err := row.Scan(
		&item.ID, &item.TimingPointID, &item.Timestamp,
		&item.ManualEntry, &item.EnteredBy, &item.Status,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
