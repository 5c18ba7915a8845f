//nolint:whitespace // can't make both editor and linter happy
package crew

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
)

var selector = `select id, event_id, category_id, status, club_name, club_code,
	seed_time_ms from crew`

func Create(ctx context.Context, conn repository.Querier, c *model.Crew) error {
	if c.Status == "" {
		c.Status = model.CrewRegistered
	}
	row := conn.QueryRow(ctx, `
	insert into crew (event_id, category_id, status, club_name, club_code,
		seed_time_ms)
	values ($1,$2,$3,$4,$5,$6)
	returning id
		`,
		c.EventID, c.CategoryID, c.Status, c.ClubName, c.ClubCode, c.SeedTimeMs,
	)
	return row.Scan(&c.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Crew, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	return readData(row)
}

func LoadByEvent(ctx context.Context, conn repository.Querier, eventID int) (
	[]*model.Crew, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where event_id=$1 order by id", selector), eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return readAll(rows)
}

// LoadByIDs returns the requested crews in one query, keyed by id.
func LoadByIDs(ctx context.Context, conn repository.Querier, ids []int) (
	map[int]*model.Crew, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where id = any($1)", selector), ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make(map[int]*model.Crew)
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret[item.ID] = item
	}
	return ret, nil
}

func UpdateStatus(
	ctx context.Context,
	conn repository.Querier,
	id int,
	status model.CrewStatus,
) error {
	cmdTag, err := conn.Exec(ctx,
		"update crew set status=$1 where id=$2", status, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return repository.ErrNoData
	}
	return nil
}

func readAll(rows pgx.Rows) ([]*model.Crew, error) {
	ret := make([]*model.Crew, 0)
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func readData(row pgx.Row) (*model.Crew, error) {
	var item model.Crew
	if err := row.Scan(
		&item.ID, &item.EventID, &item.CategoryID, &item.Status,
		&item.ClubName, &item.ClubCode, &item.SeedTimeMs,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
