//nolint:whitespace // can't make both editor and linter happy
package event

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
)

var selector = `select id, name, start_date, end_date from event`

func Create(ctx context.Context, conn repository.Querier, event *model.Event) error {
	row := conn.QueryRow(ctx, `
	insert into event (name, start_date, end_date) values ($1,$2,$3)
	returning id
		`,
		event.Name, event.StartDate, event.EndDate,
	)
	return row.Scan(&event.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Event, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	return readData(row)
}

func LoadAll(ctx context.Context, conn repository.Querier) (
	[]*model.Event, error,
) {
	row, err := conn.Query(ctx, fmt.Sprintf("%s order by start_date desc", selector))
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.Event, 0)
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from event where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.Event, error) {
	var item model.Event
	if err := row.Scan(
		&item.ID, &item.Name, &item.StartDate, &item.EndDate,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
