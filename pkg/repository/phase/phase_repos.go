//nolint:whitespace // can't make both editor and linter happy
package phase

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
)

var selector = `select id, event_id, name, order_index from race_phase`

func Create(ctx context.Context, conn repository.Querier, p *model.RacePhase) error {
	row := conn.QueryRow(ctx, `
	insert into race_phase (event_id, name, order_index) values ($1,$2,$3)
	returning id
		`,
		p.EventID, p.Name, p.OrderIndex,
	)
	return row.Scan(&p.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.RacePhase, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	return readData(row)
}

func LoadByEvent(ctx context.Context, conn repository.Querier, eventID int) (
	[]*model.RacePhase, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where event_id=$1 order by order_index asc", selector),
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.RacePhase, 0)
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from race_phase where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.RacePhase, error) {
	var item model.RacePhase
	if err := row.Scan(
		&item.ID, &item.EventID, &item.Name, &item.OrderIndex,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
