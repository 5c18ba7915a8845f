//nolint:whitespace // can't make both editor and linter happy
package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
)

var selector = `select id, event_id, code, label, boat_seats, has_coxswain,
	gender, age_group from category`

func Create(ctx context.Context, conn repository.Querier, c *model.Category) error {
	row := conn.QueryRow(ctx, `
	insert into category (event_id, code, label, boat_seats, has_coxswain,
		gender, age_group)
	values ($1,$2,$3,$4,$5,$6,$7)
	returning id
		`,
		c.EventID, c.Code, c.Label, c.BoatSeats, c.HasCoxswain,
		c.Gender, c.AgeGroup,
	)
	return row.Scan(&c.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.Category, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	return readData(row)
}

// LoadByEvent returns the event's categories ordered by code. The stable
// order matters for deterministic heat allocation.
func LoadByEvent(ctx context.Context, conn repository.Querier, eventID int) (
	[]*model.Category, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where event_id=$1 order by code asc", selector), eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.Category, 0)
	for rows.Next() {
		item, err := readData(rows)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

func readData(row pgx.Row) (*model.Category, error) {
	var item model.Category
	if err := row.Scan(
		&item.ID, &item.EventID, &item.Code, &item.Label, &item.BoatSeats,
		&item.HasCoxswain, &item.Gender, &item.AgeGroup,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
