//nolint:whitespace // can't make both editor and linter happy
package timingpoint

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
)

var selector = `select id, event_id, label, order_index, distance_m, token_hash
	from timing_point`

func Create(
	ctx context.Context,
	conn repository.Querier,
	tp *model.TimingPoint,
) error {
	row := conn.QueryRow(ctx, `
	insert into timing_point (event_id, label, order_index, distance_m, token_hash)
	values ($1,$2,$3,$4,$5)
	returning id
		`,
		tp.EventID, tp.Label, tp.OrderIndex, tp.DistanceM, tp.TokenHash,
	)
	return row.Scan(&tp.ID)
}

func LoadByID(ctx context.Context, conn repository.Querier, id int) (
	*model.TimingPoint, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where id=$1", selector), id)
	return readData(row)
}

// LoadByEvent returns the event's timing points ordered by course position.
func LoadByEvent(ctx context.Context, conn repository.Querier, eventID int) (
	[]*model.TimingPoint, error,
) {
	row, err := conn.Query(ctx,
		fmt.Sprintf("%s where event_id=$1 order by order_index asc", selector),
		eventID)
	if err != nil {
		return nil, err
	}
	defer row.Close()
	ret := make([]*model.TimingPoint, 0)
	for row.Next() {
		item, err := readData(row)
		if err != nil {
			return nil, err
		}
		ret = append(ret, item)
	}
	return ret, nil
}

// LoadByTokenHash resolves a hashed station token to its timing point.
func LoadByTokenHash(ctx context.Context, conn repository.Querier, tokenHash string) (
	*model.TimingPoint, error,
) {
	row := conn.QueryRow(ctx,
		fmt.Sprintf("%s where token_hash=$1", selector), tokenHash)
	return readData(row)
}

// UpdateTokenHash replaces the station token hash (token rotation).
func UpdateTokenHash(
	ctx context.Context,
	conn repository.Querier,
	id int,
	tokenHash string,
) error {
	cmdTag, err := conn.Exec(ctx,
		"update timing_point set token_hash=$1 where id=$2", tokenHash, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return repository.ErrNoData
	}
	return nil
}

func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from timing_point where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.TimingPoint, error) {
	var item model.TimingPoint
	if err := row.Scan(
		&item.ID, &item.EventID, &item.Label, &item.OrderIndex,
		&item.DistanceM, &item.TokenHash,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
