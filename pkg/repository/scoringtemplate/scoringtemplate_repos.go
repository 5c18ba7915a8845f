//nolint:whitespace // can't make both editor and linter happy
package scoringtemplate

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ohler55/ojg/oj"
	"github.com/shopspring/decimal"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
)

var selector = `select id, name, type, config from scoring_template`

// point values travel as strings within the jsonb config to keep them exact
type configRow struct {
	Place      int    `json:"place"`
	Individual string `json:"individual"`
	Relay      string `json:"relay"`
}

func toConfig(table model.PointTable) map[string][]configRow {
	ret := make(map[string][]configRow, len(table))
	for bracket, rows := range table {
		items := make([]configRow, 0, len(rows))
		for _, r := range rows {
			items = append(items, configRow{
				Place:      r.Place,
				Individual: r.Individual.String(),
				Relay:      r.Relay.String(),
			})
		}
		ret[string(bracket)] = items
	}
	return ret
}

func fromConfig(cfg map[string][]configRow) (model.PointTable, error) {
	ret := make(model.PointTable, len(cfg))
	for bracket, rows := range cfg {
		items := make([]model.PointsRow, 0, len(rows))
		for _, r := range rows {
			individual, err := decimal.NewFromString(r.Individual)
			if err != nil {
				return nil, err
			}
			relay, err := decimal.NewFromString(r.Relay)
			if err != nil {
				return nil, err
			}
			items = append(items, model.PointsRow{
				Place: r.Place, Individual: individual, Relay: relay,
			})
		}
		ret[model.Bracket(bracket)] = items
	}
	return ret, nil
}

// Upsert stores a template under its unique name.
func Upsert(
	ctx context.Context,
	conn repository.Querier,
	tmpl *model.ScoringTemplate,
) error {
	cfg, err := oj.Marshal(toConfig(tmpl.Table))
	if err != nil {
		return err
	}
	row := conn.QueryRow(ctx, `
	insert into scoring_template (name, type, config) values ($1,$2,$3)
	on conflict (name) do update set type=excluded.type, config=excluded.config
	returning id
		`, tmpl.Name, tmpl.Type, cfg)
	return row.Scan(&tmpl.ID)
}

func LoadByName(ctx context.Context, conn repository.Querier, name string) (
	*model.ScoringTemplate, error,
) {
	row := conn.QueryRow(ctx, fmt.Sprintf("%s where name=$1", selector), name)
	return readData(row)
}

// LoadByType returns the templates registered for a ranking type.
func LoadByType(ctx context.Context, conn repository.Querier, tmplType string) (
	[]*model.ScoringTemplate, error,
) {
	rows, err := conn.Query(ctx,
		fmt.Sprintf("%s where type=$1 order by name", selector), tmplType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make([]*model.ScoringTemplate, 0)
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
	cmdTag, err := conn.Exec(ctx, "delete from scoring_template where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func readData(row pgx.Row) (*model.ScoringTemplate, error) {
	var item model.ScoringTemplate
	var raw []byte
	if err := row.Scan(&item.ID, &item.Name, &item.Type, &raw); err != nil {
		return nil, err
	}
	var cfg map[string][]configRow
	if err := oj.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	table, err := fromConfig(cfg)
	if err != nil {
		return nil, err
	}
	item.Table = table
	return &item, nil
}
