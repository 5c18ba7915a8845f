//nolint:whitespace // can't make both editor and linter happy
package scoring

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/results"
	categoryrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/category"
	phaserepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/phase"
	racerepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/race"
	rankingrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/ranking"
)

type (
	Engine struct {
		pool     *pgxpool.Pool
		provider TemplateProvider
		agg      *results.Aggregator
		l        *log.Logger
	}

	EngineOption func(*Engine)

	// ScoreResult reports one recompute: the rows now posted for the race
	// and the event standings after the net-delta adjustment.
	ScoreResult struct {
		RaceID    int
		Postings  []*model.RankingPoint
		Standings []*model.ClubRanking
	}

	// posting pairs a pending ranking point with the club it belongs to
	// until the club_ranking row is resolved inside the transaction.
	posting struct {
		point    *model.RankingPoint
		clubName string
	}
)

func WithAggregator(agg *results.Aggregator) EngineOption {
	return func(e *Engine) {
		e.agg = agg
	}
}

func WithEngineLogger(arg *log.Logger) EngineOption {
	return func(e *Engine) {
		e.l = arg
	}
}

func NewEngine(
	pool *pgxpool.Pool,
	provider TemplateProvider,
	opts ...EngineOption,
) *Engine {
	ret := &Engine{
		pool:     pool,
		provider: provider,
		agg:      results.NewAggregator(pool),
		l:        log.Default().Named("scoring"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// ScoreRace recomputes the point postings of one race against the named
// template. Prior postings for the race are replaced and each affected club's
// total is adjusted by the net delta, so running it again with unchanged
// inputs is a no-op on totals.
func (e *Engine) ScoreRace(
	ctx context.Context,
	raceID int,
	templateName string,
) (*ScoreResult, error) {
	race, err := racerepos.LoadByID(ctx, e.pool, raceID)
	if err != nil {
		return nil, err
	}
	phase, err := phaserepos.LoadByID(ctx, e.pool, race.PhaseID)
	if err != nil {
		return nil, err
	}
	tmpl, err := e.provider.Template(templateName)
	if err != nil {
		return nil, err
	}
	postings, err := e.computePostings(ctx, race, phase.EventID, tmpl)
	if err != nil {
		return nil, err
	}

	ret := &ScoreResult{RaceID: raceID}
	err = pgx.BeginFunc(ctx, e.pool, func(tx pgx.Tx) error {
		prev, err := rankingrepos.PreviousTotalsByRanking(ctx, tx, raceID)
		if err != nil {
			return err
		}
		if _, err := rankingrepos.DeleteByRace(ctx, tx, raceID); err != nil {
			return err
		}
		newTotals := make(map[int]decimal.Decimal)
		byClub := make(map[string]*model.ClubRanking)
		for _, p := range postings {
			cr, ok := byClub[p.clubName]
			if !ok {
				cr, err = rankingrepos.GetOrCreateClubRanking(
					ctx, tx, phase.EventID, p.clubName, tmpl.Type)
				if err != nil {
					return err
				}
				byClub[p.clubName] = cr
			}
			p.point.ClubRankingID = cr.ID
			if err := rankingrepos.InsertRankingPoint(ctx, tx, p.point); err != nil {
				return err
			}
			if p.point.Points != nil {
				newTotals[cr.ID] = newTotals[cr.ID].Add(*p.point.Points)
			}
			ret.Postings = append(ret.Postings, p.point)
		}
		for _, id := range affectedRankings(prev, newTotals) {
			delta := newTotals[id].Sub(prev[id])
			if delta.IsZero() {
				continue
			}
			if err := rankingrepos.AdjustTotal(ctx, tx, id, delta); err != nil {
				return fmt.Errorf("adjust club ranking %d: %w", id, err)
			}
		}
		standings, err := rankingrepos.LoadClubRankings(
			ctx, tx, phase.EventID, tmpl.Type)
		if err != nil {
			return err
		}
		AssignRanks(standings)
		for _, s := range standings {
			if err := rankingrepos.UpdateRank(ctx, tx, s.ID, s.Rank); err != nil {
				return err
			}
		}
		ret.Standings = standings
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.l.Info("race scored",
		log.Int("raceId", raceID),
		log.Int("postings", len(ret.Postings)),
		log.String("template", tmpl.Name))
	return ret, nil
}

// computePostings turns the race's ranked results into pending ranking
// points. An unapproved distance or a fully excluded field yields no
// postings, which the caller still applies so stale rows get cleared.
//
//nolint:funlen // the eligibility pipeline reads better in one piece
func (e *Engine) computePostings(
	ctx context.Context,
	race *model.Race,
	eventID int,
	tmpl *Template,
) ([]*posting, error) {
	rule := tmpl.Eligibility.MatchDistance(race.DistanceM)
	if rule == nil {
		e.l.Debug("distance not approved for scoring",
			log.Int("raceId", race.ID), log.Int("distanceM", race.DistanceM))
		return nil, nil
	}
	res, err := e.agg.RaceResults(ctx, race.ID)
	if err != nil {
		return nil, err
	}
	categories, err := categoryrepos.LoadByEvent(ctx, e.pool, eventID)
	if err != nil {
		return nil, err
	}
	catByID := lo.KeyBy(categories, func(c *model.Category) int { return c.ID })

	ret := make([]*posting, 0, len(res.Entries))
	byCategory := lo.GroupBy(res.Entries,
		func(entry *results.Entry) int { return entry.CategoryID })
	for catID, entries := range byCategory {
		cat, ok := catByID[catID]
		if !ok || tmpl.Eligibility.CategoryExcluded(cat) {
			continue
		}
		eligible := lo.Filter(entries, func(entry *results.Entry, _ int) bool {
			return entry.DurationMs != nil && *entry.DurationMs != 0
		})
		count := len(eligible)
		bracket := model.BracketFor(count)
		// entries arrive duration-ordered from the aggregator, so the
		// eligible subset keeps that order
		for i, entry := range eligible {
			place := i + 1
			ret = append(ret, &posting{
				clubName: entry.ClubName,
				point: &model.RankingPoint{
					RaceID:           race.ID,
					CrewID:           entry.CrewID,
					Place:            place,
					Points:           tmpl.Table.Points(bracket, place, rule.Boat),
					PointsType:       tmpl.Type,
					ParticipantCount: count,
				},
			})
		}
	}
	return ret, nil
}

// affectedRankings is the union of club_ranking ids touched before or after
// the recompute, in deterministic order.
func affectedRankings(
	prev, next map[int]decimal.Decimal,
) []int {
	ids := lo.Keys(prev)
	for id := range next {
		if _, ok := prev[id]; !ok {
			ids = append(ids, id)
		}
	}
	// stable iteration keeps sql logs and tests reproducible
	sort.Ints(ids)
	return ids
}
