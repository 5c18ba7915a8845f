//nolint:whitespace // can't make both editor and linter happy
package results

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/relative"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
	crewrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/crew"
	phaserepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/phase"
	racerepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/race"
	timingrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/timing"
	tprepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/timingpoint"
)

type (
	Aggregator struct {
		pool     *pgxpool.Pool
		resolver *relative.Resolver
		l        *log.Logger
	}

	Option func(*Aggregator)

	RaceResult struct {
		Race    *model.Race
		Entries []*Entry
	}

	PhaseResult struct {
		Phase *model.RacePhase
		Races []*RaceResult
		// entries of the whole phase per category, ranked scratch
		ByCategory map[int][]*Entry
	}

	EventResult struct {
		EventID    int
		ByCategory map[int][]*Entry
	}
)

func WithResolver(r *relative.Resolver) Option {
	return func(a *Aggregator) {
		a.resolver = r
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(a *Aggregator) {
		a.l = arg
	}
}

func NewAggregator(pool *pgxpool.Pool, opts ...Option) *Aggregator {
	ret := &Aggregator{
		pool:     pool,
		resolver: relative.NewResolver(),
		l:        log.Default().Named("results"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// RaceResults computes the ordered, ranked result of one race.
func (a *Aggregator) RaceResults(ctx context.Context, raceID int) (
	*RaceResult, error,
) {
	r, err := racerepos.LoadByID(ctx, a.pool, raceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNoData
		}
		return nil, err
	}
	phase, err := phaserepos.LoadByID(ctx, a.pool, r.PhaseID)
	if err != nil {
		return nil, err
	}
	byRace, err := a.collect(ctx, phase.EventID, []*model.Race{r})
	if err != nil {
		return nil, err
	}
	entries := byRace[r.ID]
	Apply(entries, func(e *Entry, pos *int) {
		e.Position = pos
		e.RankInRace = pos
	})
	return &RaceResult{Race: r, Entries: entries}, nil
}

// PhaseResults computes every race of the phase plus the scratch ranking of
// each category across all heats of the phase.
func (a *Aggregator) PhaseResults(ctx context.Context, phaseID int) (
	*PhaseResult, error,
) {
	phase, err := phaserepos.LoadByID(ctx, a.pool, phaseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNoData
		}
		return nil, err
	}
	races, err := racerepos.LoadByPhase(ctx, a.pool, phaseID)
	if err != nil {
		return nil, err
	}
	byRace, err := a.collect(ctx, phase.EventID, races)
	if err != nil {
		return nil, err
	}

	ret := &PhaseResult{Phase: phase, Races: make([]*RaceResult, 0, len(races))}
	all := make([]*Entry, 0)
	for _, r := range races {
		entries := byRace[r.ID]
		Apply(entries, func(e *Entry, pos *int) {
			e.Position = pos
			e.RankInRace = pos
		})
		ret.Races = append(ret.Races, &RaceResult{Race: r, Entries: entries})
		all = append(all, entries...)
	}
	ret.ByCategory = lo.GroupBy(all, func(e *Entry) int { return e.CategoryID })
	for _, entries := range ret.ByCategory {
		Apply(entries, func(e *Entry, pos *int) { e.RankScratch = pos })
	}
	return ret, nil
}

// EventResults ranks every category across all phases of the event.
func (a *Aggregator) EventResults(ctx context.Context, eventID int) (
	*EventResult, error,
) {
	races, err := racerepos.LoadByEvent(ctx, a.pool, eventID)
	if err != nil {
		return nil, err
	}
	byRace, err := a.collect(ctx, eventID, races)
	if err != nil {
		return nil, err
	}
	all := lo.Flatten(lo.Values(byRace))
	ret := &EventResult{
		EventID:    eventID,
		ByCategory: lo.GroupBy(all, func(e *Entry) int { return e.CategoryID }),
	}
	for _, entries := range ret.ByCategory {
		Apply(entries, func(e *Entry, pos *int) { e.Position = pos })
	}
	return ret, nil
}

// collect assembles the raw entries of the given races. Lookups are batched
// per race set and per timing point; one unresolved crew never aborts the
// rest. Cost is bounded by races and crews, not by timing point count: only
// the start and the finish point are queried.
//
//nolint:funlen // batch assembly reads better in one piece
func (a *Aggregator) collect(
	ctx context.Context,
	eventID int,
	races []*model.Race,
) (map[int][]*Entry, error) {
	ret := make(map[int][]*Entry, len(races))
	if len(races) == 0 {
		return ret, nil
	}
	points, err := tprepos.LoadByEvent(ctx, a.pool, eventID)
	if err != nil {
		return nil, err
	}
	startPoint := model.StartPoint(points)
	finishPoint := model.FinishPoint(points)
	if startPoint == nil || finishPoint == nil {
		return nil, repository.ErrNoData
	}

	raceIDs := lo.Map(races, func(r *model.Race, _ int) int { return r.ID })
	raceCrews, err := racerepos.LoadCrewEntries(ctx, a.pool, raceIDs)
	if err != nil {
		return nil, err
	}
	crewIDs := lo.Uniq(lo.Map(raceCrews,
		func(rc *model.RaceCrew, _ int) int { return rc.CrewID }))
	crews, err := crewrepos.LoadByIDs(ctx, a.pool, crewIDs)
	if err != nil {
		return nil, err
	}
	starts := map[int]*model.Timing{}
	finishes := map[int]*model.Timing{}
	if len(crewIDs) > 0 {
		if starts, err = timingrepos.LoadLatestForCrewsAt(
			ctx, a.pool, startPoint.ID, crewIDs); err != nil {
			return nil, err
		}
		if finishes, err = timingrepos.LoadLatestForCrewsAt(
			ctx, a.pool, finishPoint.ID, crewIDs); err != nil {
			return nil, err
		}
	}

	for _, rc := range raceCrews {
		c, ok := crews[rc.CrewID]
		if !ok {
			a.l.Warn("race crew without crew row",
				log.Int("raceId", rc.RaceID), log.Int("crewId", rc.CrewID))
			continue
		}
		entry := &Entry{
			CrewID:     rc.CrewID,
			RaceID:     rc.RaceID,
			CategoryID: c.CategoryID,
			Lane:       rc.Lane,
			ClubName:   c.ClubName,
			CrewStatus: string(c.Status),
		}
		if finish := finishes[rc.CrewID]; finish != nil {
			ts := finish.Timestamp
			entry.FinishTime = &ts
			entry.DurationMs = a.resolver.Resolve(
				finish, startPoint, starts[rc.CrewID], true)
		}
		ret[rc.RaceID] = append(ret[rc.RaceID], entry)
	}
	return ret, nil
}
