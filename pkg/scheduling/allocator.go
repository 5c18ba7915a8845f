//nolint:whitespace // can't make both editor and linter happy
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
	categoryrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/category"
	crewrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/crew"
	phaserepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/phase"
	racerepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/race"
)

// ErrValidation marks client errors (bad arguments); not retried.
var ErrValidation = errors.New("validation error")

type (
	AllocateRequest struct {
		PhaseID         int
		LaneCount       int
		DistanceM       int
		StartTime       *time.Time
		IntervalMinutes int
		Policy          SeedingPolicy
	}

	Allocator struct {
		pool *pgxpool.Pool
		l    *log.Logger
		plan PlanRequest
	}

	Option func(*Allocator)
)

func WithLogger(arg *log.Logger) Option {
	return func(a *Allocator) {
		a.l = arg
	}
}

// WithPlanDefaults overrides the plan computation defaults (rand source,
// policy); used by tests for deterministic plans.
func WithPlanDefaults(req PlanRequest) Option {
	return func(a *Allocator) {
		a.plan = req
	}
}

func NewAllocator(pool *pgxpool.Pool, opts ...Option) *Allocator {
	ret := &Allocator{
		pool: pool,
		l:    log.Default().Named("scheduling"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// AllocatePhase creates the heats for every category of the phase's event
// that has at least one crew. The whole phase is committed in one
// transaction; a failure rolls back all categories.
//
//nolint:funlen // single coherent workflow
func (a *Allocator) AllocatePhase(ctx context.Context, req AllocateRequest) (
	[]*model.Race, error,
) {
	if req.PhaseID <= 0 {
		return nil, fmt.Errorf("%w: phase id is required", ErrValidation)
	}
	if req.LaneCount < 1 {
		return nil, fmt.Errorf("%w: lane count must be >= 1", ErrValidation)
	}

	planReq := a.plan
	planReq.LaneCount = req.LaneCount
	planReq.StartTime = req.StartTime
	planReq.IntervalMinutes = req.IntervalMinutes
	if req.Policy != "" {
		planReq.Policy = req.Policy
	}

	var ret []*model.Race
	err := pgx.BeginFunc(ctx, a.pool, func(tx pgx.Tx) error {
		phase, err := phaserepos.LoadByID(ctx, tx, req.PhaseID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("phase %d: %w", req.PhaseID, repository.ErrNoData)
			}
			return err
		}
		categories, err := categoryrepos.LoadByEvent(ctx, tx, phase.EventID)
		if err != nil {
			return err
		}
		crews, err := crewrepos.LoadByEvent(ctx, tx, phase.EventID)
		if err != nil {
			return err
		}
		eligible := lo.Filter(crews, func(c *model.Crew, _ int) bool {
			return c.Status != model.CrewWithdrawn && c.Status != model.CrewScratch
		})
		byCategory := lo.GroupBy(eligible, func(c *model.Crew) int {
			return c.CategoryID
		})

		planned := BuildPlan(categories, byCategory, planReq)
		maxNumber, err := racerepos.MaxRaceNumber(ctx, tx, phase.ID)
		if err != nil {
			return err
		}
		FinishPlan(planned, maxNumber+1, planReq)

		ret = make([]*model.Race, 0, len(planned))
		for _, p := range planned {
			race := &model.Race{
				PhaseID:    phase.ID,
				Name:       p.Name,
				RaceNumber: p.RaceNumber,
				LaneCount:  req.LaneCount,
				DistanceM:  req.DistanceM,
				StartTime:  p.StartTime,
				Status:     model.RaceNotStarted,
			}
			if err := racerepos.Create(ctx, tx, race); err != nil {
				return err
			}
			for _, entry := range p.Entries {
				rc := &model.RaceCrew{
					RaceID: race.ID,
					CrewID: entry.CrewID,
					Lane:   entry.Lane,
				}
				if err := racerepos.CreateRaceCrew(ctx, tx, rc); err != nil {
					return err
				}
			}
			ret = append(ret, race)
		}
		return nil
	})
	if err != nil {
		a.l.Error("heat allocation failed",
			log.Int("phaseId", req.PhaseID), log.ErrorField(err))
		return nil, err
	}
	a.l.Info("heats allocated",
		log.Int("phaseId", req.PhaseID), log.Int("races", len(ret)))
	return ret, nil
}
