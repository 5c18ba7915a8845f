//nolint:whitespace // can't make both editor and linter happy
package relative

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
	timingrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/timing"
	tprepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/timingpoint"
)

// DefaultCapMs guards against mis-assigned start impulses: deltas above the
// cap resolve to nothing rather than to an absurd elapsed time.
const DefaultCapMs int64 = 1_800_000

type (
	Resolver struct {
		capMs int64
	}

	Option func(*Resolver)
)

func WithCap(capMs int64) Option {
	return func(r *Resolver) {
		if capMs > 0 {
			r.capMs = capMs
		}
	}
}

func NewResolver(opts ...Option) *Resolver {
	ret := &Resolver{capMs: DefaultCapMs}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Resolve expresses a timing as elapsed milliseconds since the crew's own
// start detection. A nil result is the legitimate "unresolved" state:
// missing timestamp, no assigned crew, no start impulse, negative delta or
// a delta beyond the cap. A timing at the start point always resolves to 0.
// Pure; safe to call concurrently.
func (r *Resolver) Resolve(
	t *model.Timing,
	startPoint *model.TimingPoint,
	start *model.Timing,
	assigned bool,
) *int64 {
	if t == nil || startPoint == nil || t.Timestamp.IsZero() {
		return nil
	}
	if t.TimingPointID == startPoint.ID {
		zero := int64(0)
		return &zero
	}
	if !assigned || start == nil || start.Timestamp.IsZero() {
		return nil
	}
	delta := t.Timestamp.Sub(start.Timestamp).Milliseconds()
	if delta < 0 || delta > r.capMs {
		return nil
	}
	return &delta
}

// ResolveBatch resolves many timings of one event in one sweep: the start
// point, the assignments and the latest start impulses are loaded with one
// query each, then every timing is resolved independently. The result maps
// timing id to relative milliseconds (absent entries are unresolved).
func (r *Resolver) ResolveBatch(
	ctx context.Context,
	conn repository.Querier,
	eventID int,
	timings []*model.Timing,
) (map[int]*int64, error) {
	ret := make(map[int]*int64, len(timings))
	if len(timings) == 0 {
		return ret, nil
	}
	points, err := tprepos.LoadByEvent(ctx, conn, eventID)
	if err != nil {
		return nil, err
	}
	startPoint := model.StartPoint(points)
	if startPoint == nil {
		return nil, repository.ErrNoData
	}

	timingIDs := lo.Map(timings, func(t *model.Timing, _ int) int { return t.ID })
	assignments, err := timingrepos.LoadAssignmentsForTimings(ctx, conn, timingIDs)
	if err != nil {
		return nil, err
	}
	crewIDs := lo.Uniq(lo.Values(assignments))
	starts := map[int]*model.Timing{}
	if len(crewIDs) > 0 {
		starts, err = timingrepos.LoadLatestForCrewsAt(
			ctx, conn, startPoint.ID, crewIDs)
		if err != nil {
			return nil, err
		}
	}

	for _, t := range timings {
		crewID, assigned := assignments[t.ID]
		ret[t.ID] = r.Resolve(t, startPoint, starts[crewID], assigned)
	}
	return ret, nil
}

// ResolveSingle resolves one timing by id.
func (r *Resolver) ResolveSingle(
	ctx context.Context,
	conn repository.Querier,
	timingID int,
) (*int64, error) {
	t, err := timingrepos.LoadByID(ctx, conn, timingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNoData
		}
		return nil, err
	}
	tp, err := tprepos.LoadByID(ctx, conn, t.TimingPointID)
	if err != nil {
		return nil, err
	}
	res, err := r.ResolveBatch(ctx, conn, tp.EventID, []*model.Timing{t})
	if err != nil {
		return nil, err
	}
	return res[t.ID], nil
}
