//nolint:whitespace // can't make both editor and linter happy
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/pubsub"
	"github.com/openregatta/regatta-service-manager-go/pkg/relative"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
	timingrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/timing"
	tprepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/timingpoint"
	"github.com/openregatta/regatta-service-manager-go/pkg/utils"
	"github.com/openregatta/regatta-service-manager-go/pkg/utils/cache"
	"github.com/openregatta/regatta-service-manager-go/pkg/utils/cache/loadercache"
)

var (
	ErrUnknownToken       = errors.New("unknown station token")
	ErrUnsupportedVersion = errors.New("unsupported station client version")
)

type (
	// Service handles the write path of the timing pipeline: stations (or
	// operators) store impulses, operators attribute them to crews. Every
	// accepted write is mirrored as a best-effort live message.
	Service struct {
		pool       *pgxpool.Pool
		proxy      pubsub.TimingProxy
		resolver   *relative.Resolver
		tokenCache cache.Cache[string, model.TimingPoint]
		minVersion string
		l          *log.Logger
	}

	Option func(*Service)

	// CreateTimingRequest is one impulse from a station or an operator.
	// Token has been resolved to the timing point beforehand.
	CreateTimingRequest struct {
		TimingPointID int
		Timestamp     time.Time
		ManualEntry   bool
		EnteredBy     string
	}
)

func WithProxy(p pubsub.TimingProxy) Option {
	return func(s *Service) {
		s.proxy = p
	}
}

func WithResolver(r *relative.Resolver) Option {
	return func(s *Service) {
		s.resolver = r
	}
}

func WithMinStationVersion(v string) Option {
	return func(s *Service) {
		s.minVersion = v
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(s *Service) {
		s.l = arg
	}
}

func NewService(pool *pgxpool.Pool, opts ...Option) *Service {
	ret := &Service{
		pool:       pool,
		resolver:   relative.NewResolver(),
		minVersion: DefaultMinStationVersion,
		l:          log.Default().Named("ingest"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.tokenCache = loadercache.New(
		loadercache.WithLoader(func(tokenHash string) (*model.TimingPoint, error) {
			return tprepos.LoadByTokenHash(
				context.Background(), ret.pool, tokenHash)
		}),
		loadercache.WithExpiration[string, model.TimingPoint](time.Minute),
	)
	return ret
}

// ResolveStation validates a station token and version and returns the
// timing point the token belongs to.
func (s *Service) ResolveStation(
	ctx context.Context,
	token, clientVersion string,
) (*model.TimingPoint, error) {
	if !CheckStationVersion(clientVersion, s.minVersion) {
		return nil, fmt.Errorf("%w: got %s, need at least %s",
			ErrUnsupportedVersion, clientVersion, s.minVersion)
	}
	tp, err := s.tokenCache.Get(ctx, utils.HashStationToken(token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownToken
		}
		return nil, err
	}
	return tp, nil
}

// CreateTiming stores an impulse and publishes the enriched live copy.
// The impulse is kept even when no crew will ever be attributed to it.
func (s *Service) CreateTiming(
	ctx context.Context,
	req *CreateTimingRequest,
) (*model.Timing, error) {
	tp, err := tprepos.LoadByID(ctx, s.pool, req.TimingPointID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNoData
		}
		return nil, err
	}
	t := &model.Timing{
		TimingPointID: req.TimingPointID,
		Timestamp:     req.Timestamp,
		ManualEntry:   req.ManualEntry,
		EnteredBy:     req.EnteredBy,
	}
	if err := timingrepos.Create(ctx, s.pool, t); err != nil {
		return nil, err
	}
	s.publish(ctx, t, tp, nil)
	return t, nil
}

// AssignTiming attributes a stored impulse to a crew. Re-assigning rewrites
// the attribution; downstream relative times follow the new crew on the next
// read.
func (s *Service) AssignTiming(
	ctx context.Context,
	timingID, crewID int,
) (*model.TimingAssignment, error) {
	t, err := timingrepos.LoadByID(ctx, s.pool, timingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNoData
		}
		return nil, err
	}
	ta, err := timingrepos.UpsertAssignment(ctx, s.pool, timingID, crewID)
	if err != nil {
		return nil, err
	}
	tp, err := tprepos.LoadByID(ctx, s.pool, t.TimingPointID)
	if err != nil {
		return nil, err
	}
	t.Status = model.TimingAssigned
	s.publish(ctx, t, tp, &crewID)
	return ta, nil
}

// HideTiming takes an impulse out of every downstream computation without
// deleting it.
func (s *Service) HideTiming(ctx context.Context, timingID int) error {
	return timingrepos.UpdateStatus(ctx, s.pool, timingID, model.TimingHidden)
}

// RotateToken issues a fresh station token for a timing point and stores its
// hash. The plain token is returned exactly once.
func (s *Service) RotateToken(ctx context.Context, timingPointID int) (
	string, error,
) {
	token, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	plain := token.String()
	tp, err := tprepos.LoadByID(ctx, s.pool, timingPointID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNoData
		}
		return "", err
	}
	if err := tprepos.UpdateTokenHash(
		ctx, s.pool, timingPointID, utils.HashStationToken(plain)); err != nil {
		return "", err
	}
	s.tokenCache.Invalidate(ctx, tp.TokenHash)
	s.l.Info("station token rotated", log.Int("timingPointId", timingPointID))
	return plain, nil
}

// publish mirrors an accepted write as a live message. Failures are logged
// only; the database write already succeeded.
func (s *Service) publish(
	ctx context.Context,
	t *model.Timing,
	tp *model.TimingPoint,
	crewID *int,
) {
	if s.proxy == nil {
		return
	}
	msg := &pubsub.TimingMessage{
		ID:            t.ID,
		EventID:       tp.EventID,
		TimingPointID: tp.ID,
		Label:         tp.Label,
		OrderIndex:    tp.OrderIndex,
		Timestamp:     t.Timestamp,
		ManualEntry:   t.ManualEntry,
		CrewID:        crewID,
	}
	if rel, err := s.resolver.ResolveSingle(ctx, s.pool, t.ID); err == nil {
		msg.RelativeMs = rel
	}
	if err := s.proxy.PublishTiming(msg); err != nil {
		s.l.Warn("live timing publish failed",
			log.Int("timingId", t.ID), log.ErrorField(err))
	}
}
