//nolint:whitespace // can't make both editor and linter happy
package racecontrol

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/pubsub"
	phaserepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/phase"
	racerepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/race"
)

type (
	// Service persists race status edits and announces actual changes on the
	// event's status channel.
	Service struct {
		pool  *pgxpool.Pool
		proxy pubsub.RaceStatusProxy
		l     *log.Logger
	}

	Option func(*Service)
)

func WithProxy(p pubsub.RaceStatusProxy) Option {
	return func(s *Service) {
		s.proxy = p
	}
}

func WithLogger(arg *log.Logger) Option {
	return func(s *Service) {
		s.l = arg
	}
}

func NewService(pool *pgxpool.Pool, opts ...Option) *Service {
	ret := &Service{
		pool: pool,
		l:    log.Default().Named("racecontrol"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// UpdateStatus persists the new status. A message goes out only when the
// stored value actually changed; delivery is best-effort and never fails the
// update.
func (s *Service) UpdateStatus(
	ctx context.Context,
	raceID int,
	status model.RaceStatus,
) error {
	if !status.Valid() {
		return fmt.Errorf("invalid race status %q", status)
	}
	prev, err := racerepos.UpdateStatus(ctx, s.pool, raceID, status)
	if err != nil {
		return err
	}
	if prev == status || s.proxy == nil {
		return nil
	}
	race, err := racerepos.LoadByID(ctx, s.pool, raceID)
	if err != nil {
		return err
	}
	phase, err := phaserepos.LoadByID(ctx, s.pool, race.PhaseID)
	if err != nil {
		return err
	}
	msg := &pubsub.RaceStatusMessage{RaceID: raceID, Status: status}
	if err := s.proxy.PublishRaceStatus(phase.EventID, msg); err != nil {
		s.l.Warn("race status publish failed",
			log.Int("raceId", raceID), log.ErrorField(err))
	}
	return nil
}
