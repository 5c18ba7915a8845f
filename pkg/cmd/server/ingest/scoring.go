//nolint:whitespace // can't make both editor and linter happy
package ingest

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/ohler55/ojg/oj"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/config"
	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/pubsub"
	natsproxy "github.com/openregatta/regatta-service-manager-go/pkg/pubsub/nats"
	"github.com/openregatta/regatta-service-manager-go/pkg/scoring"
)

// setupAutoScoring recomputes a race's point postings whenever its status
// turns official. The template comes from the configured file and follows
// edits without a restart.
func setupAutoScoring(conn *nats.Conn, pool *pgxpool.Pool) (func(), error) {
	l := log.Default().Named("scoring")
	provider, err := scoring.NewFileProvider(config.ScoringConfig, l)
	if err != nil {
		return nil, err
	}
	engine := scoring.NewEngine(pool, provider)

	sub, err := conn.Subscribe(natsproxy.RaceStatusWildcard(),
		func(m *nats.Msg) {
			var msg pubsub.RaceStatusMessage
			if err := oj.Unmarshal(m.Data, &msg); err != nil {
				l.Warn("invalid race status message", log.ErrorField(err))
				return
			}
			if msg.Status != model.RaceOfficial {
				return
			}
			res, err := engine.ScoreRace(
				context.Background(), msg.RaceID, provider.Name())
			if err != nil {
				l.Error("auto scoring failed",
					log.Int("raceId", msg.RaceID), log.ErrorField(err))
				return
			}
			l.Info("race auto scored",
				log.Int("raceId", msg.RaceID),
				log.Int("postings", len(res.Postings)))
		})
	if err != nil {
		//nolint:errcheck // provider is being discarded
		provider.Close()
		return nil, err
	}
	return func() {
		//nolint:errcheck // shutdown path
		sub.Unsubscribe()
		//nolint:errcheck // shutdown path
		provider.Close()
	}, nil
}
