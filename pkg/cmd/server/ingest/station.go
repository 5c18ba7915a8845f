//nolint:whitespace // can't make both editor and linter happy
package ingest

import (
	"context"

	"github.com/nats-io/nats.go"
	"github.com/ohler55/ojg/oj"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/config"
	"github.com/openregatta/regatta-service-manager-go/pkg/ingest"
	natsproxy "github.com/openregatta/regatta-service-manager-go/pkg/pubsub/nats"
)

const stationQueueGroup = "rsm-ingest"

// subscribeStations answers station impulses on the ingest subject. The
// queue group keeps exactly one cluster member responsible per request.
func subscribeStations(
	conn *nats.Conn,
	service *ingest.Service,
	cfg *config.Config,
) (*nats.Subscription, error) {
	l := log.Default().Named("station")
	return conn.QueueSubscribe(
		natsproxy.SubjectStationTiming,
		stationQueueGroup,
		func(m *nats.Msg) {
			if cfg.PrintMessage {
				l.Debug("station request", log.String("payload", string(m.Data)))
			}
			reply := handleStationRequest(context.Background(), service, l, m.Data)
			if m.Reply == "" {
				return
			}
			data, err := oj.Marshal(reply)
			if err != nil {
				l.Error("could not marshal reply", log.ErrorField(err))
				return
			}
			if err := m.Respond(data); err != nil {
				l.Warn("could not send reply", log.ErrorField(err))
			}
		})
}

func handleStationRequest(
	ctx context.Context,
	service *ingest.Service,
	l *log.Logger,
	data []byte,
) *ingest.StationReply {
	var req ingest.StationRequest
	if err := oj.Unmarshal(data, &req); err != nil {
		l.Warn("undecodable station request", log.ErrorField(err))
		return &ingest.StationReply{Error: "invalid payload"}
	}
	tp, err := service.ResolveStation(ctx, req.Token, req.ClientVersion)
	if err != nil {
		l.Warn("station rejected", log.ErrorField(err))
		return &ingest.StationReply{Error: err.Error()}
	}
	t, err := service.CreateTiming(ctx, &ingest.CreateTimingRequest{
		TimingPointID: tp.ID,
		Timestamp:     req.Timestamp,
		ManualEntry:   req.ManualEntry,
		EnteredBy:     req.EnteredBy,
	})
	if err != nil {
		l.Error("could not store timing", log.ErrorField(err))
		return &ingest.StationReply{Error: "store failed"}
	}
	return &ingest.StationReply{Ok: true, TimingID: t.ID}
}
