package pubsub

import (
	"time"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
)

type (
	// TimingMessage is the enriched live copy of a stored timing impulse.
	// RelativeMs is present only when the impulse could be resolved against
	// its crew's start detection.
	TimingMessage struct {
		ID            int        `json:"id"`
		EventID       int        `json:"eventId"`
		TimingPointID int        `json:"timingPointId"`
		Label         string     `json:"label"`
		OrderIndex    int        `json:"orderIndex"`
		Timestamp     time.Time  `json:"timestamp"`
		ManualEntry   bool       `json:"manualEntry"`
		CrewID        *int       `json:"crewId,omitempty"`
		RelativeMs    *int64     `json:"relativeMs,omitempty"`
	}

	// RaceStatusMessage announces a persisted race status change.
	RaceStatusMessage struct {
		RaceID int              `json:"raceId"`
		Status model.RaceStatus `json:"status"`
	}

	// TimingProxy distributes live timing data. Delivery is best-effort,
	// at most once; the database is the durable record.
	TimingProxy interface {
		PublishTiming(msg *TimingMessage) error

		// the returned channel provides outgoing live messages until the
		// quit channel is closed
		SubscribeTiming(timingPointID int) (
			dataChan <-chan *TimingMessage,
			quitChan chan<- struct{},
			err error,
		)
	}

	// RaceStatusProxy distributes race status changes per event.
	RaceStatusProxy interface {
		PublishRaceStatus(eventID int, msg *RaceStatusMessage) error

		SubscribeRaceStatus(eventID int) (
			dataChan <-chan *RaceStatusMessage,
			quitChan chan<- struct{},
			err error,
		)
	}

	Proxy interface {
		TimingProxy
		RaceStatusProxy
		Close()
	}
)
