//nolint:whitespace // can't make both editor and linter happy
package nats

import (
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/ohler55/ojg/oj"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/pubsub"
)

type (
	// NatsProxy distributes live timing and race status data over core NATS
	// subjects. Core NATS gives at-most-once delivery, which matches the
	// live data contract; the database stays the durable record.
	NatsProxy struct {
		conn *nats.Conn
		l    *log.Logger

		mutex sync.Mutex
		subs  []*nats.Subscription
	}
	Option func(*NatsProxy)
)

func WithLogger(l *log.Logger) Option {
	return func(n *NatsProxy) {
		n.l = l
	}
}

func NewNatsProxy(conn *nats.Conn, opts ...Option) *NatsProxy {
	ret := &NatsProxy{
		conn: conn,
		l:    log.Default().Named("nats"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

var _ pubsub.Proxy = (*NatsProxy)(nil)

func (n *NatsProxy) PublishTiming(msg *pubsub.TimingMessage) error {
	data, err := oj.Marshal(msg)
	if err != nil {
		return err
	}
	return n.conn.Publish(LiveTimingSubject(msg.TimingPointID), data)
}

//nolint:whitespace // editor/linter issue
func (n *NatsProxy) SubscribeTiming(timingPointID int) (
	dataChan <-chan *pubsub.TimingMessage,
	quitChan chan<- struct{},
	err error,
) {
	return subscribe[pubsub.TimingMessage](n, LiveTimingSubject(timingPointID))
}

func (n *NatsProxy) PublishRaceStatus(eventID int, msg *pubsub.RaceStatusMessage) error {
	data, err := oj.Marshal(msg)
	if err != nil {
		return err
	}
	return n.conn.Publish(RaceStatusSubject(eventID), data)
}

//nolint:whitespace // editor/linter issue
func (n *NatsProxy) SubscribeRaceStatus(eventID int) (
	dataChan <-chan *pubsub.RaceStatusMessage,
	quitChan chan<- struct{},
	err error,
) {
	return subscribe[pubsub.RaceStatusMessage](n, RaceStatusSubject(eventID))
}

func (n *NatsProxy) Close() {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	for _, sub := range n.subs {
		//nolint:errcheck // connection is going away
		sub.Unsubscribe()
	}
	n.subs = nil
}

// subscribe wires a NATS subject to a typed channel. The subscription ends
// when the caller closes the quit channel; undecodable payloads are logged
// and dropped.
//
//nolint:whitespace // editor/linter issue
func subscribe[T any](n *NatsProxy, subject string) (
	<-chan *T, chan<- struct{}, error,
) {
	dataChan := make(chan *T)
	quitChan := make(chan struct{})
	// handlers write to rawChan only; the forwarder below is the sole
	// writer of dataChan, so closing it on quit is safe
	rawChan := make(chan *T)
	sub, err := n.conn.Subscribe(subject, func(m *nats.Msg) {
		var item T
		if err := oj.Unmarshal(m.Data, &item); err != nil {
			n.l.Warn("discarding undecodable message",
				log.String("subject", subject), log.ErrorField(err))
			return
		}
		select {
		case rawChan <- &item:
		case <-quitChan:
		}
	})
	if err != nil {
		return nil, nil, err
	}
	n.mutex.Lock()
	n.subs = append(n.subs, sub)
	n.mutex.Unlock()
	go func() {
		for {
			select {
			case item := <-rawChan:
				select {
				case dataChan <- item:
				case <-quitChan:
				}
			case <-quitChan:
				//nolint:errcheck // subscription teardown
				sub.Unsubscribe()
				close(dataChan)
				return
			}
		}
	}()
	return dataChan, quitChan, nil
}
