//nolint:whitespace // can't make both editor and linter happy
package local

import (
	"fmt"
	"sync"

	"github.com/openregatta/regatta-service-manager-go/pkg/pubsub"
	"github.com/openregatta/regatta-service-manager-go/pkg/utils/broadcast"
)

type (
	// LocalProxy keeps the live data distribution in-process. Used for
	// single-node deployments and in tests where no NATS server is around.
	LocalProxy struct {
		mutex  sync.Mutex
		timing map[int]*topic[pubsub.TimingMessage]
		status map[int]*topic[pubsub.RaceStatusMessage]
	}

	topic[T any] struct {
		source chan *T
		bs     broadcast.BroadcastServer[*T]
	}
)

var _ pubsub.Proxy = (*LocalProxy)(nil)

func NewLocalProxy() *LocalProxy {
	return &LocalProxy{
		timing: make(map[int]*topic[pubsub.TimingMessage]),
		status: make(map[int]*topic[pubsub.RaceStatusMessage]),
	}
}

func (p *LocalProxy) PublishTiming(msg *pubsub.TimingMessage) error {
	p.timingTopic(msg.TimingPointID).source <- msg
	return nil
}

//nolint:whitespace // editor/linter issue
func (p *LocalProxy) SubscribeTiming(timingPointID int) (
	dataChan <-chan *pubsub.TimingMessage,
	quitChan chan<- struct{},
	err error,
) {
	return subscribe(p.timingTopic(timingPointID))
}

func (p *LocalProxy) PublishRaceStatus(
	eventID int, msg *pubsub.RaceStatusMessage,
) error {
	p.statusTopic(eventID).source <- msg
	return nil
}

//nolint:whitespace // editor/linter issue
func (p *LocalProxy) SubscribeRaceStatus(eventID int) (
	dataChan <-chan *pubsub.RaceStatusMessage,
	quitChan chan<- struct{},
	err error,
) {
	return subscribe(p.statusTopic(eventID))
}

func (p *LocalProxy) Close() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for _, t := range p.timing {
		t.bs.Close()
	}
	for _, t := range p.status {
		t.bs.Close()
	}
	p.timing = make(map[int]*topic[pubsub.TimingMessage])
	p.status = make(map[int]*topic[pubsub.RaceStatusMessage])
}

func (p *LocalProxy) timingTopic(id int) *topic[pubsub.TimingMessage] {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	t, ok := p.timing[id]
	if !ok {
		t = newTopic[pubsub.TimingMessage](fmt.Sprintf("timing.%d", id))
		p.timing[id] = t
	}
	return t
}

func (p *LocalProxy) statusTopic(id int) *topic[pubsub.RaceStatusMessage] {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	t, ok := p.status[id]
	if !ok {
		t = newTopic[pubsub.RaceStatusMessage](fmt.Sprintf("racestatus.%d", id))
		p.status[id] = t
	}
	return t
}

func newTopic[T any](name string) *topic[T] {
	source := make(chan *T)
	return &topic[T]{
		source: source,
		bs:     broadcast.NewBroadcastServer(name, name, source),
	}
}

//nolint:whitespace // editor/linter issue
func subscribe[T any](t *topic[T]) (
	<-chan *T, chan<- struct{}, error,
) {
	dataChan := t.bs.Subscribe()
	quitChan := make(chan struct{})
	go func() {
		<-quitChan
		t.bs.CancelSubscription(dataChan)
	}()
	return dataChan, quitChan, nil
}
