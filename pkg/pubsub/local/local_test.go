package local

import (
	"testing"
	"time"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/pubsub"
)

func TestLocalProxyTiming(t *testing.T) {
	p := NewLocalProxy()
	defer p.Close()

	dataChan, quitChan, err := p.SubscribeTiming(1)
	if err != nil {
		t.Fatalf("SubscribeTiming: %v", err)
	}
	msg := &pubsub.TimingMessage{ID: 42, TimingPointID: 1, Label: "Départ"}
	if err := p.PublishTiming(msg); err != nil {
		t.Fatalf("PublishTiming: %v", err)
	}
	select {
	case got := <-dataChan:
		if got.ID != 42 || got.Label != "Départ" {
			t.Errorf("got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for timing message")
	}
	close(quitChan)
}

func TestLocalProxyRaceStatus(t *testing.T) {
	p := NewLocalProxy()
	defer p.Close()

	dataChan, quitChan, err := p.SubscribeRaceStatus(7)
	if err != nil {
		t.Fatalf("SubscribeRaceStatus: %v", err)
	}
	defer close(quitChan)

	msg := &pubsub.RaceStatusMessage{RaceID: 3, Status: model.RaceInProgress}
	if err := p.PublishRaceStatus(7, msg); err != nil {
		t.Fatalf("PublishRaceStatus: %v", err)
	}
	select {
	case got := <-dataChan:
		if got.RaceID != 3 || got.Status != model.RaceInProgress {
			t.Errorf("got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for status message")
	}
}

// subscribers on other topics must not see the message
func TestLocalProxyTopicIsolation(t *testing.T) {
	p := NewLocalProxy()
	defer p.Close()

	other, quitChan, _ := p.SubscribeTiming(2)
	defer close(quitChan)
	own, ownQuit, _ := p.SubscribeTiming(1)
	defer close(ownQuit)

	if err := p.PublishTiming(&pubsub.TimingMessage{ID: 1, TimingPointID: 1}); err != nil {
		t.Fatalf("PublishTiming: %v", err)
	}
	<-own
	select {
	case got := <-other:
		t.Errorf("unexpected message on other topic: %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}
