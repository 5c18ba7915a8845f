package nats

import "testing"

func TestSubjects(t *testing.T) {
	if got := LiveTimingSubject(42); got != "rsm.live.timing.42" {
		t.Errorf("LiveTimingSubject(42) = %q", got)
	}
	if got := RaceStatusSubject(7); got != "rsm.race.status.7" {
		t.Errorf("RaceStatusSubject(7) = %q", got)
	}
}
