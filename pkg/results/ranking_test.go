package results

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func finished(crewID int, durationMs int64) *Entry {
	ft := time.Date(2026, 6, 20, 9, 0, 0, 0, time.UTC).
		Add(time.Duration(durationMs) * time.Millisecond)
	return &Entry{CrewID: crewID, FinishTime: &ft, DurationMs: &durationMs}
}

func finishedNoDuration(crewID int) *Entry {
	ft := time.Date(2026, 6, 20, 9, 5, 0, 0, time.UTC)
	return &Entry{CrewID: crewID, FinishTime: &ft}
}

func crewIDs(entries []*Entry) []int {
	ret := make([]int, len(entries))
	for i, e := range entries {
		ret[i] = e.CrewID
	}
	return ret
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name    string
		entries []*Entry
		want    []int
	}{
		{
			name: "duration ascending",
			entries: []*Entry{
				finished(1, 430_000),
				finished(2, 421_500),
				finished(3, 425_000),
			},
			want: []int{2, 3, 1},
		},
		{
			name: "unresolved finish sorts last",
			entries: []*Entry{
				{CrewID: 1},
				finished(2, 430_000),
				{CrewID: 3},
				finished(4, 425_000),
			},
			want: []int{4, 2, 1, 3},
		},
		{
			name: "finish without duration after resolved durations",
			entries: []*Entry{
				finishedNoDuration(1),
				finished(2, 430_000),
				{CrewID: 3},
			},
			want: []int{2, 1, 3},
		},
		{
			name: "equal durations keep incoming order",
			entries: []*Entry{
				finished(5, 421_500),
				finished(6, 421_500),
				finished(7, 420_000),
			},
			want: []int{7, 5, 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Order(tt.entries)
			if diff := cmp.Diff(tt.want, crewIDs(tt.entries)); diff != "" {
				t.Errorf("Order() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply(t *testing.T) {
	entries := []*Entry{
		{CrewID: 1},
		finished(2, 430_000),
		finishedNoDuration(3),
		finished(4, 425_000),
	}
	Apply(entries, func(e *Entry, pos *int) { e.Position = pos })

	wantPos := map[int]*int{
		4: intPtr(1),
		2: intPtr(2),
		3: intPtr(3),
		1: nil,
	}
	for _, e := range entries {
		want := wantPos[e.CrewID]
		switch {
		case want == nil && e.Position != nil:
			t.Errorf("crew %d: Position = %d, want nil", e.CrewID, *e.Position)
		case want != nil && (e.Position == nil || *e.Position != *want):
			t.Errorf("crew %d: Position = %v, want %d", e.CrewID, e.Position, *want)
		}
	}
}

func intPtr(i int) *int { return &i }
