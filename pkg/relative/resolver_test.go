package relative

import (
	"testing"
	"time"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
)

func ts(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

//nolint:funlen // table driven test
func TestResolve(t *testing.T) {
	startPoint := &model.TimingPoint{ID: 1, Label: "Départ", OrderIndex: 0}
	start := &model.Timing{
		ID: 10, TimingPointID: 1,
		Timestamp: ts("2026-06-20T09:00:00Z"),
	}
	tests := []struct {
		name     string
		timing   *model.Timing
		start    *model.Timing
		assigned bool
		want     int64
		wantNil  bool
	}{
		{
			name: "finish resolves against own start",
			timing: &model.Timing{
				ID: 11, TimingPointID: 3,
				Timestamp: ts("2026-06-20T09:03:24.5Z"),
			},
			start: start, assigned: true,
			want: 204500,
		},
		{
			name: "start point is always zero",
			timing: &model.Timing{
				ID: 10, TimingPointID: 1,
				Timestamp: ts("2026-06-20T09:00:00Z"),
			},
			// even without assignment
			start: nil, assigned: false,
			want: 0,
		},
		{
			name: "unassigned timing stays unresolved",
			timing: &model.Timing{
				ID: 12, TimingPointID: 3,
				Timestamp: ts("2026-06-20T09:03:00Z"),
			},
			start: start, assigned: false,
			wantNil: true,
		},
		{
			name: "no start impulse stays unresolved",
			timing: &model.Timing{
				ID: 13, TimingPointID: 3,
				Timestamp: ts("2026-06-20T09:03:00Z"),
			},
			start: nil, assigned: true,
			wantNil: true,
		},
		{
			name: "negative delta stays unresolved",
			timing: &model.Timing{
				ID: 14, TimingPointID: 3,
				Timestamp: ts("2026-06-20T08:59:00Z"),
			},
			start: start, assigned: true,
			wantNil: true,
		},
		{
			name: "delta beyond cap stays unresolved",
			timing: &model.Timing{
				ID: 15, TimingPointID: 3,
				Timestamp: ts("2026-06-20T09:31:00Z"),
			},
			start: start, assigned: true,
			wantNil: true,
		},
	}
	r := NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.timing, startPoint, tt.start, tt.assigned)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Resolve() = %v, want nil", *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("Resolve() = %v, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveCustomCap(t *testing.T) {
	startPoint := &model.TimingPoint{ID: 1, OrderIndex: 0}
	start := &model.Timing{ID: 1, TimingPointID: 1, Timestamp: ts("2026-06-20T09:00:00Z")}
	finish := &model.Timing{ID: 2, TimingPointID: 2, Timestamp: ts("2026-06-20T09:00:05Z")}

	r := NewResolver(WithCap(4000))
	if got := r.Resolve(finish, startPoint, start, true); got != nil {
		t.Errorf("Resolve() = %v, want nil with 4s cap", *got)
	}
	r = NewResolver(WithCap(6000))
	if got := r.Resolve(finish, startPoint, start, true); got == nil || *got != 5000 {
		t.Errorf("Resolve() = %v, want 5000 with 6s cap", got)
	}
}
