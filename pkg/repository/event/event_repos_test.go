//nolint:errcheck // ok for this test code
package event

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/testsupport/testdb"
)

func sampleDate(day int) time.Time {
	return time.Date(2026, 6, day, 0, 0, 0, 0, time.UTC)
}

func createSampleEntry(db *pgxpool.Pool) *model.Event {
	event := &model.Event{
		Name:      "Régate test",
		StartDate: sampleDate(20),
		EndDate:   sampleDate(21),
	}
	err := pgx.BeginFunc(context.Background(), db, func(tx pgx.Tx) error {
		return Create(context.Background(), tx, event)
	})
	if err != nil {
		log.Fatalf("createSampleEntry: %v\n", err)
	}
	return event
}

func TestEventRepository_Create(t *testing.T) {
	db := testdb.InitTestDb()

	event := &model.Event{
		Name:      "Régate test",
		StartDate: sampleDate(20),
		EndDate:   sampleDate(21),
	}
	err := Create(context.Background(), db, event)
	assert.NoError(t, err)
	assert.Greater(t, event.ID, 0)
}

func TestEventRepository_LoadByID(t *testing.T) {
	db := testdb.InitTestDb()
	sample := createSampleEntry(db)

	tests := []struct {
		name    string
		id      int
		want    *model.Event
		wantErr bool
	}{
		{name: "load_existing", id: sample.ID, want: sample},
		{name: "load_without_id", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadByID(context.Background(), db, tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadByID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.want == nil {
				return
			}
			if got.ID != tt.want.ID || got.Name != tt.want.Name {
				t.Errorf("LoadByID() = %+v, want %+v", got, tt.want)
			}
			if !got.StartDate.Equal(tt.want.StartDate) {
				t.Errorf("LoadByID() StartDate = %v, want %v",
					got.StartDate, tt.want.StartDate)
			}
		})
	}
}

func TestEventRepository_LoadAll(t *testing.T) {
	db := testdb.InitTestDb()
	createSampleEntry(db)
	createSampleEntry(db)

	got, err := LoadAll(context.Background(), db)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestEventRepository_DeleteByID(t *testing.T) {
	db := testdb.InitTestDb()
	sample := createSampleEntry(db)

	tests := []struct {
		name string
		id   int
		want int
	}{
		{name: "delete_existing", id: sample.ID, want: 1},
		{name: "delete_non_existing", id: -1, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeleteByID(context.Background(), db, tt.id)
			if err != nil {
				t.Errorf("DeleteByID() error = %v", err)
				return
			}
			if got != tt.want {
				t.Errorf("DeleteByID() = %v, want %v", got, tt.want)
			}
		})
	}
}
