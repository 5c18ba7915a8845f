//nolint:errcheck // ok for this test code
package timing

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/testsupport/basedata"
	"github.com/openregatta/regatta-service-manager-go/testsupport/testdb"
)

func createTiming(
	t *testing.T,
	db *pgxpool.Pool,
	pointID int,
	ts time.Time,
) *model.Timing {
	t.Helper()
	item := &model.Timing{TimingPointID: pointID, Timestamp: ts}
	if err := Create(context.Background(), db, item); err != nil {
		t.Fatalf("createTiming: %v", err)
	}
	return item
}

func TestTimingRepository_Create(t *testing.T) {
	db := testdb.InitTestDb()
	fixture := basedata.CreateSampleEvent(db)

	item := createTiming(t, db, fixture.TimingPoints[0].ID, basedata.TestTime())
	assert.Greater(t, item.ID, 0)
	assert.Equal(t, model.TimingPending, item.Status)

	got, err := LoadByID(context.Background(), db, item.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.TimingPending, got.Status)
	assert.True(t, got.Timestamp.Equal(basedata.TestTime()))
}

func TestTimingRepository_UpsertAssignment(t *testing.T) {
	db := testdb.InitTestDb()
	fixture := basedata.CreateSampleEvent(db)
	ctx := context.Background()

	item := createTiming(t, db, fixture.TimingPoints[0].ID, basedata.TestTime())

	first, err := UpsertAssignment(ctx, db, item.ID, fixture.Crews[0].ID)
	assert.NoError(t, err)
	assert.Equal(t, fixture.Crews[0].ID, first.CrewID)

	got, err := LoadByID(ctx, db, item.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.TimingAssigned, got.Status)

	// re-assigning rewrites the crew link, not a second row
	second, err := UpsertAssignment(ctx, db, item.ID, fixture.Crews[1].ID)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	assignment, err := LoadAssignment(ctx, db, item.ID)
	assert.NoError(t, err)
	assert.Equal(t, fixture.Crews[1].ID, assignment.CrewID)
}

//nolint:funlen // linear scenario
func TestTimingRepository_LoadLatestForCrewsAt(t *testing.T) {
	db := testdb.InitTestDb()
	fixture := basedata.CreateSampleEvent(db)
	ctx := context.Background()
	start := fixture.TimingPoints[0]
	crewA := fixture.Crews[0]
	crewB := fixture.Crews[1]

	early := createTiming(t, db, start.ID, basedata.TestTime())
	late := createTiming(t, db, start.ID, basedata.TestTime().Add(2*time.Second))
	other := createTiming(t, db, start.ID, basedata.TestTime().Add(time.Second))
	UpsertAssignment(ctx, db, early.ID, crewA.ID)
	UpsertAssignment(ctx, db, late.ID, crewA.ID)
	UpsertAssignment(ctx, db, other.ID, crewB.ID)

	got, err := LoadLatestForCrewsAt(ctx, db, start.ID,
		[]int{crewA.ID, crewB.ID})
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, late.ID, got[crewA.ID].ID)
	assert.Equal(t, other.ID, got[crewB.ID].ID)

	// hiding the latest detection falls back to the earlier one
	assert.NoError(t, UpdateStatus(ctx, db, late.ID, model.TimingHidden))
	got, err = LoadLatestForCrewsAt(ctx, db, start.ID, []int{crewA.ID})
	assert.NoError(t, err)
	assert.Equal(t, early.ID, got[crewA.ID].ID)

	// unassigned crews are absent
	got, err = LoadLatestForCrewsAt(ctx, db, start.ID,
		[]int{fixture.Crews[2].ID})
	assert.NoError(t, err)
	assert.Len(t, got, 0)
}

func TestTimingRepository_UpdateStatus(t *testing.T) {
	db := testdb.InitTestDb()
	fixture := basedata.CreateSampleEvent(db)
	ctx := context.Background()

	item := createTiming(t, db, fixture.TimingPoints[0].ID, basedata.TestTime())
	assert.NoError(t, UpdateStatus(ctx, db, item.ID, model.TimingHidden))

	got, _ := LoadByID(ctx, db, item.ID)
	assert.Equal(t, model.TimingHidden, got.Status)

	assert.Error(t, UpdateStatus(ctx, db, -1, model.TimingHidden))
}
