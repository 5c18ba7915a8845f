//nolint:errcheck // ok for this test code
package relative

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	timingrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/timing"
	"github.com/openregatta/regatta-service-manager-go/testsupport/basedata"
	"github.com/openregatta/regatta-service-manager-go/testsupport/testdb"
)

//nolint:funlen // linear scenario
func TestResolveBatchMatchesSingle(t *testing.T) {
	db := testdb.InitTestDb()
	fixture := basedata.CreateSampleEvent(db)
	ctx := context.Background()
	start := fixture.TimingPoints[0]
	finish := fixture.TimingPoints[2]

	crewA := fixture.Crews[0]
	crewB := fixture.Crews[1]

	startA := &model.Timing{TimingPointID: start.ID, Timestamp: basedata.TestTime()}
	assert.NoError(t, timingrepos.Create(ctx, db, startA))
	timingrepos.UpsertAssignment(ctx, db, startA.ID, crewA.ID)

	finishA := &model.Timing{
		TimingPointID: finish.ID,
		Timestamp:     basedata.TestTime().Add(421500 * time.Millisecond),
	}
	assert.NoError(t, timingrepos.Create(ctx, db, finishA))
	timingrepos.UpsertAssignment(ctx, db, finishA.ID, crewA.ID)

	// crew B finishes without a start impulse
	finishB := &model.Timing{
		TimingPointID: finish.ID,
		Timestamp:     basedata.TestTime().Add(430 * time.Second),
	}
	assert.NoError(t, timingrepos.Create(ctx, db, finishB))
	timingrepos.UpsertAssignment(ctx, db, finishB.ID, crewB.ID)

	// unassigned detection
	stray := &model.Timing{
		TimingPointID: finish.ID,
		Timestamp:     basedata.TestTime().Add(time.Minute),
	}
	assert.NoError(t, timingrepos.Create(ctx, db, stray))

	r := NewResolver()
	timings := []*model.Timing{startA, finishA, finishB, stray}
	batch, err := r.ResolveBatch(ctx, db, fixture.Event.ID, timings)
	assert.NoError(t, err)

	assert.Equal(t, int64(0), *batch[startA.ID])
	assert.Equal(t, int64(421500), *batch[finishA.ID])
	assert.Nil(t, batch[finishB.ID])
	assert.Nil(t, batch[stray.ID])

	for _, timing := range timings {
		single, err := r.ResolveSingle(ctx, db, timing.ID)
		assert.NoError(t, err)
		want := batch[timing.ID]
		if want == nil {
			assert.Nil(t, single, "timing %d", timing.ID)
		} else {
			assert.NotNil(t, single, "timing %d", timing.ID)
			assert.Equal(t, *want, *single, "timing %d", timing.ID)
		}
	}
}
