//nolint:errcheck // ok for this test code
package race

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	"github.com/openregatta/regatta-service-manager-go/pkg/repository"
	"github.com/openregatta/regatta-service-manager-go/testsupport/basedata"
	"github.com/openregatta/regatta-service-manager-go/testsupport/testdb"
)

func createRace(t *testing.T, db *pgxpool.Pool, phaseID, number int) *model.Race {
	t.Helper()
	r := &model.Race{
		PhaseID: phaseID, Name: "Série", RaceNumber: number,
		LaneCount: 6, DistanceM: 2000,
	}
	if err := Create(context.Background(), db, r); err != nil {
		t.Fatalf("createRace: %v", err)
	}
	return r
}

func TestRaceRepository_Create(t *testing.T) {
	db := testdb.InitTestDb()
	fixture := basedata.CreateSampleEvent(db)

	r := createRace(t, db, fixture.Phase.ID, 1)
	assert.Greater(t, r.ID, 0)
	assert.Equal(t, model.RaceNotStarted, r.Status)

	got, err := LoadByID(context.Background(), db, r.ID)
	assert.NoError(t, err)
	assert.Nil(t, got.StartTime)
}

func TestRaceRepository_MaxRaceNumber(t *testing.T) {
	db := testdb.InitTestDb()
	fixture := basedata.CreateSampleEvent(db)
	ctx := context.Background()

	got, err := MaxRaceNumber(ctx, db, fixture.Phase.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, got)

	createRace(t, db, fixture.Phase.ID, 3)
	got, err = MaxRaceNumber(ctx, db, fixture.Phase.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestRaceRepository_UpdateStatus(t *testing.T) {
	db := testdb.InitTestDb()
	fixture := basedata.CreateSampleEvent(db)
	ctx := context.Background()

	r := createRace(t, db, fixture.Phase.ID, 1)

	prev, err := UpdateStatus(ctx, db, r.ID, model.RaceInProgress)
	assert.NoError(t, err)
	assert.Equal(t, model.RaceNotStarted, prev)

	prev, err = UpdateStatus(ctx, db, r.ID, model.RaceInProgress)
	assert.NoError(t, err)
	assert.Equal(t, model.RaceInProgress, prev)

	_, err = UpdateStatus(ctx, db, -1, model.RaceInProgress)
	assert.True(t, errors.Is(err, repository.ErrNoData))
}

func TestRaceRepository_CrewEntries(t *testing.T) {
	db := testdb.InitTestDb()
	fixture := basedata.CreateSampleEvent(db)
	ctx := context.Background()

	r1 := createRace(t, db, fixture.Phase.ID, 1)
	r2 := createRace(t, db, fixture.Phase.ID, 2)
	for i, crew := range fixture.Crews[:3] {
		assert.NoError(t, CreateRaceCrew(ctx, db,
			&model.RaceCrew{RaceID: r1.ID, CrewID: crew.ID, Lane: i + 1}))
	}
	assert.NoError(t, CreateRaceCrew(ctx, db,
		&model.RaceCrew{RaceID: r2.ID, CrewID: fixture.Crews[3].ID, Lane: 1}))

	got, err := LoadCrewEntries(ctx, db, []int{r1.ID, r2.ID})
	assert.NoError(t, err)
	assert.Len(t, got, 4)
	// ordered by race, then lane
	assert.Equal(t, r1.ID, got[0].RaceID)
	assert.Equal(t, 1, got[0].Lane)
	assert.Equal(t, r2.ID, got[3].RaceID)
}
