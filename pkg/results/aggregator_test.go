//nolint:errcheck,funlen // ok for this test code
package results

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	crewrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/crew"
	racerepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/race"
	timingrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/timing"
	"github.com/openregatta/regatta-service-manager-go/testsupport/basedata"
	"github.com/openregatta/regatta-service-manager-go/testsupport/testdb"
)

type heatFixture struct {
	races []*model.Race
	// crews of the category in heat order: heat1 lanes, then heat2 lanes
	crews []*model.Crew
}

// seedTwoHeats builds two heats of the SH1x category: four crews, the last
// one without any finish detection.
func seedTwoHeats(
	t *testing.T,
	db *pgxpool.Pool,
	fixture *basedata.Fixture,
) *heatFixture {
	t.Helper()
	ctx := context.Background()

	extra := &model.Crew{
		EventID:    fixture.Event.ID,
		CategoryID: fixture.Categories[0].ID,
		ClubName:   "RC Nantes",
		ClubCode:   "RC",
	}
	if err := crewrepos.Create(ctx, db, extra); err != nil {
		t.Fatalf("create crew: %v", err)
	}
	crews := []*model.Crew{
		fixture.Crews[0], fixture.Crews[1], fixture.Crews[2], extra,
	}

	ret := &heatFixture{crews: crews}
	for i := 0; i < 2; i++ {
		race := &model.Race{
			PhaseID:    fixture.Phase.ID,
			Name:       fmt.Sprintf("SH1x - Série %d", i+1),
			RaceNumber: i + 1, LaneCount: 2, DistanceM: 2000,
		}
		if err := racerepos.Create(ctx, db, race); err != nil {
			t.Fatalf("create race: %v", err)
		}
		ret.races = append(ret.races, race)
	}

	start := fixture.TimingPoints[0]
	finish := fixture.TimingPoints[2]
	// crew 0 and 1 in heat 1, crew 2 and 3 in heat 2; crew 3 never finishes
	durations := map[int]time.Duration{
		crews[0].ID: 430 * time.Second,
		crews[1].ID: 421500 * time.Millisecond,
		crews[2].ID: 425 * time.Second,
	}
	for i, crew := range crews {
		race := ret.races[i/2]
		if err := racerepos.CreateRaceCrew(ctx, db, &model.RaceCrew{
			RaceID: race.ID, CrewID: crew.ID, Lane: i%2 + 1,
		}); err != nil {
			t.Fatalf("create race crew: %v", err)
		}
		st := &model.Timing{TimingPointID: start.ID, Timestamp: basedata.TestTime()}
		if err := timingrepos.Create(ctx, db, st); err != nil {
			t.Fatalf("create start timing: %v", err)
		}
		timingrepos.UpsertAssignment(ctx, db, st.ID, crew.ID)
		dur, finished := durations[crew.ID]
		if !finished {
			continue
		}
		fin := &model.Timing{
			TimingPointID: finish.ID,
			Timestamp:     basedata.TestTime().Add(dur),
		}
		if err := timingrepos.Create(ctx, db, fin); err != nil {
			t.Fatalf("create finish timing: %v", err)
		}
		timingrepos.UpsertAssignment(ctx, db, fin.ID, crew.ID)
	}
	return ret
}

func entryByCrew(entries []*Entry, crewID int) *Entry {
	for _, e := range entries {
		if e.CrewID == crewID {
			return e
		}
	}
	return nil
}

func TestAggregator_PhaseResults(t *testing.T) {
	db := testdb.InitTestDb()
	fixture := basedata.CreateSampleEvent(db)
	heats := seedTwoHeats(t, db, fixture)

	res, err := NewAggregator(db).PhaseResults(
		context.Background(), fixture.Phase.ID)
	assert.NoError(t, err)
	assert.Len(t, res.Races, 2)

	// heat 1: crew 1 beats crew 0
	heat1 := res.Races[0].Entries
	assert.Equal(t, 1, *entryByCrew(heat1, heats.crews[1].ID).Position)
	assert.Equal(t, 2, *entryByCrew(heat1, heats.crews[0].ID).Position)
	assert.Equal(t, 1, *entryByCrew(heat1, heats.crews[1].ID).RankInRace)

	// heat 2: crew 2 finishes, crew 3 does not and stays in the list
	heat2 := res.Races[1].Entries
	assert.Len(t, heat2, 2)
	assert.Equal(t, 1, *entryByCrew(heat2, heats.crews[2].ID).Position)
	assert.Nil(t, entryByCrew(heat2, heats.crews[3].ID).Position)

	// scratch ranking interleaves the heats by duration
	scratch := res.ByCategory[fixture.Categories[0].ID]
	assert.Len(t, scratch, 4)
	assert.Equal(t, 1, *entryByCrew(scratch, heats.crews[1].ID).RankScratch)
	assert.Equal(t, 2, *entryByCrew(scratch, heats.crews[2].ID).RankScratch)
	assert.Equal(t, 3, *entryByCrew(scratch, heats.crews[0].ID).RankScratch)
	assert.Nil(t, entryByCrew(scratch, heats.crews[3].ID).RankScratch)

	// per-heat positions stay intact on the shared entries
	assert.Equal(t, 1, *entryByCrew(scratch, heats.crews[2].ID).Position)
}

func TestAggregator_EventResults(t *testing.T) {
	db := testdb.InitTestDb()
	fixture := basedata.CreateSampleEvent(db)
	heats := seedTwoHeats(t, db, fixture)

	res, err := NewAggregator(db).EventResults(
		context.Background(), fixture.Event.ID)
	assert.NoError(t, err)

	byCat := res.ByCategory[fixture.Categories[0].ID]
	assert.Len(t, byCat, 4)
	assert.Equal(t, 1, *entryByCrew(byCat, heats.crews[1].ID).Position)
	assert.Equal(t, 2, *entryByCrew(byCat, heats.crews[2].ID).Position)
	assert.Equal(t, 3, *entryByCrew(byCat, heats.crews[0].ID).Position)
	assert.Nil(t, entryByCrew(byCat, heats.crews[3].ID).Position)
}
