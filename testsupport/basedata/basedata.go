//nolint:whitespace // can't make both editor and linter happy
package basedata

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openregatta/regatta-service-manager-go/pkg/model"
	categoryrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/category"
	crewrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/crew"
	eventrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/event"
	phaserepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/phase"
	tprepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/timingpoint"
	"github.com/openregatta/regatta-service-manager-go/pkg/utils"
)

// Fixture holds a fully wired sample event for repository and service tests.
type Fixture struct {
	Event        *model.Event
	TimingPoints []*model.TimingPoint
	Phase        *model.RacePhase
	Categories   []*model.Category
	Crews        []*model.Crew
}

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2026-06-20T09:00:00Z")
	return t
}

// StationToken is the plain token of the sample start timing point.
const StationToken = "test-station-token"

func SampleEvent() *model.Event {
	return &model.Event{
		Name:      "Régate test",
		StartDate: TestTime(),
		EndDate:   TestTime().Add(24 * time.Hour),
	}
}

// CreateSampleEvent stores a sample event with three timing points
// (start, 500m split, finish), one phase, two categories and six crews.
//
//nolint:funlen // fixtures are linear
func CreateSampleEvent(pool *pgxpool.Pool) *Fixture {
	ctx := context.Background()
	fail := func(err error) {
		if err != nil {
			log.Fatalf("basedata: %v\n", err)
		}
	}
	ret := &Fixture{Event: SampleEvent()}
	fail(eventrepos.Create(ctx, pool, ret.Event))

	ret.TimingPoints = []*model.TimingPoint{
		{
			EventID: ret.Event.ID, Label: "Départ", OrderIndex: 0,
			DistanceM: 0, TokenHash: utils.HashStationToken(StationToken),
		},
		{
			EventID: ret.Event.ID, Label: "500m", OrderIndex: 1,
			DistanceM: 500, TokenHash: utils.HashStationToken("split-token"),
		},
		{
			EventID: ret.Event.ID, Label: "Arrivée", OrderIndex: 2,
			DistanceM: 2000, TokenHash: utils.HashStationToken("finish-token"),
		},
	}
	for _, tp := range ret.TimingPoints {
		fail(tprepos.Create(ctx, pool, tp))
	}

	ret.Phase = &model.RacePhase{
		EventID: ret.Event.ID, Name: "Séries", OrderIndex: 0,
	}
	fail(phaserepos.Create(ctx, pool, ret.Phase))

	ret.Categories = []*model.Category{
		{
			EventID: ret.Event.ID, Code: "SH1x", Label: "Senior Homme Skiff",
			BoatSeats: 1, Gender: "m", AgeGroup: "senior",
		},
		{
			EventID: ret.Event.ID, Code: "SF2x", Label: "Senior Femme Double",
			BoatSeats: 2, Gender: "f", AgeGroup: "senior",
		},
	}
	for _, c := range ret.Categories {
		fail(categoryrepos.Create(ctx, pool, c))
	}

	clubs := []string{"CN Lyon", "SN Avignon", "EN Tours"}
	for _, cat := range ret.Categories {
		for i, club := range clubs {
			crew := &model.Crew{
				EventID:    ret.Event.ID,
				CategoryID: cat.ID,
				ClubName:   club,
				ClubCode:   club[:2],
			}
			seed := int64((7*60 + 10*i) * 1000)
			crew.SeedTimeMs = &seed
			fail(crewrepos.Create(ctx, pool, crew))
			ret.Crews = append(ret.Crews, crew)
		}
	}
	return ret
}
